package nfs

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/handle"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/internal/vfs"
)

func newTestHandler(t *testing.T) (*DefaultNFSHandler, *vfs.Resolver, string) {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello world\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.Symlink("hello.txt", filepath.Join(root, "self")))

	table, err := export.NewTable([]export.Entry{
		{Name: "share", Path: root, Options: export.Options{ReadOnly: true}},
	})
	require.NoError(t, err)

	resolver := vfs.NewResolver(0, 0)
	return NewHandler(table, resolver), resolver, root
}

func rootHandle(t *testing.T, root string) []byte {
	t.Helper()
	obj, err := vfs.Stat(root)
	require.NoError(t, err)
	return obj.Handle()
}

func handleFor(t *testing.T, path string) []byte {
	t.Helper()
	obj, err := vfs.Stat(path)
	require.NoError(t, err)
	return obj.Handle()
}

func TestNull(t *testing.T) {
	h, _, _ := newTestHandler(t)
	data, err := h.Null()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestGetAttr(t *testing.T) {
	h, _, root := newTestHandler(t)

	t.Run("ReturnsAttributesForRegularFile", func(t *testing.T) {
		resp, err := h.GetAttr(&GetAttrRequest{Handle: handleFor(t, filepath.Join(root, "hello.txt"))})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSOK), resp.Status)
		require.NotNil(t, resp.Attr)
		assert.Equal(t, uint32(FileTypeRegular), resp.Attr.Type)
		assert.Equal(t, uint32(12), resp.Attr.Size)
	})

	t.Run("ReturnsDirectoryType", func(t *testing.T) {
		resp, err := h.GetAttr(&GetAttrRequest{Handle: rootHandle(t, root)})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSOK), resp.Status)
		assert.Equal(t, uint32(FileTypeDirectory), resp.Attr.Type)
	})

	t.Run("UnknownHandleIsStale", func(t *testing.T) {
		fh := rootHandle(t, root)
		fh[8] ^= 0xFF
		resp, err := h.GetAttr(&GetAttrRequest{Handle: fh})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrStale), resp.Status)
		assert.Nil(t, resp.Attr)
	})

	t.Run("SurvivesEncodeOnError", func(t *testing.T) {
		resp := &GetAttrResponse{Status: NFSErrStale}
		encoded, err := resp.Encode()
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 70}, encoded)
	})
}

func TestLookup(t *testing.T) {
	h, _, root := newTestHandler(t)
	dirHandle := rootHandle(t, root)

	t.Run("FindsChildAndIssuesUsableHandle", func(t *testing.T) {
		resp, err := h.Lookup(&LookupRequest{DirHandle: dirHandle, Filename: "hello.txt"})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		assert.Len(t, resp.FileHandle, handle.Size)
		assert.Equal(t, uint32(FileTypeRegular), resp.Attr.Type)

		// the returned handle round-trips through GETATTR
		attr, err := h.GetAttr(&GetAttrRequest{Handle: resp.FileHandle})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSOK), attr.Status)
	})

	t.Run("MissingNameIsNoEnt", func(t *testing.T) {
		resp, err := h.Lookup(&LookupRequest{DirHandle: dirHandle, Filename: "missing.txt"})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrNoEnt), resp.Status)
	})

	t.Run("LookupInFileIsNotDir", func(t *testing.T) {
		fileHandle := handleFor(t, filepath.Join(root, "hello.txt"))
		resp, err := h.Lookup(&LookupRequest{DirHandle: fileHandle, Filename: "x"})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrNotDir), resp.Status)
	})
}

func TestReadLink(t *testing.T) {
	h, _, root := newTestHandler(t)

	t.Run("ReturnsTarget", func(t *testing.T) {
		resp, err := h.ReadLink(&ReadLinkRequest{Handle: handleFor(t, filepath.Join(root, "self"))})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		assert.Equal(t, "hello.txt", resp.Target)
	})

	t.Run("NonSymlinkIsInval", func(t *testing.T) {
		resp, err := h.ReadLink(&ReadLinkRequest{Handle: handleFor(t, filepath.Join(root, "hello.txt"))})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrInval), resp.Status)
	})
}

func TestRead(t *testing.T) {
	h, _, root := newTestHandler(t)
	fileHandle := handleFor(t, filepath.Join(root, "hello.txt"))

	t.Run("ReadsRange", func(t *testing.T) {
		resp, err := h.Read(&ReadRequest{Handle: fileHandle, Offset: 0, Count: 5})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		assert.Equal(t, []byte("hello"), resp.Data)
		require.NotNil(t, resp.Attr)
		assert.Equal(t, uint32(12), resp.Attr.Size)
	})

	t.Run("TailReadIsShort", func(t *testing.T) {
		resp, err := h.Read(&ReadRequest{Handle: fileHandle, Offset: 6, Count: 8192})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		assert.Equal(t, []byte("world\n"), resp.Data)
	})

	t.Run("ReadPastEOFSucceedsEmpty", func(t *testing.T) {
		resp, err := h.Read(&ReadRequest{Handle: fileHandle, Offset: 4096, Count: 100})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		assert.Empty(t, resp.Data)
	})

	t.Run("ClampsCountToMaxData", func(t *testing.T) {
		big := filepath.Join(root, "big.bin")
		require.NoError(t, os.WriteFile(big, make([]byte, 3*MaxData), 0o644))

		resp, err := h.Read(&ReadRequest{Handle: handleFor(t, big), Offset: 0, Count: 3 * MaxData})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		assert.Len(t, resp.Data, MaxData)
	})

	t.Run("ReadingDirectoryIsIsDir", func(t *testing.T) {
		resp, err := h.Read(&ReadRequest{Handle: rootHandle(t, root), Offset: 0, Count: 10})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrIsDir), resp.Status)
	})
}

func TestReadDir(t *testing.T) {
	h, _, root := newTestHandler(t)
	docsHandle := handleFor(t, filepath.Join(root, "docs"))

	t.Run("ListsSortedWithSequentialCookies", func(t *testing.T) {
		resp, err := h.ReadDir(&ReadDirRequest{DirHandle: docsHandle, Cookie: 0, Count: 4096})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		require.Len(t, resp.Entries, 2)
		assert.True(t, resp.Eof)

		assert.Equal(t, "a.txt", resp.Entries[0].Name)
		assert.Equal(t, uint32(1), resp.Entries[0].Cookie)
		assert.Equal(t, "b.txt", resp.Entries[1].Name)
		assert.Equal(t, uint32(2), resp.Entries[1].Cookie)
	})

	t.Run("CookieResumesAfterEntry", func(t *testing.T) {
		resp, err := h.ReadDir(&ReadDirRequest{DirHandle: docsHandle, Cookie: 1, Count: 4096})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		require.Len(t, resp.Entries, 1)
		assert.Equal(t, "b.txt", resp.Entries[0].Name)
		assert.True(t, resp.Eof)
	})

	t.Run("CookiePastEndIsEmptyEof", func(t *testing.T) {
		resp, err := h.ReadDir(&ReadDirRequest{DirHandle: docsHandle, Cookie: 99, Count: 4096})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		assert.Empty(t, resp.Entries)
		assert.True(t, resp.Eof)
	})

	t.Run("TinyBudgetTruncatesWithoutEof", func(t *testing.T) {
		// 12 bytes of fixed overhead plus one entry exceed 40 bytes only
		// when the second entry is added.
		resp, err := h.ReadDir(&ReadDirRequest{DirHandle: docsHandle, Cookie: 0, Count: 40})
		require.NoError(t, err)
		require.Equal(t, uint32(NFSOK), resp.Status)
		require.Len(t, resp.Entries, 1)
		assert.False(t, resp.Eof)

		// resuming from the returned cookie yields the remainder
		rest, err := h.ReadDir(&ReadDirRequest{DirHandle: docsHandle, Cookie: resp.Entries[0].Cookie, Count: 4096})
		require.NoError(t, err)
		require.Len(t, rest.Entries, 1)
		assert.Equal(t, "b.txt", rest.Entries[0].Name)
		assert.True(t, rest.Eof)
	})

	t.Run("NonDirectoryIsNotDir", func(t *testing.T) {
		fileHandle := handleFor(t, filepath.Join(root, "hello.txt"))
		resp, err := h.ReadDir(&ReadDirRequest{DirHandle: fileHandle, Cookie: 0, Count: 4096})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrNotDir), resp.Status)
	})
}

func TestStatFs(t *testing.T) {
	h, _, root := newTestHandler(t)

	resp, err := h.StatFs(&StatFsRequest{Handle: rootHandle(t, root)})
	require.NoError(t, err)
	require.Equal(t, uint32(NFSOK), resp.Status)
	assert.Equal(t, uint32(MaxData), resp.TransferSize)
	assert.NotZero(t, resp.BlockSize)
	assert.NotZero(t, resp.Blocks)
}

func hashTree(t *testing.T, root string) [32]byte {
	t.Helper()
	hasher := sha256.New()
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		hasher.Write([]byte(path))
		if info.Mode().IsRegular() {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			hasher.Write(data)
		}
		return nil
	})
	require.NoError(t, err)
	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}

func TestWriteFamilyIsReadOnly(t *testing.T) {
	h, _, root := newTestHandler(t)
	dirHandle := rootHandle(t, root)
	fileHandle := handleFor(t, filepath.Join(root, "hello.txt"))
	before := hashTree(t, root)

	t.Run("Write", func(t *testing.T) {
		resp, err := h.Write(&WriteRequest{Handle: fileHandle, Offset: 0, Data: []byte("clobber")})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("SetAttr", func(t *testing.T) {
		resp, err := h.SetAttr(&SetAttrRequest{Handle: fileHandle, Attr: SAttr{Mode: 0o777}})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("Create", func(t *testing.T) {
		resp, err := h.Create(&CreateRequest{Where: DiropArgs{DirHandle: dirHandle, Filename: "new.txt"}})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("Mkdir", func(t *testing.T) {
		resp, err := h.Mkdir(&CreateRequest{Where: DiropArgs{DirHandle: dirHandle, Filename: "newdir"}})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("Remove", func(t *testing.T) {
		resp, err := h.Remove(&DiropArgs{DirHandle: dirHandle, Filename: "hello.txt"})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("Rmdir", func(t *testing.T) {
		resp, err := h.Rmdir(&DiropArgs{DirHandle: dirHandle, Filename: "docs"})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("Rename", func(t *testing.T) {
		resp, err := h.Rename(&RenameRequest{
			From: DiropArgs{DirHandle: dirHandle, Filename: "hello.txt"},
			To:   DiropArgs{DirHandle: dirHandle, Filename: "renamed.txt"},
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("Link", func(t *testing.T) {
		resp, err := h.Link(&LinkRequest{From: fileHandle, To: DiropArgs{DirHandle: dirHandle, Filename: "hard"}})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("Symlink", func(t *testing.T) {
		resp, err := h.Symlink(&SymlinkRequest{
			From:   DiropArgs{DirHandle: dirHandle, Filename: "soft"},
			Target: "/etc/passwd",
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(NFSErrRofs), resp.Status)
	})

	t.Run("TreeIsUntouched", func(t *testing.T) {
		assert.Equal(t, before, hashTree(t, root))
	})
}

func TestRofsDecoders(t *testing.T) {
	dirHandle := make([]byte, handle.Size)
	fileHandle := make([]byte, handle.Size)

	t.Run("WriteArgs", func(t *testing.T) {
		req := WriteRequest{Handle: fileHandle, BeginOffset: 1, Offset: 2, TotalCount: 3, Data: []byte("abc")}
		decoded, err := DecodeWriteRequest(encodeWriteArgs(t, &req))
		require.NoError(t, err)
		assert.Equal(t, req.Offset, decoded.Offset)
		assert.Equal(t, req.Data, decoded.Data)
	})

	t.Run("TruncatedWriteArgsFail", func(t *testing.T) {
		_, err := DecodeWriteRequest([]byte{1, 2, 3})
		assert.Error(t, err)
	})

	t.Run("SymlinkArgs", func(t *testing.T) {
		encoded := encodeSymlinkArgs(t, dirHandle, "soft", "target")
		decoded, err := DecodeSymlinkRequest(encoded)
		require.NoError(t, err)
		assert.Equal(t, "soft", decoded.From.Filename)
		assert.Equal(t, "target", decoded.Target)
	})
}

func encodeWriteArgs(t *testing.T, req *WriteRequest) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, xdr.EncodeFixedOpaque(&buf, req.Handle))
	require.NoError(t, xdr.EncodeUint32(&buf, req.BeginOffset))
	require.NoError(t, xdr.EncodeUint32(&buf, req.Offset))
	require.NoError(t, xdr.EncodeUint32(&buf, req.TotalCount))
	require.NoError(t, xdr.EncodeOpaque(&buf, req.Data))
	return buf.Bytes()
}

func encodeSymlinkArgs(t *testing.T, dirHandle []byte, name, target string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, xdr.EncodeFixedOpaque(&buf, dirHandle))
	require.NoError(t, xdr.EncodeString(&buf, name))
	require.NoError(t, xdr.EncodeString(&buf, target))
	for range 8 {
		require.NoError(t, xdr.EncodeUint32(&buf, 0xFFFFFFFF))
	}
	return buf.Bytes()
}
