// Package server runs the UDP listeners and dispatches Sun RPC calls to the
// NFS, Mount, and portmap handlers. UDP is datagram-oriented: one datagram
// carries one call, the reply fits in one datagram, and there is no
// record-marking framing.
package server

import (
	"context"
	"fmt"
	"net"

	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/mount"
	"github.com/marmos91/nfs2d/internal/protocol/nfs"
	"github.com/marmos91/nfs2d/internal/protocol/portmap"
	"github.com/marmos91/nfs2d/internal/ratelimiter"
	"github.com/marmos91/nfs2d/internal/vfs"
)

// maxDatagramSize is the largest UDP payload the server reads. An NFSv2 READ
// reply caps at 8192 data bytes plus headers, well under this.
const maxDatagramSize = 65507

// Options configures the listening sockets and request throttling.
type Options struct {
	Bind      string
	NFSPort   uint16
	MountPort uint16

	// RateLimit is the sustained datagrams-per-second budget shared by both
	// sockets; 0 disables limiting. Excess datagrams are dropped.
	RateLimit uint
	RateBurst uint
}

// Server serves NFSv2, Mount v1, and the portmap stub over two UDP sockets.
// Every program is dispatched on either socket, so clients that probe the
// portmapper on the NFS port still get an answer.
type Server struct {
	opts           Options
	nfsHandler     NFSHandler
	mountHandler   MountHandler
	portmapHandler PortmapHandler
	limiter        *ratelimiter.RateLimiter
}

// New creates a server over the given export table with the default
// handlers wired to a shared resolver.
func New(opts Options, exports *export.Table, resolver *vfs.Resolver) *Server {
	return &Server{
		opts:           opts,
		nfsHandler:     nfs.NewHandler(exports, resolver),
		mountHandler:   mount.NewHandler(exports, resolver),
		portmapHandler: portmap.NewHandler(),
		limiter:        ratelimiter.New(opts.RateLimit, opts.RateBurst),
	}
}

// RegisterNFSHandler registers a custom NFS handler
func (s *Server) RegisterNFSHandler(handler NFSHandler) {
	s.nfsHandler = handler
}

// RegisterMountHandler registers a custom Mount handler
func (s *Server) RegisterMountHandler(handler MountHandler) {
	s.mountHandler = handler
}

// RegisterPortmapHandler registers a custom portmap handler
func (s *Server) RegisterPortmapHandler(handler PortmapHandler) {
	s.portmapHandler = handler
}

// Serve opens both UDP sockets and processes datagrams until the context is
// cancelled or a socket fails.
func (s *Server) Serve(ctx context.Context) error {
	nfsConn, err := net.ListenPacket("udp", fmt.Sprintf("%s:%d", s.opts.Bind, s.opts.NFSPort))
	if err != nil {
		return fmt.Errorf("listen NFS socket: %w", err)
	}
	defer nfsConn.Close()

	mountConn, err := net.ListenPacket("udp", fmt.Sprintf("%s:%d", s.opts.Bind, s.opts.MountPort))
	if err != nil {
		return fmt.Errorf("listen Mount socket: %w", err)
	}
	defer mountConn.Close()

	logger.Info("NFS listening on %s/udp, Mount on %s/udp",
		nfsConn.LocalAddr(), mountConn.LocalAddr())

	go func() {
		<-ctx.Done()
		nfsConn.Close()
		mountConn.Close()
	}()

	errCh := make(chan error, 2)
	go func() { errCh <- s.servePacketConn(ctx, nfsConn) }()
	go func() { errCh <- s.servePacketConn(ctx, mountConn) }()

	// Both loops exit on context cancellation; the first real socket error
	// wins and cancellation-driven closes report nil.
	firstErr := <-errCh
	<-errCh
	return firstErr
}

// servePacketConn reads datagrams from one socket and answers them in order.
// Read-only procedures are idempotent, so a retransmitted call is simply
// answered again.
func (s *Server) servePacketConn(ctx context.Context, conn net.PacketConn) error {
	buf := make([]byte, maxDatagramSize)

	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("read datagram: %w", err)
			}
		}

		if !s.limiter.Allow() {
			logger.Debug("Rate limit exceeded, dropping datagram from %s", addr)
			continue
		}

		reply := s.Dispatch(hostOf(addr), buf[:n])
		if reply == nil {
			continue
		}

		if _, err := conn.WriteTo(reply, addr); err != nil {
			logger.Warn("Failed to send reply to %s: %v", addr, err)
		}
	}
}

func hostOf(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
