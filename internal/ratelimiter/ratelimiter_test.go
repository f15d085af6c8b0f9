package ratelimiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	t.Run("BurstIsServedImmediately", func(t *testing.T) {
		limiter := New(10, 5)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow(), "request %d within burst", i)
		}
	})

	t.Run("ExcessIsRejected", func(t *testing.T) {
		limiter := New(1, 2)
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())
	})

	t.Run("ZeroRateDisablesLimiting", func(t *testing.T) {
		limiter := New(0, 0)
		for i := 0; i < 10000; i++ {
			if !limiter.Allow() {
				t.Fatalf("unlimited limiter rejected request %d", i)
			}
		}
	})

	t.Run("ZeroBurstDefaultsToRate", func(t *testing.T) {
		limiter := New(100, 0)
		assert.True(t, limiter.Allow())
	})
}
