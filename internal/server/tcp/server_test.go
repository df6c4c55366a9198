package tcp

import (
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"

	"github.com/indigo-web/sparrow/internal/pool"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTCP(t *testing.T) {
	t.Run("stop", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		server := NewServer(listener, pool.New(1, pool.WithLogger(discard)), func(conn net.Conn) {
			_ = conn.Close()
		}, discard)
		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()
		require.NoError(t, server.Stop())
		require.ErrorIs(t, <-stopCh, ErrShutdown)
	})

	t.Run("connections are dispatched", func(t *testing.T) {
		const conns = 20
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		var served atomic.Int32
		server := NewServer(listener, pool.New(3, pool.WithLogger(discard)), func(conn net.Conn) {
			defer conn.Close()
			buff := make([]byte, 4)
			n, _ := io.ReadFull(conn, buff)
			_, _ = conn.Write(buff[:n])
			served.Add(1)
		}, discard)

		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		for range conns {
			conn, err := net.Dial("tcp", server.Addr().String())
			require.NoError(t, err)
			_, err = conn.Write([]byte("ping"))
			require.NoError(t, err)
			echo, err := io.ReadAll(conn)
			require.NoError(t, err)
			require.Equal(t, "ping", string(echo))
			require.NoError(t, conn.Close())
		}

		require.NoError(t, server.Stop())
		require.ErrorIs(t, <-stopCh, ErrShutdown)
		require.Equal(t, int32(conns), served.Load())
	})

	t.Run("in-flight connection completes after stop", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		accepted := make(chan struct{})
		release := make(chan struct{})
		var finished atomic.Bool
		server := NewServer(listener, pool.New(1, pool.WithLogger(discard)), func(conn net.Conn) {
			close(accepted)
			<-release
			finished.Store(true)
			_ = conn.Close()
		}, discard)

		stopCh := make(chan error)
		go func() {
			stopCh <- server.Start()
		}()

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		defer conn.Close()

		<-accepted
		require.NoError(t, server.Stop())
		close(release)
		require.ErrorIs(t, <-stopCh, ErrShutdown)
		require.True(t, finished.Load())
	})
}
