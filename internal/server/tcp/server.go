package tcp

import (
	"errors"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/indigo-web/sparrow/internal/pool"
)

// ErrShutdown is returned by Start after the server was stopped.
var ErrShutdown = errors.New("graceful shutdown")

type OnConnection func(net.Conn)

// Server accepts connections and hands every one of them over to the pool as a separate
// task.
type Server struct {
	sock     net.Listener
	onConn   OnConnection
	pool     *pool.Pool
	logger   *slog.Logger
	shutdown atomic.Bool
}

func NewServer(sock net.Listener, p *pool.Pool, onConn OnConnection, logger *slog.Logger) *Server {
	return &Server{
		sock:   sock,
		onConn: onConn,
		pool:   p,
		logger: logger,
	}
}

// Start runs the accept loop. It returns after the listener was closed, once every already
// accepted connection was served. The pool is closed on return.
func (s *Server) Start() error {
	for {
		conn, err := s.sock.Accept()
		if err != nil {
			s.pool.Close()
			s.pool.Wait()

			if s.shutdown.Load() {
				return ErrShutdown
			}

			return err
		}

		if err = s.pool.Submit(s.task(conn)); err != nil {
			s.logger.Error("cannot dispatch connection", slog.String("remote", conn.RemoteAddr().String()), slog.Any("err", err))
			_ = conn.Close()
		}
	}
}

func (s *Server) task(conn net.Conn) pool.Task {
	return func() {
		s.onConn(conn)
	}
}

// Stop shuts the listener down. Connections that are already accepted are served till the
// end.
func (s *Server) Stop() error {
	s.shutdown.Store(true)

	return s.sock.Close()
}

// Addr returns the address the listener is bound to.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}
