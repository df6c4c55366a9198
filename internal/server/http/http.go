package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"unicode/utf8"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/sparrow/http"
	"github.com/indigo-web/sparrow/http/status"
	"github.com/indigo-web/sparrow/internal/parser/http1"
	"github.com/indigo-web/sparrow/internal/render"
	"github.com/indigo-web/sparrow/internal/server/tcp"
	"github.com/indigo-web/sparrow/router"
	"github.com/indigo-web/sparrow/security"
)

var headersTerminator = []byte("\r\n\r\n")

// Server serves exactly one request per connection: it reads the request, routes it, writes
// the response back and closes the connection.
type Server struct {
	router         *router.Router
	protocol       security.Protocol
	readBufferSize int
	logger         *slog.Logger
}

func NewServer(r *router.Router, protocol security.Protocol, readBufferSize int, logger *slog.Logger) *Server {
	return &Server{
		router:         r,
		protocol:       protocol,
		readBufferSize: readBufferSize,
		logger:         logger,
	}
}

// Serve handles the connection till the end. Every connection gets a response, even if
// something panicked along the way.
func (s *Server) Serve(conn net.Conn) {
	client := tcp.NewClient(conn, make([]byte, s.readBufferSize))
	logger := s.logger.With(
		slog.String("conn", uniuri.New()),
		slog.String("remote", client.Remote().String()),
	)

	defer func() {
		if err := client.Close(); err != nil {
			logger.Debug("cannot close connection", slog.Any("err", err))
		}
	}()

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error(
				"recovered from panic while serving connection",
				slog.Any("panic", recovered),
				slog.String("stack", string(debug.Stack())),
			)
			s.write(client, logger, http.Error(status.Internal(fmt.Sprint(recovered))))
		}
	}()

	s.write(client, logger, s.HandleRequest(client, logger))
}

// HandleRequest reads and routes a single request.
func (s *Server) HandleRequest(client tcp.Client, logger *slog.Logger) http.Response {
	request, err := s.receive(client)
	if err != nil {
		if status.KindOf(err) == status.KindInternal {
			logger.Error("cannot read request", slog.Any("err", err))
		} else {
			logger.Warn("malformed request", slog.Any("err", err))
		}

		return s.router.Error(nil, err)
	}

	response := s.router.Route(request, s.protocol)
	logger.Debug(
		"request served",
		slog.String("method", request.Method.String()),
		slog.String("path", request.Path),
		slog.Int("code", int(response.Code())),
	)

	return response
}

// receive reads until the request is complete, the peer stops sending or the buffer is
// exhausted, whichever comes first, and parses whatever was read.
func (s *Server) receive(client tcp.Client) (*http.Request, error) {
	data := make([]byte, 0, s.readBufferSize)

	for {
		chunk, err := client.Read()
		data = append(data, chunk[:min(len(chunk), cap(data)-len(data))]...)
		eof := err != nil
		if eof && !errors.Is(err, io.EOF) {
			return nil, status.Wrap(status.KindInternal, "cannot read request", err)
		}

		canWait := !eof && len(data) < cap(data)
		if canWait && (!bytes.Contains(data, headersTerminator) || incompleteRune(data)) {
			continue
		}

		request, err := http1.Parse(data)
		if canWait && errors.Is(err, http1.ErrShortBody) {
			continue
		}

		return request, err
	}
}

func (s *Server) write(client tcp.Client, logger *slog.Logger, response http.Response) {
	if err := client.Write(render.Bytes(response)); err != nil {
		logger.Error("cannot write response", slog.Any("err", err))
	}
}

// incompleteRune reports whether the data ends in the middle of a multibyte character.
func incompleteRune(data []byte) bool {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		if tail := data[len(data)-i:]; utf8.RuneStart(tail[0]) {
			return !utf8.FullRune(tail)
		}
	}

	return false
}
