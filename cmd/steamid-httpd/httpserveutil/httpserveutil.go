package httpserveutil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"steamid-convert/steamidhttp"
	"time"

	"github.com/rs/zerolog"
)

func BadRequest(w http.ResponseWriter, format string, a ...any) error {
	return writeError(w, http.StatusBadRequest, format, a...)
}

func NotFound(w http.ResponseWriter, format string, a ...any) error {
	return writeError(w, http.StatusNotFound, format, a...)
}

func MethodNotAllowed(w http.ResponseWriter, allow string) error {
	w.Header().Set("Allow", allow)
	return writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func UnprocessableEntity(w http.ResponseWriter, format string, a ...any) error {
	return writeError(w, http.StatusUnprocessableEntity, format, a...)
}

// writeError replies with a JSON error body carrying the formatted message.
func writeError(w http.ResponseWriter, code int, format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	WriteJSON(w, code, steamidhttp.ErrorResponse{Error: err.Error()})
	return err
}

func InternalError(w http.ResponseWriter, format string, a ...any) error {
	err := fmt.Errorf(format, a...)
	writeError(w, http.StatusInternalServerError, "internal error")
	return err
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts f to an http.HandlerFunc and logs one line per request.
func Handle(logger zerolog.Logger, f ErrorHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		err := f(rec, r)
		elapsed := time.Since(start)

		remoteaddr := r.Header.Get("X-Forwarded-For")
		if remoteaddr == "" {
			remoteaddr = r.RemoteAddr
		}

		event := logger.Info()
		if err != nil {
			event = logger.Warn().Err(err)
		}

		event.
			Str("remote_addr", remoteaddr).
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) error {
	body, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))

	return nil
}

func NewServer(addr string, mux http.Handler, tlsconf *tls.Config, logger zerolog.Logger) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			TLSConfig:         tlsconf,
			ReadTimeout:       0,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      0,
			IdleTimeout:       0,
			MaxHeaderBytes:    0,
		},
		logger: logger,
	}
}

type Server struct {
	*http.Server
	logger zerolog.Logger
}

func (s *Server) Shutdown() error {
	d := 30 * time.Second
	timeout, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	// ensure the http server is shutdown
	if err := s.Server.Shutdown(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// Run listens on s.Addr and serves until the server is shut down.
func (s *Server) Run(context.Context) error {
	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	if s.Server.TLSConfig != nil {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("serving HTTPS")

		if err := s.Server.ServeTLS(listener, "", ""); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve tls: %w", err)
		}
	} else {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("serving HTTP")

		if err := s.Server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	}

	return nil
}

type Router interface {
	Routes(logger zerolog.Logger) map[string]http.Handler
}

type Mux interface {
	Handle(path string, handler http.Handler)
}

func Register(mux Mux, logger zerolog.Logger, routers ...Router) {
	for _, router := range routers {
		routes := router.Routes(logger)

		for path, handler := range routes {
			mux.Handle(path, handler)
		}
	}
}
