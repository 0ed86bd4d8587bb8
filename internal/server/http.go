package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/mehmetcc/edutoy/internal/config"
)

type HTTPServer struct {
	*http.Server
	ln net.Listener
}

func NewHTTP(cfg *config.AppConfig, h http.Handler) *HTTPServer {
	return &HTTPServer{
		Server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      h,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Listen binds the address without serving, so the caller can log the real
// port before Run.
func (s *HTTPServer) Listen() (err error) {
	s.ln, err = net.Listen("tcp", s.Server.Addr)
	return err
}

func (s *HTTPServer) Addr() net.Addr {
	return s.ln.Addr()
}

// Run serves until Close. A clean shutdown returns nil.
func (s *HTTPServer) Run() error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	if err := s.Server.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Close(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
