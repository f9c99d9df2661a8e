package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"

	"github.com/yndnr/tokclaim-go/internal/server/config"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	certFile   string
	keyFile    string
}

// New creates a new HTTP server from cfg. TLS is used when both the
// certificate and key files are set.
func New(cfg config.HTTPConfig, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		certFile: cfg.TLSCertFile,
		keyFile:  cfg.TLSKeyFile,
	}
}

// Listen binds the listening socket, so bind errors surface before the
// server is reported as started.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// TLS reports whether the server serves HTTPS.
func (s *Server) TLS() bool {
	return s.certFile != "" && s.keyFile != ""
}

// Serve accepts connections until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	var err error
	if s.TLS() {
		certFile, keyFile := s.certFile, s.keyFile
		if cfg := s.httpServer.TLSConfig; cfg != nil && cfg.GetCertificate != nil {
			certFile, keyFile = "", ""
		}
		err = s.httpServer.ServeTLS(s.listener, certFile, keyFile)
	} else {
		err = s.httpServer.Serve(s.listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// SetCertificateSource makes the server ask get for its certificate on
// every handshake instead of loading the configured files once. It must
// be called before Serve.
func (s *Server) SetCertificateSource(get func(*tls.ClientHelloInfo) (*tls.Certificate, error)) {
	s.httpServer.TLSConfig = &tls.Config{
		GetCertificate: get,
		MinVersion:     tls.VersionTLS12,
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
