// Package server exposes the compiler over HTTP, WebSocket and HTTP/3.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/quic-go/quic-go/http3"

	"github.com/startasm-lang/startasm/internal/cli"
)

// VersionHeader carries an optional semver constraint the server's
// compiler version must satisfy.
const VersionHeader = "X-StartASM-Version"

// Server is the compile service.
type Server struct {
	cfg      cli.ServerConfig
	logger   *slog.Logger
	mux      *http.ServeMux
	upgrader websocket.Upgrader
	h3       *http3.Server
}

// New creates a server. A nil logger uses slog.Default.
func New(cfg cli.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = cli.DefaultConfig().Server.MaxBytes
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc("POST /v1/compile", s.handleCompile)
	s.mux.HandleFunc("GET /v1/version", s.handleVersion)
	s.mux.HandleFunc("GET /v1/live", s.handleLive)
	return s
}

// Handler returns the HTTP handler with version gating applied.
func (s *Server) Handler() http.Handler {
	return s.withVersionCheck(s.mux)
}

// ListenAndServe serves HTTP/1.1 on the configured address and, when
// HTTP/3 is enabled with TLS files, HTTP/3 on the same UDP port. It returns
// when ctx is done or a listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errC := make(chan error, 2)

	if s.cfg.HTTP3 {
		pc, err := s.startHTTP3(ln.Addr().String())
		if err != nil {
			_ = ln.Close()
			return err
		}
		go func() { errC <- s.h3.Serve(pc) }()
		defer pc.Close()
		s.logger.Info("serving HTTP/3", "addr", pc.LocalAddr().String())
	}

	go func() { errC <- srv.Serve(ln) }()
	s.logger.Info("serving HTTP", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
	case err := <-errC:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = srv.Close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.h3 != nil {
		_ = s.h3.Close()
	}
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) startHTTP3(addr string) (net.PacketConn, error) {
	if s.cfg.CertFile == "" || s.cfg.KeyFile == "" {
		return nil, errors.New("http3 requires cert_file and key_file")
	}
	pair, err := tls.LoadX509KeyPair(s.cfg.CertFile, s.cfg.KeyFile)
	if err != nil {
		return nil, err
	}
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, err
	}
	s.h3 = &http3.Server{
		Addr:      addr,
		TLSConfig: &tls.Config{Certificates: []tls.Certificate{pair}, MinVersion: tls.VersionTLS13},
		Handler:   s.Handler(),
	}
	return pc, nil
}
