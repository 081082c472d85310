package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gorilla/websocket"

	"github.com/startasm-lang/startasm/internal/ast"
	"github.com/startasm-lang/startasm/internal/cli"
	"github.com/startasm-lang/startasm/internal/pipeline"
)

// CompileRequest is the body of POST /v1/compile.
type CompileRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// CompileResponse reports one compilation.
type CompileResponse struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	AST   *ast.Structured `json:"ast,omitempty"`
	IR    string          `json:"ir,omitempty"`
	Ops   []string        `json:"ops,omitempty"`
}

func (s *Server) compile(r *http.Request, req CompileRequest) *CompileResponse {
	name := req.Name
	if name == "" {
		name = "input.sasm"
	}
	c := pipeline.New(name,
		pipeline.WithSource(req.Source),
		pipeline.WithSilent(true),
		pipeline.WithLogger(s.logger))
	res, err := c.Compile(r.Context())

	resp := &CompileResponse{ID: res.ID.String(), OK: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	if res.Tree != nil {
		resp.AST = res.Tree.Structured()
	}
	if err == nil && res.Module != nil {
		resp.IR = res.Module.Text()
		for _, op := range res.Module.Ops() {
			resp.Ops = append(resp.Ops, op.String())
		}
	}
	s.logger.Info("compiled", "id", resp.ID, "name", name, "ok", resp.OK)
	return resp
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBytes)
	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resp := s.compile(r, req)
	status := http.StatusOK
	if !resp.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cli.GetVersionInfo())
}

// handleLive compiles every text message of a WebSocket session and
// replies with its CompileResponse.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.MaxBytes)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live session ended", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text messages only"))
			return
		}
		resp := s.compile(r, CompileRequest{Name: "live.sasm", Source: string(msg)})
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (s *Server) withVersionCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.h3 != nil {
			_ = s.h3.SetQUICHeaders(w.Header())
		}
		raw := strings.TrimSpace(r.Header.Get(VersionHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		c, err := semver.NewConstraint(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %v", VersionHeader, err))
			return
		}
		if !c.Check(cli.SemVer()) {
			writeError(w, http.StatusPreconditionFailed, fmt.Sprintf("startasm %s does not satisfy %q", cli.Version, raw))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
