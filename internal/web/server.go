// Package web exposes the editor API over HTTP: document CRUD plus the
// per-document session endpoints the editor frontend drives (selection,
// transform, proposal review, undo/redo, chat, image upload).
package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avisser/redline/internal/assets"
	"github.com/avisser/redline/internal/config"
	"github.com/avisser/redline/internal/session"
)

// NewServer creates and configures the HTTP server for the editor API.
func NewServer(db *sql.DB, cfg *config.Config, sessions *session.Manager, store *assets.Store, version, bind string, port int, logger *zap.Logger) *http.Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handlers{
		db:       db,
		cfg:      cfg,
		sessions: sessions,
		assets:   store,
		version:  version,
		logger:   logger,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/documents", http.StatusFound)
	})
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	mux.HandleFunc("GET /documents", h.HandleList)
	mux.HandleFunc("POST /documents", h.HandleCreate)
	mux.HandleFunc("GET /documents/{id}", h.HandleFetch)
	mux.HandleFunc("PUT /documents/{id}", h.HandleSave)
	mux.HandleFunc("DELETE /documents/{id}", h.HandleDelete)
	mux.HandleFunc("POST /documents/{id}/purge", h.HandlePurge)
	mux.HandleFunc("GET /documents/{id}/preview", h.HandlePreview)

	// Editor session endpoints
	mux.HandleFunc("POST /documents/{id}/open", h.HandleOpen)
	mux.HandleFunc("POST /documents/{id}/close", h.HandleClose)
	mux.HandleFunc("PUT /documents/{id}/content", h.HandleContent)
	mux.HandleFunc("POST /documents/{id}/selection", h.HandleSelection)
	mux.HandleFunc("POST /documents/{id}/cursor", h.HandleCursor)
	mux.HandleFunc("POST /documents/{id}/transform", h.HandleTransform)
	mux.HandleFunc("GET /documents/{id}/proposal", h.HandleProposal)
	mux.HandleFunc("PUT /documents/{id}/proposal", h.HandleProposalEdit)
	mux.HandleFunc("POST /documents/{id}/proposal/accept", h.HandleAccept)
	mux.HandleFunc("POST /documents/{id}/proposal/reject", h.HandleReject)
	mux.HandleFunc("POST /documents/{id}/undo", h.HandleUndo)
	mux.HandleFunc("POST /documents/{id}/redo", h.HandleRedo)
	mux.HandleFunc("GET /documents/{id}/messages", h.HandleMessages)
	mux.HandleFunc("DELETE /documents/{id}/messages", h.HandleClearMessages)
	mux.HandleFunc("POST /documents/{id}/images", h.HandleImageUpload)

	// Stored image assets
	mux.Handle("GET /assets/", http.StripPrefix("/assets/",
		http.FileServer(http.Dir(store.Dir()))))

	// Wrap with security headers
	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
// Open sessions are flushed before the listener is torn down so trailing
// transcript writes are not lost.
func Run(srv *http.Server, sessions *session.Manager, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("editor API running", zap.String("addr", srv.Addr))

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutting down")
		sessions.CloseAll()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
