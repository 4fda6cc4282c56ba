package session

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avisser/redline/internal/config"
	"github.com/avisser/redline/internal/db"
	"github.com/avisser/redline/internal/errors"
	"github.com/avisser/redline/internal/gateway"
	"github.com/avisser/redline/internal/history"
	"github.com/avisser/redline/internal/selection"
	"github.com/avisser/redline/internal/transcript"
)

// Manager owns the open sessions, one per document. Opening a document
// that already has a session returns the existing one so two editor tabs
// share a single authoritative buffer.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session // keyed by document ID
	byToken  map[string]*Session

	database *sql.DB
	cfg      *config.Config
	client   gateway.Client
	logger   *zap.Logger
}

// NewManager creates a session manager. client may be nil when no
// collaborator is configured; transform requests then fail cleanly.
func NewManager(database *sql.DB, cfg *config.Config, client gateway.Client, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		byToken:  make(map[string]*Session),
		database: database,
		cfg:      cfg,
		client:   client,
		logger:   logger,
	}
}

// Open loads the document and its persisted transcript and returns a live
// session for it, creating one on first open.
func (m *Manager) Open(documentID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[documentID]; ok {
		return s, nil
	}

	doc, err := db.GetByID(m.database, documentID, false)
	if err != nil {
		return nil, err
	}
	msgs, err := db.LoadTranscript(m.database, documentID)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	flushDelay := time.Duration(m.cfg.TranscriptFlushMS) * time.Millisecond
	log := transcript.NewLog(documentID, msgs, flushDelay, m.persistFunc(), m.logger)
	tracker := selection.New(time.Duration(m.cfg.SelectionDebounceMS) * time.Millisecond)

	s := New(token, doc, history.New(m.cfg.HistoryLimit), tracker, log, m.client, m.cfg.ContextMessages, m.logger)
	m.sessions[documentID] = s
	m.byToken[token] = s

	m.logger.Info("session opened",
		zap.String("document_id", documentID),
		zap.String("session", token),
	)
	return s, nil
}

// Get returns the session for a document ID, if open.
func (m *Manager) Get(documentID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[documentID]
	if !ok {
		return nil, errors.NewNotFound(documentID)
	}
	return s, nil
}

// GetByToken returns the session for a session token, if open.
func (m *Manager) GetByToken(token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byToken[token]
	if !ok {
		return nil, errors.NewNotFound(token)
	}
	return s, nil
}

// Close flushes and drops the session for a document ID. Unsaved content
// changes are discarded; the transcript's trailing write is not.
func (m *Manager) Close(documentID string) {
	m.mu.Lock()
	s, ok := m.sessions[documentID]
	if ok {
		delete(m.sessions, documentID)
		delete(m.byToken, s.Token)
	}
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// CloseAll flushes and drops every open session. Called on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.sessions = make(map[string]*Session)
	m.byToken = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
}

func (m *Manager) persistFunc() transcript.PersistFunc {
	return func(documentID string, msgs []transcript.Message) error {
		return db.ReplaceTranscript(m.database, documentID, msgs)
	}
}
