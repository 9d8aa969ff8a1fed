package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lucashb/cotador/internal/cotacao"
)

// The local store is the only persistence this application owns: the
// session's access token and the quote wizard's draft. Entities live behind
// the remote API and are never written here.

// Session holds one authenticated browser session. Token is the remote
// API's access token; presence of a row is the whole proof of session.
type Session struct {
	ID        string `gorm:"primaryKey;size:64"`
	Token     string `gorm:"not null"`
	Email     string `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CotacaoDraft is the serialized wizard state, one per session, so a quote
// under construction survives restarts and navigation.
type CotacaoDraft struct {
	SessionID string `gorm:"primaryKey;size:64"`
	Data      string `gorm:"not null"` // JSON-encoded cotacao.Draft
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	db *gorm.DB
}

// Connect opens the store and migrates its schema. A postgres:// DSN gets
// the postgres driver; anything else is treated as a sqlite path/URI, the
// default for single-host deployments.
func Connect(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("localstore: empty DSN")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	var db *gorm.DB
	var err error
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: open: %w", err)
	}
	if err := db.AutoMigrate(&Session{}, &CotacaoDraft{}); err != nil {
		return nil, fmt.Errorf("localstore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveSession creates or replaces a session row.
func (s *Store) SaveSession(id, token, email string) error {
	sess := Session{ID: id, Token: token, Email: email}
	return s.db.Save(&sess).Error
}

// GetSession returns the session for id, or nil when absent.
func (s *Store) GetSession(id string) (*Session, error) {
	var sess Session
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes the session and its draft. Deleting an absent
// session is a no-op.
func (s *Store) DeleteSession(id string) error {
	if err := s.db.Delete(&CotacaoDraft{}, "session_id = ?", id).Error; err != nil {
		return err
	}
	return s.db.Delete(&Session{}, "id = ?", id).Error
}

// SaveDraft serializes and upserts the wizard state for a session.
func (s *Store) SaveDraft(sessionID string, d *cotacao.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("localstore: encode draft: %w", err)
	}
	row := CotacaoDraft{SessionID: sessionID, Data: string(b)}
	return s.db.Save(&row).Error
}

// LoadDraft returns the stored wizard state, or nil when the session has no
// draft in progress.
func (s *Store) LoadDraft(sessionID string) (*cotacao.Draft, error) {
	var row CotacaoDraft
	if err := s.db.First(&row, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var d cotacao.Draft
	if err := json.Unmarshal([]byte(row.Data), &d); err != nil {
		return nil, fmt.Errorf("localstore: decode draft: %w", err)
	}
	return &d, nil
}

// DeleteDraft discards a session's wizard state.
func (s *Store) DeleteDraft(sessionID string) error {
	return s.db.Delete(&CotacaoDraft{}, "session_id = ?", sessionID).Error
}
