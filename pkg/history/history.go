// Package history keeps a local record of sent messages and issued PINs so
// that their provider ids can be looked up later, e.g. to fetch a delivery
// report or verify a PIN.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/infobip-go/pkg/database"
)

// Entry kinds.
const (
	KindSMS = "sms"
	KindPin = "pin"
)

// ErrNotFound is returned by Find when no entry has the given id.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded provider call.
type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"-" yaml:"-"`
	Kind       string    `gorm:"size:16;not null;index" json:"kind" yaml:"kind"`
	ExternalID string    `gorm:"size:128;not null;uniqueIndex" json:"externalId" yaml:"externalId"`
	To         string    `gorm:"size:64" json:"to" yaml:"to"`
	From       string    `gorm:"size:64" json:"from,omitempty" yaml:"from,omitempty"`
	Status     string    `gorm:"size:64" json:"status,omitempty" yaml:"status,omitempty"`
	APIVersion int       `json:"apiVersion" yaml:"apiVersion"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt" yaml:"createdAt"`
}

// TableName overrides the gorm table name.
func (Entry) TableName() string {
	return "send_history"
}

// Validate checks the entry before it is stored.
func (e *Entry) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Kind, validation.Required, validation.In(KindSMS, KindPin)),
		validation.Field(&e.ExternalID, validation.Required),
	)
}

// Config is an alias of the database configuration used by the store.
type Config = database.Config

// Store persists entries.
type Store struct {
	db     *gorm.DB
	logger hclog.Logger
}

// Open connects to the database described by cfg and migrates the schema.
func Open(cfg Config, log hclog.Logger) (*Store, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("history")

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := New(db, log)
	if err != nil {
		return nil, err
	}

	if stats, err := database.GetPoolStats(db); err == nil {
		log.Debug("history store open",
			"driver", cfg.Driver,
			"max_open_connections", stats.MaxOpenConnections,
			"open_connections", stats.OpenConnections,
			"idle", stats.Idle,
		)
	}
	return store, nil
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB, log hclog.Logger) (*Store, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &Store{db: db, logger: log}, nil
}

// Record stores e. Recording an ExternalID that already exists updates the
// stored status.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid history entry: %w", err)
	}

	var existing Entry
	err := s.db.WithContext(ctx).Where("external_id = ?", e.ExternalID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
			return fmt.Errorf("failed to record history entry: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up history entry: %w", err)
	default:
		e.ID = existing.ID
		e.CreatedAt = existing.CreatedAt
		if err := s.db.WithContext(ctx).Model(&existing).Update("status", e.Status).Error; err != nil {
			return fmt.Errorf("failed to update history entry: %w", err)
		}
	}

	s.logger.Debug("recorded entry", "kind", e.Kind, "external_id", e.ExternalID)
	return nil
}

// Find returns the entry with the given provider id.
func (s *Store) Find(ctx context.Context, externalID string) (*Entry, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find history entry: %w", err)
	}
	return &e, nil
}

// List returns the most recent entries, newest first. A limit of zero or
// less returns every entry. An empty kind matches all kinds.
func (s *Store) List(ctx context.Context, kind string, limit int) ([]Entry, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []Entry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	return entries, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.Close()
}
