// Package repository provides the durable-storage collaborator: named slots
// holding one serialized value each.
package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Slot keys used by the engine.
const (
	SlotSessions = "panel.sessions"
	SlotFeedback = "panel.feedback"
)

// SlotStore reads and writes whole values under string keys.
type SlotStore interface {
	// Get returns the stored value, or nil with no error when the slot is empty.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value of the slot.
	Put(ctx context.Context, key string, value []byte) error
	// Delete empties the slot.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a SlotStore implementation.
type Options struct {
	Driver      string
	DatabaseURL string
	RedisAddr   string
	RedisDB     int
	KeyPrefix   string
}

// Open creates the SlotStore named by opts.Driver.
func Open(ctx context.Context, opts Options) (SlotStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "sqlite", "sqlite3":
		return NewSQLiteStore(opts.DatabaseURL)
	case "redis":
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB, opts.KeyPrefix)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", opts.Driver)
	}
}
