package ports

// Package ports defines interfaces (hexagonal ports) for session and
// command-history persistence. Implementations live in internal/adapters;
// orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
	"github.com/voltfleet/cpconsole/internal/domain/ocpp"
)

// ErrSessionNotFound is returned by SessionStore implementations when a
// session does not exist or has expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists and retrieves operator sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// CommandLog records OCPP command dispatches per operator, newest first.
type CommandLog interface {
	Append(ctx context.Context, userID string, entry ocpp.HistoryEntry) error
	Update(ctx context.Context, userID string, entry ocpp.HistoryEntry) error
	Recent(ctx context.Context, userID string, limit int) ([]ocpp.HistoryEntry, error)
}
