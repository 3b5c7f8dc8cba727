package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inkwell/internal/authz"
	"inkwell/internal/models"
	console "inkwell/internal/utils/logger"
)

var log = console.New("AUTH")

const (
	// SessionCookie is the HTTP-only cookie carrying the opaque token.
	SessionCookie = "sessionId"

	// IdleTimeout slides forward on every validated check.
	IdleTimeout = 30 * time.Minute
	// ActiveLifetime is fixed at login. It is recorded with the session but
	// reads gate on the idle deadline only.
	ActiveLifetime = 24 * time.Hour
)

// SessionStore manages login sessions in the user_session table. Expired
// sessions are removed lazily when a lookup trips over them; there is no
// background sweeper.
type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// Create opens a session for a user and returns it. The token is the row id.
func (s *SessionStore) Create(ctx context.Context, userID string) (*models.Session, error) {
	now := s.now()
	session := &models.Session{
		ID:            uuid.New().String(),
		UserID:        userID,
		ActiveExpires: now.Add(ActiveLifetime).UnixMilli(),
		IdleExpires:   now.Add(IdleTimeout).UnixMilli(),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve maps a token to its user id. A hit refreshes the idle deadline;
// concurrent refreshes race benignly since every writer only pushes the
// deadline forward. An idle-expired session is deleted before the expiry is
// reported. Store failures come back as plain errors, distinct from the
// authz taxonomy.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	var session models.Session
	err := s.db.WithContext(ctx).First(&session, "id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", authz.ErrSessionInvalid
	}
	if err != nil {
		return "", err
	}

	now := s.now()
	if now.UnixMilli() > session.IdleExpires {
		if err := s.Delete(ctx, token); err != nil {
			return "", err
		}
		log.Info("removed idle-expired session for user %s", session.UserID)
		return "", authz.ErrSessionExpired
	}

	if err := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", token).
		Update("idle_expires", now.Add(IdleTimeout).UnixMilli()).Error; err != nil {
		return "", err
	}
	return session.UserID, nil
}

// Refresh re-validates a session and pushes both deadlines forward, returning
// the refreshed record. Used by the session-introspection endpoint, which
// unlike the request gate also renews the active deadline.
func (s *SessionStore) Refresh(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).First(&session, "id = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, authz.ErrSessionInvalid
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.UnixMilli() > session.IdleExpires {
		if err := s.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, authz.ErrSessionExpired
	}

	session.ActiveExpires = now.Add(ActiveLifetime).UnixMilli()
	session.IdleExpires = now.Add(IdleTimeout).UnixMilli()
	if err := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", token).
		Updates(map[string]interface{}{
			"active_expires": session.ActiveExpires,
			"idle_expires":   session.IdleExpires,
		}).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session, typically at logout.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", token).Error
}
