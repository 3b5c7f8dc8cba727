package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inkwell/internal/authz"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func fixedStore(db *gorm.DB, at time.Time) *SessionStore {
	store := NewSessionStore(db)
	store.now = func() time.Time { return at }
	return store
}

func TestSessionCreate(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := fixedStore(db, now)

	mock.ExpectExec(`INSERT INTO "user_session"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	session, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, now.Add(ActiveLifetime).UnixMilli(), session.ActiveExpires)
	assert.Equal(t, now.Add(IdleTimeout).UnixMilli(), session.IdleExpires)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionResolve(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "active_expires", "idle_expires"}

	t.Run("valid session refreshes idle deadline", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := fixedStore(db, now)

		mock.ExpectQuery(`SELECT \* FROM "user_session" WHERE id = \$1`).
			WithArgs("tok-1", 1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("tok-1", "user-1", now.Add(time.Hour).UnixMilli(), now.Add(time.Minute).UnixMilli()))
		mock.ExpectExec(`UPDATE "user_session" SET "idle_expires"=\$1 WHERE id = \$2`).
			WithArgs(now.Add(IdleTimeout).UnixMilli(), "tok-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		userID, err := store.Resolve(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown token", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := fixedStore(db, now)

		mock.ExpectQuery(`SELECT \* FROM "user_session" WHERE id = \$1`).
			WithArgs("missing", 1).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := store.Resolve(context.Background(), "missing")
		assert.ErrorIs(t, err, authz.ErrSessionInvalid)
	})

	t.Run("idle-expired session is deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := fixedStore(db, now)

		mock.ExpectQuery(`SELECT \* FROM "user_session" WHERE id = \$1`).
			WithArgs("tok-2", 1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("tok-2", "user-2", now.Add(time.Hour).UnixMilli(), now.Add(-time.Minute).UnixMilli()))
		mock.ExpectExec(`DELETE FROM "user_session" WHERE id = \$1`).
			WithArgs("tok-2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := store.Resolve(context.Background(), "tok-2")
		assert.ErrorIs(t, err, authz.ErrSessionExpired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRefresh(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "active_expires", "idle_expires"}

	t.Run("pushes both deadlines", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := fixedStore(db, now)

		mock.ExpectQuery(`SELECT \* FROM "user_session" WHERE id = \$1`).
			WithArgs("tok-1", 1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("tok-1", "user-1", now.Add(time.Hour).UnixMilli(), now.Add(time.Minute).UnixMilli()))
		mock.ExpectExec(`UPDATE "user_session" SET "active_expires"=\$1,"idle_expires"=\$2 WHERE id = \$3`).
			WithArgs(now.Add(ActiveLifetime).UnixMilli(), now.Add(IdleTimeout).UnixMilli(), "tok-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		session, err := store.Refresh(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", session.UserID)
		assert.Equal(t, now.Add(ActiveLifetime).UnixMilli(), session.ActiveExpires)
		assert.Equal(t, now.Add(IdleTimeout).UnixMilli(), session.IdleExpires)
	})

	t.Run("expired session", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := fixedStore(db, now)

		mock.ExpectQuery(`SELECT \* FROM "user_session" WHERE id = \$1`).
			WithArgs("tok-2", 1).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("tok-2", "user-2", now.Add(time.Hour).UnixMilli(), now.Add(-time.Second).UnixMilli()))
		mock.ExpectExec(`DELETE FROM "user_session" WHERE id = \$1`).
			WithArgs("tok-2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := store.Refresh(context.Background(), "tok-2")
		assert.ErrorIs(t, err, authz.ErrSessionExpired)
	})
}

func TestSessionDelete(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSessionStore(db)

	mock.ExpectExec(`DELETE FROM "user_session" WHERE id = \$1`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), "tok-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
