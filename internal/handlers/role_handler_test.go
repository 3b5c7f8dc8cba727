package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inkwell/internal/api/validator"
)

func newHandlerDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRoleList(t *testing.T) {
	columns := []string{"id", "numsort", "role_name"}

	t.Run("returns roles ordered by id", func(t *testing.T) {
		db, mock := newHandlerDB(t)
		h := NewRoleHandler(db)

		mock.ExpectQuery(`SELECT \* FROM "Role" ORDER BY id`).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("role-1", 1, "Administrator").
				AddRow("role-2", 2, "Editor"))

		c, rec := newTestContext(t, http.MethodGet, "/api/rolepermission", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Administrator")
		assert.Contains(t, rec.Body.String(), "Editor")
	})

	t.Run("empty table", func(t *testing.T) {
		db, mock := newHandlerDB(t)
		h := NewRoleHandler(db)

		mock.ExpectQuery(`SELECT \* FROM "Role" ORDER BY id`).
			WillReturnRows(sqlmock.NewRows(columns))

		c, rec := newTestContext(t, http.MethodGet, "/api/rolepermission", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "No roles found")
	})
}

func TestRoleCreate(t *testing.T) {
	t.Run("creates a new role", func(t *testing.T) {
		db, mock := newHandlerDB(t)
		h := NewRoleHandler(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "Role" WHERE role_name = \$1`).
			WithArgs("Moderator").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "Role"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := newTestContext(t, http.MethodPost, "/api/rolepermission", `{"roleName":"Moderator"}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "Role created successfully")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		db, mock := newHandlerDB(t)
		h := NewRoleHandler(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "Role" WHERE role_name = \$1`).
			WithArgs("Editor").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		c, rec := newTestContext(t, http.MethodPost, "/api/rolepermission", `{"roleName":"Editor"}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Role name already exists")
	})

	t.Run("rejects a too-short name", func(t *testing.T) {
		db, _ := newHandlerDB(t)
		h := NewRoleHandler(db)

		c, rec := newTestContext(t, http.MethodPost, "/api/rolepermission", `{"roleName":"x"}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRoleDelete(t *testing.T) {
	db, mock := newHandlerDB(t)
	h := NewRoleHandler(db)

	mock.ExpectExec(`DELETE FROM "Role" WHERE id = \$1`).
		WithArgs("role-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newTestContext(t, http.MethodPut, "/api/rolepermission/role-2", "")
	c.SetParamNames("id")
	c.SetParamValues("role-2")
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Role deleted successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}
