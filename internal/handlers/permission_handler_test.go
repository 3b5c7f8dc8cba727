package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/auth"
)

func TestGetUserPermissionsNoGrants(t *testing.T) {
	sessionColumns := []string{"id", "user_id", "active_expires", "idle_expires"}
	future := time.Now().Add(time.Hour).UnixMilli()

	expectResolve := func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT \* FROM "user_session" WHERE id = \$1`).
			WithArgs("tok-1", 1).
			WillReturnRows(sqlmock.NewRows(sessionColumns).
				AddRow("tok-1", "user-1", future, future))
		mock.ExpectExec(`UPDATE "user_session" SET "idle_expires"=\$1 WHERE id = \$2`).
			WithArgs(sqlmock.AnyArg(), "tok-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	expectEmptyGrants := func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM "auth_user" LEFT JOIN role_permission`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"role_id", "permission_id", "url_access"}))
	}

	t.Run("reports the user's role id", func(t *testing.T) {
		db, mock := newHandlerDB(t)
		h := NewPermissionHandler(db, auth.NewRegistry(db), auth.NewSessionStore(db))

		expectResolve(mock)
		expectEmptyGrants(mock)
		mock.ExpectQuery(`SELECT \* FROM "auth_user" WHERE id = \$1`).
			WithArgs("user-1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "role_id"}).
				AddRow("user-1", "role-9"))

		c, rec := newTestContext(t, http.MethodGet, "/api/permissions/userpermission", "")
		c.Request().AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok-1"})

		require.NoError(t, h.GetUserPermissions(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"roleId":"role-9"`)
		assert.Contains(t, rec.Body.String(), "No permissions found for the user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user lookup fault returns 500", func(t *testing.T) {
		db, mock := newHandlerDB(t)
		h := NewPermissionHandler(db, auth.NewRegistry(db), auth.NewSessionStore(db))

		expectResolve(mock)
		expectEmptyGrants(mock)
		mock.ExpectQuery(`SELECT \* FROM "auth_user" WHERE id = \$1`).
			WithArgs("user-1", 1).
			WillReturnError(fmt.Errorf("connection reset"))

		c, rec := newTestContext(t, http.MethodGet, "/api/permissions/userpermission", "")
		c.Request().AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "tok-1"})

		require.NoError(t, h.GetUserPermissions(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Internal server error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
