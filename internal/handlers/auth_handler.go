package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/internal/api/validator"
	"inkwell/internal/auth"
	"inkwell/internal/authz"
	"inkwell/internal/events"
	"inkwell/internal/models"
	"inkwell/internal/utils/logger"
)

type AuthHandler struct {
	db           *gorm.DB
	sessions     *auth.SessionStore
	secureCookie bool
	log          *logger.Logger
}

func NewAuthHandler(db *gorm.DB, sessions *auth.SessionStore, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		db:           db,
		sessions:     sessions,
		secureCookie: secureCookie,
		log:          logger.New("AuthHandler"),
	}
}

// Register creates a new user account together with its password key row.
// @Summary Register a new user
// @Description Register a new user with username, email, name and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RegisterRequest true "Registration details"
// @Success 201 {object} map[string]string "User registered successfully"
// @Failure 400 {object} map[string]string "Validation error or username exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req validator.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	if count > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Username already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		key := models.UserKey{UserID: user.ID, HashedPassword: string(hashedPassword)}
		return tx.Create(&key).Error
	})
	if err != nil {
		h.log.Error("Registration failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	events.Emit("users.created", &user)

	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Login verifies credentials against the key table and opens a session,
// handing the opaque token back in an HTTP-only cookie.
// @Summary Login user
// @Description Authenticate and receive a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.LoginRequest true "Login credentials"
// @Success 200 {object} map[string]string "Login successful"
// @Failure 400 {object} map[string]string "Invalid email or password"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	user, err := models.GetUserByEmail(req.Email, h.db)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid email"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	key, err := models.GetUserKey(user.ID, h.db)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid password"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(key.HashedPassword), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid password"})
	}

	session, err := h.sessions.Create(c.Request().Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to create session", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
	})

	return c.JSON(http.StatusOK, map[string]string{"message": "Login successful"})
}

// Logout deletes the session row and clears the cookie.
// @Summary Logout user
// @Description End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Failure 400 {object} map[string]string "No active session"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "No active session"})
	}

	if err := h.sessions.Delete(c.Request().Context(), cookie.Value); err != nil {
		h.log.Error("Failed to delete session", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	h.clearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}

// GetSession re-validates the session cookie and, unlike the request gate,
// renews both expiry deadlines.
// @Summary Introspect session
// @Description Validate the session cookie and refresh its deadlines
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Session and user id"
// @Failure 401 {object} map[string]string "No, invalid or expired session"
// @Router /auth/session [get]
func (h *AuthHandler) GetSession(c echo.Context) error {
	cookie, err := c.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "No active session"})
	}

	session, err := h.sessions.Refresh(c.Request().Context(), cookie.Value)
	switch {
	case err == nil:
	case errors.Is(err, authz.ErrSessionInvalid):
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid session"})
	case errors.Is(err, authz.ErrSessionExpired):
		h.clearSessionCookie(c)
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Session expired"})
	default:
		h.log.Error("Session lookup failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"sessionId": session.ID,
		"userId":    session.UserID,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
	})
}
