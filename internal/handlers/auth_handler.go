package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skillbox/internal/api/middleware"
	"skillbox/internal/api/validator"
	"skillbox/internal/models"
	"skillbox/internal/services"
	"skillbox/internal/utils"
	"skillbox/internal/utils/logger"
)

type AuthHandler struct {
	db    *gorm.DB
	terms *services.Terms
	log   *logger.Logger
}

func NewAuthHandler(db *gorm.DB, terms *services.Terms) *AuthHandler {
	return &AuthHandler{
		db:    db,
		terms: terms,
		log:   logger.New("auth_handler"),
	}
}

// Register creates a new account. Self-service signups land unapproved; only
// a seeded or promoted admin flips the flag. Role defaults to partner and a
// signup can never claim admin.
// @Summary Register a new user
// @Accept json
// @Produce json
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	req := new(validator.RegisterRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RolePartner
	}
	if role == models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot self-register as admin")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, _ := models.GetUserByEmail(email, h.db); existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return h.log.Error("Failed to hash password", err)
	}

	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}

	user := &models.User{
		Email:        email,
		Password:     string(hashed),
		FullName:     req.FullName,
		Organization: req.Organization,
		Domain:       domain,
		Role:         role,
		PartnerType:  req.PartnerType,
		IsApproved:   false,
	}
	if err := h.db.Create(user).Error; err != nil {
		return h.log.Error("Failed to create user", err)
	}

	h.log.Success("User registered: %s (%s)", user.Email, user.Role)
	return h.issueSession(c, user, http.StatusCreated)
}

// Login authenticates with email and password and opens a new session.
// @Summary Log in
// @Accept json
// @Produce json
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	req := new(validator.LoginRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := models.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)), h.db)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return h.issueSession(c, user, http.StatusOK)
}

// Refresh rotates an expiring session using the refresh token.
// @Summary Refresh tokens
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	req := new(validator.RefreshRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	claims, err := utils.ParseJWT(req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	session := &models.AuthSession{}
	if err := h.db.Where("user_id = ? AND refresh = ?", claims.UserID, req.RefreshToken).First(session).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session not found")
	}

	user := &models.User{}
	if err := h.db.First(user, "id = ?", claims.UserID).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	// The old session dies with the rotation; the terms flag is rebuilt from
	// the durable acceptance on the next check.
	if err := h.db.Delete(session).Error; err != nil {
		return h.log.Error("Failed to rotate session", err)
	}
	return h.issueSession(c, user, http.StatusOK)
}

// Logout terminates the current session.
// @Summary Log out
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session := middleware.GetSession(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.db.Delete(&models.AuthSession{}, "id = ?", session.ID).Error; err != nil {
		return h.log.Error("Failed to delete session", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetMe returns the authenticated user's profile.
// @Summary Current user
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}

// TermsStatus reports whether the terms gate is open for this session.
// @Summary Terms status
// @Router /auth/terms [get]
func (h *AuthHandler) TermsStatus(c echo.Context) error {
	session := middleware.GetSession(c)
	ok, err := h.terms.Satisfied(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"accepted": ok})
}

// AcceptTerms records acceptance for the current user.
// @Summary Accept terms of use
// @Router /auth/terms/accept [post]
func (h *AuthHandler) AcceptTerms(c echo.Context) error {
	session := middleware.GetSession(c)
	if err := h.terms.Accept(c.Request().Context(), session); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Terms accepted"})
}

// DeclineTerms withdraws acceptance and ends the session.
// @Summary Decline terms of use
// @Router /auth/terms/decline [post]
func (h *AuthHandler) DeclineTerms(c echo.Context) error {
	session := middleware.GetSession(c)
	if err := h.terms.Decline(c.Request().Context(), session); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Terms declined, session terminated"})
}

func (h *AuthHandler) issueSession(c echo.Context, user *models.User, status int) error {
	token, err := utils.GenerateJWT(*user)
	if err != nil {
		return h.log.Error("Failed to generate JWT", err)
	}
	refresh, err := utils.GenerateRefreshToken(*user)
	if err != nil {
		return h.log.Error("Failed to generate refresh token", err)
	}

	session := &models.AuthSession{
		UserID:    user.ID,
		Token:     token,
		Refresh:   refresh,
		IPAddress: utils.GetIPAddress(c.Request()),
		UserAgent: c.Request().UserAgent(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := h.db.Create(session).Error; err != nil {
		return h.log.Error("Failed to create session", err)
	}

	return c.JSON(status, map[string]interface{}{
		"token":        token,
		"refreshToken": refresh,
		"user":         user,
	})
}
