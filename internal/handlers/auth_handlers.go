package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, password and full name are required")
	}

	role := req.Role
	if role == "" {
		role = models.RoleSales
	}
	if !models.ValidRole(role) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown role")
	}

	if existing, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		IsActive:     true,
		Role:         role,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("failed to create user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	return c.JSON(http.StatusCreated, user)
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Login authenticates a user and issues tokens. The access token is also
// set as an http-only cookie so browser clients stay logged in.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusBadRequest, "Inactive user")
	}

	tokenResponse, err := h.authService.GenerateTokens(ctx, user)
	if err != nil {
		log.Printf("failed to generate tokens: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens")
	}

	c.SetCookie(&http.Cookie{
		Name:     "Authorization",
		Value:    "Bearer " + tokenResponse.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(tokenResponse.ExpiresIn) * time.Second),
	})

	return c.JSON(http.StatusOK, LoginResponse{
		TokenResponse: *tokenResponse,
		User:          user,
	})
}

// Logout clears the session cookie and revokes the refresh token if one
// is supplied.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if refresh := c.QueryParam("refresh_token"); refresh != "" {
		if err := h.authService.RevokeRefreshToken(c.Request().Context(), refresh); err != nil {
			log.Printf("failed to revoke refresh token: %v", err)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     "Authorization",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	tokenResponse, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	return c.JSON(http.StatusOK, tokenResponse)
}

// SendTokenRequest carries the address a reset code should be mailed to.
type SendTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendToken mails a one-time reset code to a registered user.
func (h *AuthHandlers) SendToken(c echo.Context) error {
	var req SendTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	if err := h.authService.SendResetCode(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "There is no account with this email")
		}
		log.Printf("failed to send reset code: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send reset code")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Reset code sent"})
}

// PasswordResetRequest carries the mailed code and the new password.
type PasswordResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// PasswordReset validates the mailed code and replaces the password.
func (h *AuthHandlers) PasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, token and new password are required")
	}

	if err := h.authService.ConfirmReset(c.Request().Context(), req.Email, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired code")
		}
		log.Printf("failed to reset password: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reset password")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// UpdatePasswordRequest carries a new password for an authenticated change.
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UpdatePassword lets an authenticated user change their own password.
func (h *AuthHandlers) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()

	current, ok := common.UserFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	if current.ID != id && current.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.NewPassword) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process password")
	}
	if err := h.userRepo.UpdatePassword(ctx, id, string(hash)); err != nil {
		log.Printf("failed to update password: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update password")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// DeleteUser removes an account. Admin only.
func (h *AuthHandlers) DeleteUser(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	affected, err := h.userRepo.Delete(c.Request().Context(), id)
	if err != nil {
		log.Printf("failed to delete user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}
	if affected == 0 {
		return common.SendNotFoundError(c, "User")
	}

	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	user, ok := common.UserFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}
