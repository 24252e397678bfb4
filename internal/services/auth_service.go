package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crmhub/internal/caching"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

// ErrInvalidOTP is returned when a password-reset code is wrong, expired, or absent.
var ErrInvalidOTP = fmt.Errorf("invalid OTP or expired token")

const otpTTL = 60 * time.Second

// AuthService handles JWT session tokens, refresh tokens, and password resets.
type AuthService interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error

	SendResetCode(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, email, code, newPassword string) error
}

type authService struct {
	cacheSvc   caching.CacheService
	userRepo   repositories.UserRepository
	mailSvc    MailService
	jwtSecret  []byte
	tokenTTL   time.Duration
	refreshTTL time.Duration
}

// TokenClaims represents JWT claims. Subject carries the user's email.
type TokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(cacheSvc caching.CacheService, userRepo repositories.UserRepository, mailSvc MailService, jwtSecret string, tokenTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		cacheSvc:   cacheSvc,
		userRepo:   userRepo,
		mailSvc:    mailSvc,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokens issues a signed access token and an opaque refresh token.
func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()

	claims := TokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "crmhub-auth",
			Subject:   user.Email,
			Audience:  jwt.ClaimStrings{"crmhub-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken := generateSecureToken()
	refreshTokenHash := hashToken(refreshToken)

	refreshTokenData := fmt.Sprintf("%s:%s:%d", user.Email, refreshTokenHash, now.Add(s.refreshTTL).Unix())
	cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
	if err := s.cacheSvc.SetString(ctx, cacheKey, refreshTokenData, s.refreshTTL); err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		// Continue - access token issuance succeeded
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		RefreshToken: refreshToken,
		IssuedAt:     now,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	refreshTokenHash := hashToken(refreshToken)

	cacheKey := fmt.Sprintf("refresh_token:%s", refreshTokenHash)
	tokenData, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	parts := strings.Split(tokenData, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token data")
	}
	email, storedHash, expiryStr := parts[0], parts[1], parts[2]

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token expiry")
	}
	if time.Now().Unix() > expiry {
		s.cacheSvc.Delete(ctx, cacheKey)
		return nil, fmt.Errorf("refresh token expired")
	}
	if storedHash != refreshTokenHash {
		return nil, fmt.Errorf("invalid refresh token")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("unknown user for refresh token")
	}

	// Rotate: the old refresh token is single use
	s.cacheSvc.Delete(ctx, cacheKey)

	return s.GenerateTokens(ctx, user)
}

// ValidateToken verifies an HS256 access token and returns its claims.
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := jwtToken.Claims.(*TokenClaims); ok && jwtToken.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

// RevokeRefreshToken drops a refresh token from the cache.
func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	cacheKey := fmt.Sprintf("refresh_token:%s", hashToken(refreshToken))
	return s.cacheSvc.Delete(ctx, cacheKey)
}

// SendResetCode generates a 5-digit one-time code, caches it for 60 seconds,
// and emails it to the user.
func (s *authService) SendResetCode(ctx context.Context, email string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return ErrUserNotFound
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.cacheSvc.SetOTP(ctx, email, code, otpTTL); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mailSvc.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	return nil
}

// ConfirmReset verifies the submitted code and, on match, replaces the user's
// password hash. The cached code is invalidated after the first successful use.
func (s *authService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	cached, err := s.cacheSvc.GetOTP(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to read OTP: %w", err)
	}
	if cached == "" || subtle.ConstantTimeCompare([]byte(cached), []byte(code)) != 1 {
		return ErrInvalidOTP
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordByEmail(ctx, email, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.cacheSvc.DeleteOTP(ctx, email); err != nil {
		log.Printf("Failed to invalidate OTP for %s: %v", email, err)
	}

	return nil
}

func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand should never fail; fall back to a UUID pair
		return uuid.NewString() + uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%05d", n.Int64()), nil
}
