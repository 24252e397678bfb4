package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(cacheSvc *MockCacheService, userRepo *MockUserRepository, mailSvc *MockMailService, tokenTTL time.Duration) AuthService {
	return NewAuthService(cacheSvc, userRepo, mailSvc, "test-secret", tokenTTL, 24*time.Hour)
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    "sales@example.com",
		FullName: "Sales Person",
		IsActive: true,
		Role:     models.RoleSales,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cacheSvc := new(MockCacheService)
	userRepo := new(MockUserRepository)
	mailSvc := new(MockMailService)
	svc := newTestAuthService(cacheSvc, userRepo, mailSvc, 30*time.Minute)

	user := testUser()
	cacheSvc.On("SetString", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tokens, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int((30 * time.Minute).Seconds()), tokens.ExpiresIn)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Subject)
	assert.Equal(t, models.RoleSales, claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	cacheSvc := new(MockCacheService)
	userRepo := new(MockUserRepository)
	mailSvc := new(MockMailService)
	svc := newTestAuthService(cacheSvc, userRepo, mailSvc, -1*time.Minute)

	cacheSvc.On("SetString", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tokens, err := svc.GenerateTokens(context.Background(), testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestAuthService(new(MockCacheService), new(MockUserRepository), new(MockMailService), time.Minute)

	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestRefreshToken_RotatesAndReissues(t *testing.T) {
	cacheSvc := new(MockCacheService)
	userRepo := new(MockUserRepository)
	mailSvc := new(MockMailService)
	svc := newTestAuthService(cacheSvc, userRepo, mailSvc, 30*time.Minute)

	user := testUser()
	refreshToken := "opaque-refresh-token"
	hash := hashToken(refreshToken)
	cacheKey := "refresh_token:" + hash
	tokenData := fmt.Sprintf("%s:%s:%d", user.Email, hash, time.Now().Add(time.Hour).Unix())

	cacheSvc.On("GetString", mock.Anything, cacheKey).Return(tokenData, nil)
	cacheSvc.On("Delete", mock.Anything, cacheKey).Return(nil)
	cacheSvc.On("SetString", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	tokens, err := svc.RefreshToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, refreshToken, tokens.RefreshToken)

	// The old token must be gone so it cannot be replayed
	cacheSvc.AssertCalled(t, "Delete", mock.Anything, cacheKey)
}

func TestRefreshToken_Expired(t *testing.T) {
	cacheSvc := new(MockCacheService)
	svc := newTestAuthService(cacheSvc, new(MockUserRepository), new(MockMailService), 30*time.Minute)

	refreshToken := "stale-token"
	hash := hashToken(refreshToken)
	cacheKey := "refresh_token:" + hash
	tokenData := fmt.Sprintf("user@example.com:%s:%d", hash, time.Now().Add(-time.Hour).Unix())

	cacheSvc.On("GetString", mock.Anything, cacheKey).Return(tokenData, nil)
	cacheSvc.On("Delete", mock.Anything, cacheKey).Return(nil)

	_, err := svc.RefreshToken(context.Background(), refreshToken)
	assert.Error(t, err)
	cacheSvc.AssertCalled(t, "Delete", mock.Anything, cacheKey)
}

func TestSendResetCode_UnknownUser(t *testing.T) {
	cacheSvc := new(MockCacheService)
	userRepo := new(MockUserRepository)
	mailSvc := new(MockMailService)
	svc := newTestAuthService(cacheSvc, userRepo, mailSvc, time.Minute)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, fmt.Errorf("no rows"))

	err := svc.SendResetCode(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	mailSvc.AssertNotCalled(t, "SendOTP", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendResetCode_StoresAndMailsFiveDigitCode(t *testing.T) {
	cacheSvc := new(MockCacheService)
	userRepo := new(MockUserRepository)
	mailSvc := new(MockMailService)
	svc := newTestAuthService(cacheSvc, userRepo, mailSvc, time.Minute)

	user := testUser()
	userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	var storedCode string
	cacheSvc.On("SetOTP", mock.Anything, user.Email, mock.Anything, otpTTL).
		Run(func(args mock.Arguments) { storedCode = args.String(2) }).
		Return(nil)
	mailSvc.On("SendOTP", mock.Anything, user.Email, mock.Anything).Return(nil)

	err := svc.SendResetCode(context.Background(), user.Email)
	require.NoError(t, err)

	assert.Len(t, storedCode, 5)
	for _, r := range storedCode {
		assert.True(t, r >= '0' && r <= '9')
	}
	mailSvc.AssertCalled(t, "SendOTP", mock.Anything, user.Email, storedCode)
}

func TestConfirmReset_WrongCode(t *testing.T) {
	cacheSvc := new(MockCacheService)
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(cacheSvc, userRepo, new(MockMailService), time.Minute)

	cacheSvc.On("GetOTP", mock.Anything, "sales@example.com").Return("12345", nil)

	err := svc.ConfirmReset(context.Background(), "sales@example.com", "54321", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	userRepo.AssertNotCalled(t, "UpdatePasswordByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmReset_ExpiredCode(t *testing.T) {
	cacheSvc := new(MockCacheService)
	svc := newTestAuthService(cacheSvc, new(MockUserRepository), new(MockMailService), time.Minute)

	// GetOTP reports an empty string once the TTL has lapsed
	cacheSvc.On("GetOTP", mock.Anything, "sales@example.com").Return("", nil)

	err := svc.ConfirmReset(context.Background(), "sales@example.com", "12345", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestConfirmReset_Success(t *testing.T) {
	cacheSvc := new(MockCacheService)
	userRepo := new(MockUserRepository)
	svc := newTestAuthService(cacheSvc, userRepo, new(MockMailService), time.Minute)

	cacheSvc.On("GetOTP", mock.Anything, "sales@example.com").Return("12345", nil)
	cacheSvc.On("DeleteOTP", mock.Anything, "sales@example.com").Return(nil)

	var storedHash string
	userRepo.On("UpdatePasswordByEmail", mock.Anything, "sales@example.com", mock.Anything).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(nil)

	err := svc.ConfirmReset(context.Background(), "sales@example.com", "12345", "newpassword")
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newpassword")))

	// The code is single use
	cacheSvc.AssertCalled(t, "DeleteOTP", mock.Anything, "sales@example.com")
}

func TestGenerateOTP_Format(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 5)
	}
}
