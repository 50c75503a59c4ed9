package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"NOTEHUB_BACK-END/internal/config"
	"NOTEHUB_BACK-END/internal/dto"
	"NOTEHUB_BACK-END/internal/models"
	"NOTEHUB_BACK-END/internal/utils"
)

func newForgotPasswordHandler() (*ForgotPasswordHandler, *memUserRepo, *memVerificationRepo) {
	users := newMemUserRepo()
	verifications := newMemVerificationRepo(users)
	// Unconfigured SMTP: sending fails and is logged, the flow continues.
	email := utils.NewEmailService(&config.EmailConfig{})
	h := NewForgotPasswordHandler(users, verifications, email, testJWTConfig(), zap.NewNop())
	return h, users, verifications
}

func TestForgotPassword_IssuesCode(t *testing.T) {
	h, users, verifications := newForgotPasswordHandler()
	u := seedUser(t, users, "ada@example.com", "secret1")

	req := newJSONRequest(t, http.MethodPost, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "ada@example.com",
	})
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[dto.ForgotPasswordResponse](t, rec)
	require.Equal(t, "3 minutes", resp.ExpiresIn)

	v, err := verifications.Latest(req.Context(), u.ID, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, v.Code, 6)
	require.False(t, v.Used)
	require.WithinDuration(t, time.Now().Add(codeTTL), v.ExpiresAt, 5*time.Second)
}

func TestForgotPassword_UnknownEmailLooksTheSame(t *testing.T) {
	h, _, _ := newForgotPasswordHandler()

	req := newJSONRequest(t, http.MethodPost, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "ghost@example.com",
	})
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	// The response does not reveal whether the account exists.
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotPassword_ThrottlesActiveCode(t *testing.T) {
	h, users, _ := newForgotPasswordHandler()
	seedUser(t, users, "ada@example.com", "secret1")

	req := newJSONRequest(t, http.MethodPost, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "ada@example.com",
	})
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// A second request while the first code is still valid is refused.
	req = newJSONRequest(t, http.MethodPost, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "ada@example.com",
	})
	rec = httptest.NewRecorder()
	h.ForgotPassword(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

// faultyVerificationRepo simulates a store failure on the active-code lookup.
type faultyVerificationRepo struct {
	*memVerificationRepo
	latestActiveErr error
}

func (r *faultyVerificationRepo) LatestActive(ctx context.Context, userID uuid.UUID) (*models.Verification, error) {
	if r.latestActiveErr != nil {
		return nil, r.latestActiveErr
	}
	return r.memVerificationRepo.LatestActive(ctx, userID)
}

func TestForgotPassword_StoreFaultSurfaces(t *testing.T) {
	users := newMemUserRepo()
	verifications := &faultyVerificationRepo{
		memVerificationRepo: newMemVerificationRepo(users),
		latestActiveErr:     errors.New("connection reset"),
	}
	email := utils.NewEmailService(&config.EmailConfig{})
	h := NewForgotPasswordHandler(users, verifications, email, testJWTConfig(), zap.NewNop())
	seedUser(t, users, "ada@example.com", "secret1")

	req := newJSONRequest(t, http.MethodPost, "/api/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "ada@example.com",
	})
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	// A failing store must not silently skip the throttle and issue a code.
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, verifications.codes)
}

func TestVerifyResetCode(t *testing.T) {
	h, users, verifications := newForgotPasswordHandler()
	u := seedUser(t, users, "ada@example.com", "secret1")
	seedVerification(t, verifications, u, "123456", time.Now().Add(codeTTL), false)

	req := newJSONRequest(t, http.MethodPost, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{
		Email: "ada@example.com",
		Code:  "123456",
	})
	rec := httptest.NewRecorder()
	h.VerifyResetCode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[dto.VerifyResetCodeResponse](t, rec)
	require.NotEmpty(t, resp.ResetToken)
	require.Equal(t, "10 minutes", resp.ExpiresIn)
}

func TestVerifyResetCode_Rejections(t *testing.T) {
	h, users, verifications := newForgotPasswordHandler()
	u := seedUser(t, users, "ada@example.com", "secret1")

	t.Run("wrong code", func(t *testing.T) {
		seedVerification(t, verifications, u, "123456", time.Now().Add(codeTTL), false)
		rec := httptest.NewRecorder()
		h.VerifyResetCode(rec, newJSONRequest(t, http.MethodPost, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{
			Email: "ada@example.com",
			Code:  "000000",
		}))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired code", func(t *testing.T) {
		seedVerification(t, verifications, u, "222222", time.Now().Add(-time.Minute), false)
		rec := httptest.NewRecorder()
		h.VerifyResetCode(rec, newJSONRequest(t, http.MethodPost, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{
			Email: "ada@example.com",
			Code:  "222222",
		}))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("used code", func(t *testing.T) {
		seedVerification(t, verifications, u, "333333", time.Now().Add(codeTTL), true)
		rec := httptest.NewRecorder()
		h.VerifyResetCode(rec, newJSONRequest(t, http.MethodPost, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{
			Email: "ada@example.com",
			Code:  "333333",
		}))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestResetPassword_FullFlow(t *testing.T) {
	h, users, verifications := newForgotPasswordHandler()
	u := seedUser(t, users, "ada@example.com", "secret1")
	seedVerification(t, verifications, u, "123456", time.Now().Add(codeTTL), false)

	// Verify the code to obtain a reset token.
	rec := httptest.NewRecorder()
	h.VerifyResetCode(rec, newJSONRequest(t, http.MethodPost, "/api/auth/verify-reset-code", dto.VerifyResetCodeRequest{
		Email: "ada@example.com",
		Code:  "123456",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	resetToken := decodeBody[dto.VerifyResetCodeResponse](t, rec).ResetToken

	// Use the token to set a new password.
	rec = httptest.NewRecorder()
	h.ResetPassword(rec, newJSONRequest(t, http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken:  resetToken,
		NewPassword: "brand-new-password",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	stored := users.users[u.ID]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-password")))

	// The same token cannot be replayed once the code is consumed.
	rec = httptest.NewRecorder()
	h.ResetPassword(rec, newJSONRequest(t, http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken:  resetToken,
		NewPassword: "yet-another-password",
	}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPassword_BadToken(t *testing.T) {
	h, _, _ := newForgotPasswordHandler()

	rec := httptest.NewRecorder()
	h.ResetPassword(rec, newJSONRequest(t, http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken:  "not-a-token",
		NewPassword: "brand-new-password",
	}))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPassword_ShortPassword(t *testing.T) {
	h, _, _ := newForgotPasswordHandler()

	rec := httptest.NewRecorder()
	h.ResetPassword(rec, newJSONRequest(t, http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		ResetToken:  "whatever",
		NewPassword: "12345",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedVerification(t *testing.T, verifications *memVerificationRepo, u *models.User, code string, expiresAt time.Time, used bool) {
	t.Helper()
	now := time.Now()
	verifications.codes = append(verifications.codes, models.Verification{
		ID:        uuid.New(),
		UserID:    u.ID,
		Email:     u.Email,
		Code:      code,
		Used:      used,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	})
}
