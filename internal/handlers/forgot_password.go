package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"NOTEHUB_BACK-END/internal/config"
	"NOTEHUB_BACK-END/internal/dto"
	"NOTEHUB_BACK-END/internal/errs"
	"NOTEHUB_BACK-END/internal/middleware"
	"NOTEHUB_BACK-END/internal/models"
	"NOTEHUB_BACK-END/internal/repository"
	"NOTEHUB_BACK-END/internal/utils"
)

// codeTTL is how long a password reset code stays valid.
const codeTTL = 3 * time.Minute

// ForgotPasswordHandler handles the email-code password reset flow
type ForgotPasswordHandler struct {
	users         repository.UserRepository
	verifications repository.VerificationRepository
	email         *utils.EmailService
	jwtCfg        *config.JWTConfig
	logger        *zap.Logger
}

// NewForgotPasswordHandler creates a new ForgotPasswordHandler instance
func NewForgotPasswordHandler(users repository.UserRepository, verifications repository.VerificationRepository, email *utils.EmailService, jwtCfg *config.JWTConfig, logger *zap.Logger) *ForgotPasswordHandler {
	return &ForgotPasswordHandler{
		users:         users,
		verifications: verifications,
		email:         email,
		jwtCfg:        jwtCfg,
		logger:        logger,
	}
}

// ForgotPassword sends a verification code to the user's email
// @Summary Request password reset
// @Description Send a 6-digit verification code to the user's email
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email address"
// @Success 200 {object} dto.ForgotPasswordResponse "Verification code sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 429 {object} dto.ErrorResponse "Code already sent"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/forgot-password [post]
func (h *ForgotPasswordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.ForgotPasswordRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Please include a valid email")
		return
	}

	response := dto.ForgotPasswordResponse{
		Message:   "If an account exists for this email, a verification code has been sent",
		Email:     email,
		ExpiresIn: "3 minutes",
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// Do not reveal whether the account exists.
			utils.WriteJSONResponse(w, http.StatusOK, response)
			return
		}
		h.logger.Error("get user by email", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to process request")
		return
	}

	// Refuse a new code while a previous one is still valid.
	active, err := h.verifications.LatestActive(r.Context(), user.ID)
	switch {
	case err == nil:
		remaining := time.Until(active.ExpiresAt)
		utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Code already sent",
			fmt.Sprintf("Please wait %d seconds before requesting a new code", int(remaining.Seconds())))
		return
	case !errors.Is(err, errs.ErrNotFound):
		h.logger.Error("check active code", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to process request")
		return
	}

	code, err := generateVerificationCode(6)
	if err != nil {
		h.logger.Error("generate code", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to generate code")
		return
	}

	now := time.Now()
	verification := models.Verification{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     email,
		Code:      code,
		Used:      false,
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}
	if err := h.verifications.Create(r.Context(), &verification); err != nil {
		h.logger.Error("store verification code", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to store verification code")
		return
	}

	if err := h.email.SendVerificationCode(email, code); err != nil {
		h.logger.Warn("send verification email", zap.Error(err), zap.String("email", email))
	}

	utils.WriteJSONResponse(w, http.StatusOK, response)
}

// VerifyResetCode verifies the emailed code and returns a reset token
// @Summary Verify reset code
// @Description Verify the 6-digit code and get a temporary reset token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.VerifyResetCodeRequest true "Email and verification code"
// @Success 200 {object} dto.VerifyResetCodeResponse "Code verified"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/verify-reset-code [post]
func (h *ForgotPasswordHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.VerifyResetCodeRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok || req.Code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Email and code are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid code", "The verification code you entered is incorrect")
		return
	}

	verification, err := h.verifications.Latest(r.Context(), user.ID, email)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid code", "No verification code found")
		return
	}

	if verification.Used {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Code already used", "This verification code has already been used")
		return
	}
	if time.Now().After(verification.ExpiresAt) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Code expired", "Verification code has expired. Please request a new one")
		return
	}
	if verification.Code != req.Code {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid code", "The verification code you entered is incorrect")
		return
	}

	resetToken, err := middleware.GenerateResetToken(user.ID, email, req.Code, h.jwtCfg)
	if err != nil {
		h.logger.Error("generate reset token", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to generate reset token")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.VerifyResetCodeResponse{
		Message:    "Code verified successfully",
		ResetToken: resetToken,
		ExpiresIn:  "10 minutes",
	})
}

// ResetPassword resets the user's password using a reset token
// @Summary Reset password
// @Description Set a new password using a previously issued reset token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.ResetPasswordResponse "Password reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired reset token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/reset-password [post]
func (h *ForgotPasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.ResetPasswordRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if req.ResetToken == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Reset token is required")
		return
	}
	if len(req.NewPassword) < 6 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Please enter a password with 6 or more characters")
		return
	}

	claims, err := middleware.ValidateResetToken(req.ResetToken, h.jwtCfg)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid reset token", err.Error())
		return
	}

	verification, err := h.verifications.Latest(r.Context(), claims.UserID, claims.Email)
	if err != nil || verification.Code != claims.Code {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid verification", "No matching verification found")
		return
	}

	if verification.Used {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Code already used", "This verification code has already been used")
		return
	}
	if time.Now().After(verification.ExpiresAt) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Code expired", "Verification code has expired")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to reset password")
		return
	}

	if err := h.verifications.Consume(r.Context(), verification.ID, claims.UserID, string(hashed)); err != nil {
		h.logger.Error("consume verification", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to reset password")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.ResetPasswordResponse{
		Message: "Password has been reset successfully",
	})
}

// generateVerificationCode generates a random n-digit verification code
func generateVerificationCode(length int) (string, error) {
	const digits = "0123456789"
	code := make([]byte, length)

	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[num.Int64()]
	}

	return string(code), nil
}
