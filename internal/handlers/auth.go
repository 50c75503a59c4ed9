package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
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

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users  repository.UserRepository
	jwtCfg *config.JWTConfig
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users repository.UserRepository, jwtCfg *config.JWTConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwtCfg: jwtCfg, logger: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with name, email, and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	email, ok := normalizeEmail(req.Email)
	if req.Name == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Name is required")
		return
	}
	if !ok {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Please include a valid email")
		return
	}
	if len(req.Password) < 6 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Please enter a password with 6 or more characters")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to create user")
		return
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.Create(r.Context(), &user); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "This email address is already registered")
			return
		}
		h.logger.Error("create user", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to create user")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.jwtCfg)
	if err != nil {
		h.logger.Error("generate token", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to generate token")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  toUserResponse(&user),
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid credentials", "Invalid email or password")
			return
		}
		h.logger.Error("get user by email", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid credentials", "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.jwtCfg)
	if err != nil {
		h.logger.Error("generate token", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to generate token")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

// User dispatches /api/auth/user by HTTP method
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetCurrentUser(w, r)
	case http.MethodPut:
		h.UpdateProfile(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// GetCurrentUser returns the authenticated user's record
// @Summary Get current user
// @Description Get the currently authenticated user's data
// @Tags authentication
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserResponse "User retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/user [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "User not found")
			return
		}
		h.logger.Error("get user", zap.Error(err), zap.String("user_id", userID.String()))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to load user")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfile applies a partial update to the current user's name/email
// @Summary Update profile
// @Description Update the current user's name and/or email
// @Tags authentication
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserResponse "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or duplicate email"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/user [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.UpdateProfileRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	cur, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "User not found")
			return
		}
		h.logger.Error("get user", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to load user")
		return
	}

	name := cur.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Name cannot be empty")
			return
		}
	}
	email := cur.Email
	if req.Email != nil {
		var ok bool
		email, ok = normalizeEmail(*req.Email)
		if !ok {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Please include a valid email")
			return
		}
	}

	updated, err := h.users.UpdateProfile(r.Context(), userID, name, email)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "This email address is already registered")
			return
		}
		h.logger.Error("update profile", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to update profile")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(updated))
}

// ChangePassword sets a new password for the current user
// @Summary Change password
// @Description Change the current user's password
// @Tags authentication
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]string "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized or wrong current password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.ChangePasswordRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if len(req.NewPassword) < 6 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "Please enter a password with 6 or more characters")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("get user", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to load user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to change password")
		return
	}

	if err := h.users.UpdatePassword(r.Context(), userID, string(hashed)); err != nil {
		h.logger.Error("update password", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Server error", "Failed to change password")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// normalizeEmail lowercases and validates an email address
func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", false
	}
	return email, true
}

// toUserResponse converts a user model to its API shape
func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}
