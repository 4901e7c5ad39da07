package http

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"budgetwise/internal/domain/budget"
	"budgetwise/internal/domain/user"
	"budgetwise/internal/shared/auth"
	"budgetwise/internal/shared/middleware"
)

// OTPSender delivers one-time login codes.
type OTPSender interface {
	SendOTP(to, code string) error
}

type AuthHandler struct {
	userRepo      user.Repository
	budgetService *budget.Service
	jwt           *auth.JWT
	oauthProvider auth.OAuthProvider
	otpSender     OTPSender
	logger        *logrus.Logger
}

func NewAuthHandler(userRepo user.Repository, budgetService *budget.Service, jwt *auth.JWT, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo:      userRepo,
		budgetService: budgetService,
		jwt:           jwt,
		logger:        logger,
	}
}

// SetOAuthProvider enables the Google sign-in endpoints (optional).
func (h *AuthHandler) SetOAuthProvider(provider auth.OAuthProvider) {
	h.oauthProvider = provider
}

// SetOTPSender enables the email one-time-code endpoints (optional).
func (h *AuthHandler) SetOTPSender(sender OTPSender) {
	h.otpSender = sender
}

// Request/Response DTOs

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=128"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type OTPRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type OTPVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type UpdateMeRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=128"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
	Currency  *string `json:"currency" validate:"omitempty,len=3,alpha"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

// HandleRegister creates a password user and seeds their default budgets.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		writeError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	u, err := h.userRepo.Create(r.Context(), user.CreateUserParams{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		PasswordHash: &hash,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		h.logger.WithError(err).Error("Failed to create user")
		writeError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	// Seeding failures are logged but do not fail the signup.
	if err := h.budgetService.SeedDefaults(r.Context(), u.ID); err != nil {
		h.logger.WithError(err).WithField("userId", u.ID).Error("Failed to seed default budgets")
	}

	h.issueToken(w, r, u, http.StatusCreated)
}

// HandleLogin authenticates a password user.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.WithError(err).Error("Failed to look up user")
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if u.PasswordHash == nil {
		writeError(w, http.StatusBadRequest, "This account uses a different sign-in method")
		return
	}
	if err := auth.VerifyPassword(*u.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.issueToken(w, r, u, http.StatusOK)
}

// HandleLogout clears the auth cookie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe routes requests for the authenticated user's own profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetMe(w, r, userID)
	case http.MethodPut:
		h.handleUpdateMe(w, r, userID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *AuthHandler) handleGetMe(w http.ResponseWriter, r *http.Request, userID int64) {
	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to get user")
		writeError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request, userID int64) {
	var req UpdateMeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.userRepo.Update(r.Context(), userID, user.UpdateUserParams{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Currency:  req.Currency,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.WithError(err).WithField("userId", userID).Error("Failed to update user")
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// HandleOTPRequest emails a one-time login code. Unknown emails get the
// same response as known ones so the endpoint cannot be used to probe
// accounts.
func (h *AuthHandler) HandleOTPRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if h.otpSender == nil {
		writeError(w, http.StatusNotFound, "One-time codes are not enabled")
		return
	}

	var req OTPRequestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			h.logger.WithError(err).Error("Failed to look up user for otp")
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate otp")
		writeError(w, http.StatusInternalServerError, "Failed to send login code")
		return
	}
	hash, err := auth.HashOTP(code)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash otp")
		writeError(w, http.StatusInternalServerError, "Failed to send login code")
		return
	}

	if err := h.userRepo.SetOTP(r.Context(), u.ID, hash, time.Now().Add(auth.OTPValidity)); err != nil {
		h.logger.WithError(err).WithField("userId", u.ID).Error("Failed to store otp")
		writeError(w, http.StatusInternalServerError, "Failed to send login code")
		return
	}

	if err := h.otpSender.SendOTP(u.Email, code); err != nil {
		h.logger.WithError(err).WithField("userId", u.ID).Error("Failed to send otp email")
		writeError(w, http.StatusInternalServerError, "Failed to send login code")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleOTPVerify exchanges a valid code for a session token.
func (h *AuthHandler) HandleOTPVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if h.otpSender == nil {
		writeError(w, http.StatusNotFound, "One-time codes are not enabled")
		return
	}

	var req OTPVerifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired code")
		return
	}

	if u.OTPHash == nil || u.OTPExpiresAt == nil || time.Now().After(*u.OTPExpiresAt) {
		writeError(w, http.StatusUnauthorized, "Invalid or expired code")
		return
	}
	if err := auth.VerifyOTP(*u.OTPHash, req.Code); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired code")
		return
	}

	// Codes are single use.
	if err := h.userRepo.ClearOTP(r.Context(), u.ID); err != nil {
		h.logger.WithError(err).WithField("userId", u.ID).Error("Failed to clear otp")
	}

	h.issueToken(w, r, u, http.StatusOK)
}

// HandleGoogleAuth returns the provider URL to start the OAuth flow.
func (h *AuthHandler) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if h.oauthProvider == nil {
		writeError(w, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}

	state, err := generateState()
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate oauth state")
		writeError(w, http.StatusInternalServerError, "Failed to start sign-in")
		return
	}

	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	writeJSON(w, http.StatusOK, AuthURLResponse{URL: h.oauthProvider.GetAuthURL(state)})
}

// HandleGoogleCallback finishes the OAuth flow, creating the user on
// first sign-in.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthProvider == nil {
		writeError(w, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || state == "" || state != stateCookie.Value {
		writeError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	token, err := h.oauthProvider.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).Error("Failed to exchange oauth code")
		writeError(w, http.StatusBadGateway, "Failed to complete sign-in")
		return
	}

	info, err := h.oauthProvider.GetUserInfo(r.Context(), token.AccessToken)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch oauth user info")
		writeError(w, http.StatusBadGateway, "Failed to complete sign-in")
		return
	}

	provider := "google"
	u, err := h.userRepo.GetByOAuth(r.Context(), provider, info.ID)
	if errors.Is(err, user.ErrUserNotFound) {
		u, err = h.userRepo.Create(r.Context(), user.CreateUserParams{
			Email:         info.Email,
			Name:          info.Name,
			OAuthProvider: &provider,
			OAuthID:       &info.ID,
			AvatarURL:     &info.AvatarURL,
		})
		if err == nil {
			if seedErr := h.budgetService.SeedDefaults(r.Context(), u.ID); seedErr != nil {
				h.logger.WithError(seedErr).WithField("userId", u.ID).Error("Failed to seed default budgets")
			}
		}
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve oauth user")
		writeError(w, http.StatusInternalServerError, "Failed to complete sign-in")
		return
	}

	h.issueToken(w, r, u, http.StatusOK)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		h.logger.WithError(err).WithField("userId", u.ID).Error("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	setAuthCookie(w, r, token)
	writeJSON(w, status, AuthResponse{Token: token, User: u})
}

func setAuthCookie(w http.ResponseWriter, r *http.Request, token string) {
	// Only set Secure flag when actually using HTTPS
	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	})
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
