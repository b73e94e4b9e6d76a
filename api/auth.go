package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	authx "github.com/tanpawarit/pharmapilot/pkg/auth"
	storex "github.com/tanpawarit/pharmapilot/store"
)

const resetTokenTTL = time.Hour

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || fullName == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Email, full_name, and password are required")
		return
	}
	if len(req.Password) < authx.MinPasswordLength {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	hashed, err := authx.HashPassword(req.Password)
	if err != nil {
		s.internalDetail(w, r, err)
		return
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = storex.DefaultRole
	}

	user := &storex.User{
		Email:          email,
		FullName:       fullName,
		HashedPassword: hashed,
		Role:           role,
		IsActive:       true,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.deps.Users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storex.ErrConflict) {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.deps.Users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.internalDetail(w, r, err)
		return
	}
	if !authx.CheckPassword(user.HashedPassword, req.Password) {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !user.IsActive {
		writeDetail(w, http.StatusUnauthorized, "User account is inactive")
		return
	}

	pair, err := s.deps.Tokens.IssuePair(strconv.FormatInt(user.ID, 10), user.Email, user.Role)
	if err != nil {
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := authx.FromContext(r.Context())
	user, err := s.deps.Users.UserByEmail(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = decode(r, &req)

	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		raw = authx.BearerToken(r.Header.Get("Authorization"))
	}
	if raw == "" {
		writeDetail(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	claims, err := s.deps.Tokens.Parse(raw, authx.TypeRefresh)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	pair, err := s.deps.Tokens.IssuePair(claims.Subject, claims.Email, claims.Role)
	if err != nil {
		s.internalDetail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// handleLogout is stateless; clients drop their tokens.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusOK, "Logged out successfully")
}

// handleForgotPassword answers the same way whether or not the email exists.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeDetail(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx := r.Context()
	user, err := s.deps.Users.UserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		token := uuid.NewString()
		if err := s.deps.ResetTokens.PutResetToken(ctx, token, user.Email, resetTokenTTL); err != nil {
			s.internalDetail(w, r, err)
			return
		}
		if err := s.deps.Mailer.SendPasswordReset(ctx, user.Email, user.FullName, token); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("send password reset email")
		}
	case errors.Is(err, storex.ErrNotFound):
	default:
		s.internalDetail(w, r, err)
		return
	}

	writeDetail(w, http.StatusOK, "If the email exists, a password reset link has been sent")
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		writeDetail(w, http.StatusBadRequest, "Token and new_password are required")
		return
	}
	if len(req.NewPassword) < authx.MinPasswordLength {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	ctx := r.Context()
	email, err := s.deps.ResetTokens.ConsumeResetToken(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		if errors.Is(err, storex.ErrInvalidToken) {
			writeDetail(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		s.internalDetail(w, r, err)
		return
	}

	hashed, err := authx.HashPassword(req.NewPassword)
	if err != nil {
		s.internalDetail(w, r, err)
		return
	}
	if err := s.deps.Users.UpdatePassword(ctx, email, hashed); err != nil {
		if errors.Is(err, storex.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		s.internalDetail(w, r, err)
		return
	}
	writeDetail(w, http.StatusOK, "Password reset successfully")
}

func (s *Server) internalDetail(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
