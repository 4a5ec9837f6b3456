package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/model"
	"github.com/icearena/booking-server/internal/repository"
	"github.com/icearena/booking-server/internal/utils"
)

// AuthHandler serves login and register.  Passwords arrive encrypted with
// the client's transit codec; the handler decrypts them, digests the
// result and compares against (or stores into) users.password_hash.
type AuthHandler struct {
	Users *repository.UserRepo
	Log   *zap.SugaredLogger
}

func NewAuthHandler(users *repository.UserRepo, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Users: users, Log: log}
}

type loginReq struct {
	Email    string `json:"Email" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

// Login verifies credentials.  The error text deliberately distinguishes
// an unknown email from a wrong password, matching what the desktop client
// displays.
func (h *AuthHandler) Login(ctx context.Context, raw json.RawMessage) any {
	var req loginReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	password, err := utils.Decrypt(req.Password)
	if err != nil {
		return Fail("failed to decrypt password")
	}

	u, err := h.Users.GetByCredentials(ctx, req.Email, utils.HashPassword(password))
	if err == nil {
		h.Log.Infow("login ok", "email", u.Email, "role", u.Role)
		return M{"Success": true, "Role": u.Role, "UserId": u.ID, "Email": u.Email}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		h.Log.Errorw("login query failed", "error", err)
		return Fail("server error during login")
	}

	exists, err := h.Users.EmailExists(ctx, req.Email)
	if err != nil {
		h.Log.Errorw("email lookup failed", "error", err)
		return Fail("server error during login")
	}
	if exists {
		h.Log.Infow("login failed: wrong password", "email", req.Email)
		return Fail("wrong password")
	}
	h.Log.Infow("login failed: unknown email", "email", req.Email)
	return Fail("user with this email not found")
}

type registerReq struct {
	Email    string `json:"Email" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

// Register creates a Client account.  Duplicate emails are rejected
// case-insensitively, both by the pre-check and by the unique index the
// pre-check races against.
func (h *AuthHandler) Register(ctx context.Context, raw json.RawMessage) any {
	var req registerReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Var(req.Email, "email"); err != nil {
		return Fail("invalid email format")
	}

	exists, err := h.Users.EmailExists(ctx, req.Email)
	if err != nil {
		h.Log.Errorw("email lookup failed", "error", err)
		return Fail("registration failed, try again later")
	}
	if exists {
		return Fail("user with this email already exists")
	}

	password, err := utils.Decrypt(req.Password)
	if err != nil {
		return Fail("failed to decrypt password")
	}

	uid, err := h.Users.Create(ctx, req.Email, password, model.RoleClient)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Fail("user with this email already exists")
		}
		h.Log.Errorw("create user failed", "error", err)
		return Fail("registration failed, try again later")
	}
	h.Log.Infow("registered", "email", req.Email, "user_id", uid)
	return M{"Success": true, "Message": "registration successful", "UserId": uid, "Role": model.RoleClient}
}
