package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/repository"
)

// UserHandler serves profile lookups.  get_user_info and get_user_profile
// are two names for the same query; both remain registered because
// different screens of the deployed client use different names.
type UserHandler struct {
	Users *repository.UserRepo
	Log   *zap.SugaredLogger
}

func NewUserHandler(users *repository.UserRepo, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{Users: users, Log: log}
}

type userInfoReq struct {
	UserID int64 `json:"UserId" validate:"required"`
}

// GetUserInfo returns the user's id, email, role and registration date.
func (h *UserHandler) GetUserInfo(ctx context.Context, raw json.RawMessage) any {
	var req userInfoReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Fail("user not found")
		}
		h.Log.Errorw("load user failed", "error", err, "user_id", req.UserID)
		return Fail("failed to load user")
	}
	return M{"Success": true, "User": M{
		"Id":      u.ID,
		"Email":   u.Email,
		"Role":    u.Role,
		"RegDate": u.RegDate.Format("2006-01-02"),
	}}
}
