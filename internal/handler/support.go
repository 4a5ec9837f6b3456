package handler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/repository"
)

// SupportHandler serves the support chat.  Clients see one thread keyed by
// their user id; admins list active threads and reply into any of them.
type SupportHandler struct {
	Support *repository.SupportRepo
	Log     *zap.SugaredLogger
}

func NewSupportHandler(support *repository.SupportRepo, log *zap.SugaredLogger) *SupportHandler {
	return &SupportHandler{Support: support, Log: log}
}

type sendMessageReq struct {
	UserID  int64  `json:"UserId" validate:"required"`
	Message string `json:"Message" validate:"required"`
}

// SendMessage appends a client message to their own thread.
func (h *SupportHandler) SendMessage(ctx context.Context, raw json.RawMessage) any {
	var req sendMessageReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	if _, err := h.Support.Insert(ctx, req.UserID, req.Message, true); err != nil {
		h.Log.Errorw("send support message failed", "error", err, "user_id", req.UserID)
		return Fail("failed to send message")
	}
	return M{"Success": true}
}

type adminMessageReq struct {
	TargetUserID int64  `json:"TargetUserId" validate:"required"`
	Message      string `json:"Message" validate:"required"`
}

// SendMessageAsAdmin appends an admin reply to a client's thread.
func (h *SupportHandler) SendMessageAsAdmin(ctx context.Context, raw json.RawMessage) any {
	var req adminMessageReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	if _, err := h.Support.Insert(ctx, req.TargetUserID, req.Message, false); err != nil {
		h.Log.Errorw("send admin message failed", "error", err, "target_user_id", req.TargetUserID)
		return Fail("failed to send message")
	}
	return M{"Success": true}
}

type chatReq struct {
	UserID int64 `json:"UserId" validate:"required"`
}

// GetChat returns the caller's own thread, oldest first.
func (h *SupportHandler) GetChat(ctx context.Context, raw json.RawMessage) any {
	var req chatReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	msgs, err := h.Support.Thread(ctx, req.UserID)
	if err != nil {
		h.Log.Errorw("load chat failed", "error", err, "user_id", req.UserID)
		return Fail("failed to load chat")
	}
	return M{"Success": true, "Messages": msgs}
}

type chatHistoryReq struct {
	TargetUserID int64 `json:"TargetUserId" validate:"required"`
}

// GetChatHistory returns a chosen client's thread for the admin view.
func (h *SupportHandler) GetChatHistory(ctx context.Context, raw json.RawMessage) any {
	var req chatHistoryReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	msgs, err := h.Support.Thread(ctx, req.TargetUserID)
	if err != nil {
		h.Log.Errorw("load chat history failed", "error", err, "target_user_id", req.TargetUserID)
		return Fail("failed to load chat")
	}
	return M{"Success": true, "Messages": msgs}
}

// GetActiveChats lists clients with at least one support message.
func (h *SupportHandler) GetActiveChats(ctx context.Context, raw json.RawMessage) any {
	users, err := h.Support.ActiveUsers(ctx)
	if err != nil {
		h.Log.Errorw("load active chats failed", "error", err)
		return Fail("failed to load chats")
	}
	return M{"Success": true, "Users": users}
}
