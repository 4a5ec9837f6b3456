package handler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/repository"
)

// ReviewHandler serves the public review feed and per-user review history.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Log     *zap.SugaredLogger
}

func NewReviewHandler(reviews *repository.ReviewRepo, log *zap.SugaredLogger) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Log: log}
}

// GetReviews returns all approved reviews, newest first.
func (h *ReviewHandler) GetReviews(ctx context.Context, raw json.RawMessage) any {
	rows, err := h.Reviews.Approved(ctx)
	if err != nil {
		h.Log.Errorw("load reviews failed", "error", err)
		return Fail("failed to load reviews")
	}
	return M{"Success": true, "Reviews": rows}
}

type userReviewsReq struct {
	UserID int64 `json:"UserId" validate:"required"`
}

// GetUserReviews returns one user's reviews regardless of approval.
func (h *ReviewHandler) GetUserReviews(ctx context.Context, raw json.RawMessage) any {
	var req userReviewsReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	rows, err := h.Reviews.ByUser(ctx, req.UserID)
	if err != nil {
		h.Log.Errorw("load user reviews failed", "error", err, "user_id", req.UserID)
		return Fail("failed to load user reviews")
	}
	return M{"Success": true, "Reviews": rows}
}

type addReviewReq struct {
	UserID int64  `json:"UserId" validate:"required"`
	Rating int    `json:"Rating" validate:"required"`
	Text   string `json:"Text" validate:"required"`
}

// AddReview stores a new review.  The rating bound is checked before any
// SQL runs so a bad request never opens a connection.
func (h *ReviewHandler) AddReview(ctx context.Context, raw json.RawMessage) any {
	var req addReviewReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	if req.Rating < 1 || req.Rating > 5 {
		return Fail("rating must be between 1 and 5")
	}
	id, err := h.Reviews.Create(ctx, req.UserID, req.Rating, req.Text)
	if err != nil {
		h.Log.Errorw("add review failed", "error", err, "user_id", req.UserID)
		return Fail("failed to add review")
	}
	h.Log.Infow("review added", "review_id", id, "user_id", req.UserID, "rating", req.Rating)
	return M{"Success": true, "Message": "review added", "ReviewId": id}
}
