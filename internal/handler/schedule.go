package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/repository"
)

// ScheduleCache is the cached-response store for the schedule listing.
// Satisfied by cache.ScheduleCache; tests substitute a recording fake.
type ScheduleCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, body []byte)
	Invalidate(ctx context.Context)
}

// ScheduleHandler serves the schedule listing and the raw seat-counter
// adjustments the admin client issues.  The listing is the hottest read in
// the protocol and goes through the Redis cache when one is configured.
type ScheduleHandler struct {
	Schedule *repository.ScheduleRepo
	Cache    ScheduleCache
	Log      *zap.SugaredLogger
}

func NewScheduleHandler(schedule *repository.ScheduleRepo, c ScheduleCache, log *zap.SugaredLogger) *ScheduleHandler {
	return &ScheduleHandler{Schedule: schedule, Cache: c, Log: log}
}

// GetSchedule returns all slots from today onwards, ascending by date and
// time slot.
func (h *ScheduleHandler) GetSchedule(ctx context.Context, raw json.RawMessage) any {
	if body, ok := h.Cache.Get(ctx); ok {
		return json.RawMessage(body)
	}
	slots, err := h.Schedule.Upcoming(ctx)
	if err != nil {
		h.Log.Errorw("load schedule failed", "error", err)
		return Fail("failed to load schedule")
	}
	rows := make([]M, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, M{
			"Id":             s.ID,
			"Date":           s.Date.Format("2006-01-02"),
			"TimeSlot":       s.TimeSlot,
			"BreakSlot":      s.BreakSlot,
			"DayOfWeek":      s.DayOfWeek,
			"Capacity":       s.Capacity,
			"AvailableSeats": s.AvailableSeats,
			"Status":         s.Status,
		})
	}
	resp := M{"Success": true, "Schedule": rows}
	if body, err := json.Marshal(resp); err == nil {
		h.Cache.Set(ctx, body)
	}
	return resp
}

type adjustSeatsReq struct {
	ScheduleID int64 `json:"ScheduleId" validate:"required"`
	Count      int   `json:"Count" validate:"required,min=1"`
}

// DecreaseSeats removes Count seats from a slot without creating a
// booking.  The desktop client uses it while assembling multi-step
// bookings.  Over-draining is refused.
func (h *ScheduleHandler) DecreaseSeats(ctx context.Context, raw json.RawMessage) any {
	var req adjustSeatsReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	if err := h.Schedule.DecreaseSeats(ctx, req.ScheduleID, req.Count); err != nil {
		var ins *repository.InsufficientSeatsError
		switch {
		case errors.Is(err, repository.ErrSlotNotFound):
			return Fail("session not found")
		case errors.As(err, &ins):
			return Fail(fmt.Sprintf("not enough available seats. Available: %d, requested: %d", ins.Available, ins.Requested))
		default:
			h.Log.Errorw("decrease seats failed", "error", err, "schedule_id", req.ScheduleID)
			return Fail("failed to update seats")
		}
	}
	h.Cache.Invalidate(ctx)
	return M{"Success": true}
}

// IncreaseSeats returns Count seats to a slot, clamped at capacity.
func (h *ScheduleHandler) IncreaseSeats(ctx context.Context, raw json.RawMessage) any {
	var req adjustSeatsReq
	if err := bind(raw, &req); err != nil {
		return Fail(err.Error())
	}
	if err := h.Schedule.IncreaseSeats(ctx, req.ScheduleID, req.Count); err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return Fail("session not found")
		}
		h.Log.Errorw("increase seats failed", "error", err, "schedule_id", req.ScheduleID)
		return Fail("failed to update seats")
	}
	h.Cache.Invalidate(ctx)
	return M{"Success": true}
}
