package handler

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/repository"
)

func newReviewHandler(t *testing.T) (*ReviewHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReviewHandler(repository.NewReviewRepo(db), zap.NewNop().Sugar()), mock
}

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	// No SQL expectations: the rating bound must fail before any query runs.
	h, mock := newReviewHandler(t)

	for _, rating := range []int{-1, 6, 100} {
		resp := h.AddReview(context.Background(),
			[]byte(`{"UserId":1,"Rating":`+strconv.Itoa(rating)+`,"Text":"ok"}`))
		m := resp.(M)
		assert.Equal(t, "rating must be between 1 and 5", m["Error"], "rating=%d", rating)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddReviewStoresValidRating(t *testing.T) {
	h, mock := newReviewHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(int64(1), 5, "great ice").
		WillReturnResult(sqlmock.NewResult(3, 1))

	resp := h.AddReview(context.Background(),
		[]byte(`{"UserId":1,"Rating":5,"Text":"great ice"}`))
	m := resp.(M)
	assert.Equal(t, true, m["Success"])
	assert.Equal(t, int64(3), m["ReviewId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
