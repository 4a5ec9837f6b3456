package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icearena/booking-server/internal/model"
)

func newMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func TestBookReservesSeatsAndCommits(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available_seats FROM schedule WHERE id = ?")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings (user_id, schedule_id, status, booking_date) VALUES (?, ?, ?, NOW())")).
		WithArgs(int64(3), int64(10), model.BookingStatusBooked).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule SET available_seats = available_seats - ? WHERE id = ?")).
		WithArgs(2, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := repo.Book(context.Background(), 3, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInsufficientSeatsRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available_seats FROM schedule WHERE id = ?")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), 3, 10, 4)
	var insufficient *InsufficientSeatsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 4, insufficient.Requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookUnknownSlot(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT available_seats FROM schedule WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}))
	mock.ExpectRollback()

	_, err := repo.Book(context.Background(), 3, 99, 1)
	assert.True(t, errors.Is(err, ErrSlotNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRestoresExactlyOneSeat(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT schedule_id, status FROM bookings WHERE id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "status"}).
			AddRow(10, model.BookingStatusBooked))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ? WHERE id = ?")).
		WithArgs(model.BookingStatusCancelled, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule SET available_seats = LEAST(capacity, available_seats + 1) WHERE id = ?")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Cancel(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRestoreIsClampedAtCapacity(t *testing.T) {
	// The restore statement must carry the LEAST(capacity, ...) clamp: a slot
	// whose counter is already back at capacity would otherwise violate the
	// schedule seat check and leave the booking un-cancellable.
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT schedule_id, status FROM bookings WHERE id = ?")).
		WithArgs(int64(43)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "status"}).
			AddRow(10, model.BookingStatusBooked))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ? WHERE id = ?")).
		WithArgs(model.BookingStatusCancelled, int64(43)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule SET available_seats = LEAST(capacity, available_seats + 1) WHERE id = ?")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // counter already at capacity, no-op
	mock.ExpectCommit()

	require.NoError(t, repo.Cancel(context.Background(), 43))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelUnknownBooking(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT schedule_id, status FROM bookings WHERE id = ?")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "status"}))
	mock.ExpectRollback()

	err := repo.Cancel(context.Background(), 7)
	assert.True(t, errors.Is(err, ErrBookingNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTwiceDoesNotRestoreTwice(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT schedule_id, status FROM bookings WHERE id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "status"}).
			AddRow(10, model.BookingStatusCancelled))
	mock.ExpectRollback()

	err := repo.Cancel(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrAlreadyCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTicketsSharesOneTransaction(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets (booking_id, type, quantity, price) VALUES (?, ?, ?, ?)")).
		WithArgs(int64(42), "Adult", 2, 12.5).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets (booking_id, type, quantity, price) VALUES (?, ?, ?, ?)")).
		WithArgs(int64(42), "Child", 1, 6.0).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectCommit()

	refs, err := repo.CreateTickets(context.Background(), 42, []model.Ticket{
		{Type: "Adult", Quantity: 2, Price: 12.5},
		{Type: "Child", Quantity: 1, Price: 6.0},
	})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, TicketRef{TicketID: 100, Quantity: 2}, refs[0])
	assert.Equal(t, TicketRef{TicketID: 101, Quantity: 1}, refs[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTicketsFailureRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets")).
		WithArgs(int64(42), "Adult", 2, 12.5).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.CreateTickets(context.Background(), 42, []model.Ticket{
		{Type: "Adult", Quantity: 2, Price: 12.5},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
