package helper

import (
	"testing"
	"time"

	"cinema_chain/constants"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// bookingFixture dựng phòng 2 hàng x 5 ghế với một suất chiếu ngày mai
func bookingFixture(t *testing.T, db *gorm.DB) (*model.Screening, []model.Seat) {
	t.Helper()
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	seats := seedSeatMap(t, db, hall.ID, 2, 5)
	movie := seedMovie(t, db, 100, 30)

	start := time.Now().Add(24 * time.Hour)
	screening := seedScreening(t, db, movie.ID, hall.ID, start, start.Add(100*time.Minute), model.ScreeningUpcoming)
	return screening, seats
}

// seatId tìm ghế theo hàng và số trong fixture
func seatId(t *testing.T, seats []model.Seat, row string, number int) uint {
	t.Helper()
	for _, s := range seats {
		if s.Row == row && s.Number == number {
			return s.ID
		}
	}
	t.Fatalf("không có ghế %s%d trong fixture", row, number)
	return 0
}

func TestAllocateSeats(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	ids := []uint{seatId(t, seats, "A", 1), seatId(t, seats, "A", 2)}
	booking, err := AllocateSeats(db, screening.ID, 7, ids)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.PublicCode)
	assert.Equal(t, model.BookingPending, booking.BookingStatus)
	assert.Equal(t, model.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, 2*screening.Price, booking.TotalAmount)
	assert.Len(t, booking.Seats, 2)

	var count int64
	require.NoError(t, db.Model(&model.BookingSeat{}).
		Where("booking_id = ?", booking.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAllocateSeatsInputValidation(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	var validationErr *ValidationError
	var capacityErr *CapacityError

	_, err := AllocateSeats(db, screening.ID, 7, nil)
	require.ErrorAs(t, err, &validationErr)

	// quá 8 ghế bị chặn trước khi soi tới DB
	_, err = AllocateSeats(db, screening.ID, 7, []uint{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.ErrorAs(t, err, &capacityErr)

	a1 := seatId(t, seats, "A", 1)
	_, err = AllocateSeats(db, screening.ID, 7, []uint{a1, a1})
	require.ErrorAs(t, err, &validationErr)

	// ghế không thuộc phòng của suất chiếu
	_, err = AllocateSeats(db, screening.ID, 7, []uint{99999})
	require.ErrorAs(t, err, &validationErr)

	var notFoundErr *NotFoundError
	_, err = AllocateSeats(db, 99999, 7, []uint{a1})
	require.ErrorAs(t, err, &notFoundErr)
}

func TestAllocateSeatsTaken(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	a1 := seatId(t, seats, "A", 1)
	a2 := seatId(t, seats, "A", 2)
	_, err := AllocateSeats(db, screening.ID, 7, []uint{a1, a2})
	require.NoError(t, err)

	_, err = AllocateSeats(db, screening.ID, 8, []uint{a2})
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, []uint{a2}, conflictErr.SeatIds)
}

func TestBookingSeatUniquePerScreening(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)
	a1 := seatId(t, seats, "A", 1)

	first := model.Booking{PublicCode: "BK-UNIQ1", UserId: 7, ScreeningId: screening.ID,
		BookingStatus: model.BookingPending, PaymentStatus: model.PaymentPending}
	second := model.Booking{PublicCode: "BK-UNIQ2", UserId: 8, ScreeningId: screening.ID,
		BookingStatus: model.BookingPending, PaymentStatus: model.PaymentPending}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	// cùng (suất chiếu, ghế) cho hai booking: bản ghi thứ hai phải bị DB chặn
	require.NoError(t, db.Create(&model.BookingSeat{
		BookingId: first.ID, SeatId: a1, ScreeningId: screening.ID,
	}).Error)
	err := db.Create(&model.BookingSeat{
		BookingId: second.ID, SeatId: a1, ScreeningId: screening.ID,
	}).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}

func TestAllocateSeatsLosesRaceToCommittedHold(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)
	a1 := seatId(t, seats, "A", 1)

	// booking đối thủ commit giữ ghế sau thời điểm kiểm tra ghế trống: mô
	// phỏng bằng một bản ghi giữ ghế mà truy vấn ghế trống không nhìn thấy
	// (booking đã huỷ nhưng bản ghi giữ ghế chưa bị dọn)
	rival := model.Booking{PublicCode: "BK-RIVAL", UserId: 9, ScreeningId: screening.ID,
		BookingStatus: model.BookingCancelled, PaymentStatus: model.PaymentPending}
	require.NoError(t, db.Create(&rival).Error)
	require.NoError(t, db.Create(&model.BookingSeat{
		BookingId: rival.ID, SeatId: a1, ScreeningId: screening.ID,
	}).Error)

	tx := db.Begin()
	_, err := AllocateSeats(tx, screening.ID, 7, []uint{a1})
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, []uint{a1}, conflictErr.SeatIds)
	tx.Rollback()

	// thua cuộc thì không để lại booking nào
	var count int64
	require.NoError(t, db.Model(&model.Booking{}).
		Where("booking_status != ?", model.BookingCancelled).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAllocateSeatsScreeningStarted(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	seats := seedSeatMap(t, db, hall.ID, 1, 4)
	movie := seedMovie(t, db, 100, 30)

	start := time.Now().Add(-10 * time.Minute)
	screening := seedScreening(t, db, movie.ID, hall.ID, start, start.Add(100*time.Minute), model.ScreeningInProgress)

	_, err := AllocateSeats(db, screening.ID, 7, []uint{seats[0].ID})
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestAllocateSeatsAdjacency(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	a1 := seatId(t, seats, "A", 1)
	a2 := seatId(t, seats, "A", 2)
	a3 := seatId(t, seats, "A", 3)

	// chọn A1 + A3 kẹt A2 ở giữa
	_, err := AllocateSeats(db, screening.ID, 7, []uint{a1, a3})
	var adjacencyErr *AdjacencyError
	require.ErrorAs(t, err, &adjacencyErr)
	assert.Equal(t, "A", adjacencyErr.Row)
	assert.Equal(t, 2, adjacencyErr.Number)

	// lỗi thì không được giữ ghế nào
	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.Zero(t, count)

	// chọn liền dãy thì được
	_, err = AllocateSeats(db, screening.ID, 7, []uint{a1, a2, a3})
	require.NoError(t, err)
}

func TestAllocateSeatsAdjacencyIgnoresPreexistingGap(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	a3 := seatId(t, seats, "A", 3)
	a5 := seatId(t, seats, "A", 5)

	// A3 đã bán từ trước, khe A2/A4 là của booking cũ để lại
	_, err := AllocateSeats(db, screening.ID, 7, []uint{a3})
	require.NoError(t, err)

	// chọn A5 kẹt A4 giữa A3 cũ và A5 mới nên vẫn bị chặn
	_, err = AllocateSeats(db, screening.ID, 8, []uint{a5})
	var adjacencyErr *AdjacencyError
	require.ErrorAs(t, err, &adjacencyErr)

	// hàng B không đụng gì tới hàng A
	b1 := seatId(t, seats, "B", 1)
	_, err = AllocateSeats(db, screening.ID, 8, []uint{b1})
	require.NoError(t, err)
}

func TestCancelBookingFreesSeats(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	a1 := seatId(t, seats, "A", 1)
	booking, err := AllocateSeats(db, screening.ID, 7, []uint{a1})
	require.NoError(t, err)

	cancelled, err := CancelBooking(db, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.BookingStatus)
	assert.NotNil(t, cancelled.CancelledAt)

	// bản ghi giữ ghế bị dọn hẳn để unique index nhả slot
	var holds int64
	require.NoError(t, db.Model(&model.BookingSeat{}).
		Unscoped().Where("booking_id = ?", booking.ID).Count(&holds).Error)
	assert.Zero(t, holds)

	// ghế được nhả, người khác đặt lại được
	_, err = AllocateSeats(db, screening.ID, 8, []uint{a1})
	require.NoError(t, err)
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	booking, err := AllocateSeats(db, screening.ID, 7, []uint{seatId(t, seats, "A", 1)})
	require.NoError(t, err)

	updated, err := UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{BookingStatus: utils.Ptr("CONFIRMED")})
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, updated.BookingStatus)

	// không quay lại PENDING được
	_, err = UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{BookingStatus: utils.Ptr("PENDING")})
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	// trạng thái lạ bị từ chối
	_, err = UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{BookingStatus: utils.Ptr("SHIPPED")})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestUpdateBookingPaymentPaidAlias(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	booking, err := AllocateSeats(db, screening.ID, 7, []uint{seatId(t, seats, "A", 1)})
	require.NoError(t, err)

	// alias lịch sử "Paid" được chuẩn hoá thành COMPLETED
	updated, err := UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{
		PaymentStatus: utils.Ptr("Paid"),
		PaymentMethod: utils.Ptr("vnpay"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, updated.PaymentStatus)
	assert.Equal(t, "vnpay", updated.PaymentMethod)
	require.NotNil(t, updated.PaidAt)
	firstPaidAt := *updated.PaidAt

	// ghi lại COMPLETED là no-op, PaidAt không bị ghi đè
	again, err := UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{PaymentStatus: utils.Ptr("COMPLETED")})
	require.NoError(t, err)
	require.NotNil(t, again.PaidAt)
	assert.Equal(t, firstPaidAt.Unix(), again.PaidAt.Unix())

	// COMPLETED là trạng thái cuối
	_, err = UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{PaymentStatus: utils.Ptr("FAILED")})
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestUpdateBookingPaymentRetryAfterFailed(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	booking, err := AllocateSeats(db, screening.ID, 7, []uint{seatId(t, seats, "A", 1)})
	require.NoError(t, err)

	_, err = UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{PaymentStatus: utils.Ptr("FAILED")})
	require.NoError(t, err)

	// thanh toán lỗi được thử lại
	updated, err := UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{PaymentStatus: utils.Ptr("COMPLETED")})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, updated.PaymentStatus)
}

func TestCancelledBookingCannotCompletePayment(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)

	booking, err := AllocateSeats(db, screening.ID, 7, []uint{seatId(t, seats, "A", 1)})
	require.NoError(t, err)

	_, err = CancelBooking(db, booking.ID)
	require.NoError(t, err)

	_, err = UpdateBookingStatus(db, booking.ID, model.UpdateBookingStatusInput{PaymentStatus: utils.Ptr("COMPLETED")})
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}
