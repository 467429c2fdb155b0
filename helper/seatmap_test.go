package helper

import (
	"testing"
	"time"

	"cinema_chain/constants"
	"cinema_chain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "A", RowLabel(0))
	assert.Equal(t, "B", RowLabel(1))
	assert.Equal(t, "Z", RowLabel(25))
	assert.Equal(t, "AA", RowLabel(26))
	assert.Equal(t, "AB", RowLabel(27))
	assert.Equal(t, "AZ", RowLabel(51))
	assert.Equal(t, "BA", RowLabel(52))
}

func TestGridForCapacity(t *testing.T) {
	rows, perRow := GridForCapacity(40)
	assert.Equal(t, 7, rows)
	assert.Equal(t, 6, perRow)

	rows, perRow = GridForCapacity(1)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, perRow)

	rows, perRow = GridForCapacity(100)
	assert.Equal(t, 10, rows)
	assert.Equal(t, 10, perRow)

	rows, perRow = GridForCapacity(0)
	assert.Equal(t, 0, rows)
	assert.Equal(t, 0, perRow)
}

func TestBuildSeatGridPartialLastRow(t *testing.T) {
	rows, perRow := GridForCapacity(40)
	seats := BuildSeatGrid(1, rows, perRow, 40, nil)
	require.Len(t, seats, 40)

	// 6 hàng đầu đủ 6 ghế, hàng G chỉ còn 4
	byRow := map[string]int{}
	for _, s := range seats {
		byRow[s.Row]++
	}
	require.Len(t, byRow, 7)
	for _, row := range []string{"A", "B", "C", "D", "E", "F"} {
		assert.Equal(t, 6, byRow[row])
	}
	assert.Equal(t, 4, byRow["G"])

	last := seats[len(seats)-1]
	assert.Equal(t, "G", last.Row)
	assert.Equal(t, 4, last.Number)
}

func TestBuildSeatGridDefaultTypes(t *testing.T) {
	seats := BuildSeatGrid(1, 6, 4, 0, nil)
	for _, s := range seats {
		switch s.Row {
		case "A", "B", "C", "D":
			assert.Equal(t, model.SeatStandard, s.SeatType, "hàng %s", s.Row)
		default:
			assert.Equal(t, model.SeatVIP, s.SeatType, "hàng %s", s.Row)
		}
	}
}

func TestGenerateSeats(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)

	seats, err := GenerateSeats(db, hall.ID, 5, 8, nil)
	require.NoError(t, err)
	assert.Len(t, seats, 40)

	var reloaded model.CinemaHall
	require.NoError(t, db.First(&reloaded, hall.ID).Error)
	assert.Equal(t, 40, reloaded.Capacity)

	// phòng đã có sơ đồ thì không generate lần hai
	_, err = GenerateSeats(db, hall.ID, 2, 2, nil)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRegenerateSeatsBlockedByBooking(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	seats := seedSeatMap(t, db, hall.ID, 2, 3)
	movie := seedMovie(t, db, 100, 30)

	// suất đã chiếu xong nhưng còn booking chưa huỷ trên ghế của phòng
	start := time.Now().Add(-3 * time.Hour)
	screening := seedScreening(t, db, movie.ID, hall.ID, start, start.Add(100*time.Minute), model.ScreeningExpired)

	booking := model.Booking{
		PublicCode:    "BK-TESTREGEN",
		UserId:        1,
		ScreeningId:   screening.ID,
		BookingStatus: model.BookingConfirmed,
		PaymentStatus: model.PaymentCompleted,
	}
	require.NoError(t, db.Create(&booking).Error)
	require.NoError(t, db.Create(&model.BookingSeat{
		BookingId:   booking.ID,
		SeatId:      seats[0].ID,
		ScreeningId: screening.ID,
	}).Error)

	_, err := RegenerateSeats(db, hall.ID, 12, nil)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	// sơ đồ cũ phải còn nguyên
	var count int64
	require.NoError(t, db.Model(&model.Seat{}).Where("hall_id = ?", hall.ID).Count(&count).Error)
	assert.EqualValues(t, 6, count)

	// huỷ booking xong thì regenerate được
	require.NoError(t, db.Model(&booking).Update("booking_status", model.BookingCancelled).Error)
	newSeats, err := RegenerateSeats(db, hall.ID, 12, nil)
	require.NoError(t, err)
	assert.Len(t, newSeats, 12)

	var reloaded model.CinemaHall
	require.NoError(t, db.First(&reloaded, hall.ID).Error)
	assert.Equal(t, 12, reloaded.Capacity)
}

func TestRegenerateSeatsBlockedByUpcomingScreening(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	seedSeatMap(t, db, hall.ID, 2, 3)
	movie := seedMovie(t, db, 100, 30)

	start := time.Now().Add(24 * time.Hour)
	seedScreening(t, db, movie.ID, hall.ID, start, start.Add(100*time.Minute), model.ScreeningUpcoming)

	_, err := RegenerateSeats(db, hall.ID, 20, nil)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestClearSeats(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	seedSeatMap(t, db, hall.ID, 3, 4)

	deleted, err := ClearSeats(db, hall.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 12, deleted)

	var count int64
	require.NoError(t, db.Model(&model.Seat{}).Where("hall_id = ?", hall.ID).Count(&count).Error)
	assert.Zero(t, count)

	var reloaded model.CinemaHall
	require.NoError(t, db.First(&reloaded, hall.ID).Error)
	assert.Zero(t, reloaded.Capacity)

	// generate lại được sau khi clear
	seats, err := GenerateSeats(db, hall.ID, 2, 2, nil)
	require.NoError(t, err)
	assert.Len(t, seats, 4)
}

func TestSeatTypeRuleFromName(t *testing.T) {
	rule, err := SeatTypeRuleFromName("all-vip")
	require.NoError(t, err)
	assert.Equal(t, model.SeatVIP, rule(0))

	rule, err = SeatTypeRuleFromName("")
	require.NoError(t, err)
	assert.Equal(t, model.SeatStandard, rule(0))
	assert.Equal(t, model.SeatVIP, rule(4))

	_, err = SeatTypeRuleFromName("bogus")
	require.Error(t, err)
}
