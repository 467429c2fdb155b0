package helper

import (
	"testing"
	"time"

	"cinema_chain/constants"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestScreeningStatusAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assert.Equal(t, model.ScreeningUpcoming, ScreeningStatusAt(start.Add(-time.Minute), start, end))
	// nửa khoảng: đúng giờ bắt đầu là đang chiếu, đúng giờ kết thúc là đã xong
	assert.Equal(t, model.ScreeningInProgress, ScreeningStatusAt(start, start, end))
	assert.Equal(t, model.ScreeningInProgress, ScreeningStatusAt(end.Add(-time.Second), start, end))
	assert.Equal(t, model.ScreeningExpired, ScreeningStatusAt(end, start, end))
}

func TestCreateScreening(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 120, 30)

	start := time.Now().In(utils.VenueZone()).Add(24 * time.Hour)
	screening, err := CreateScreening(db, model.CreateScreeningInput{
		MovieId:   movie.ID,
		HallId:    hall.ID,
		StartTime: start,
		Price:     120000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, screening.PublicCode)
	assert.Equal(t, model.ScreeningUpcoming, screening.Status)
	// endTime suy từ thời lượng phim
	assert.Equal(t, start.Add(120*time.Minute).Unix(), screening.EndTime.Unix())
}

func TestCreateScreeningConflict(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 120, 30)

	start := time.Now().In(utils.VenueZone()).Add(24 * time.Hour)
	_, err := CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: hall.ID, StartTime: start, Price: 120000,
	})
	require.NoError(t, err)

	// chồng một tiếng vào giữa suất đã có
	_, err = CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: hall.ID, StartTime: start.Add(time.Hour), Price: 120000,
	})
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	// sát lưng nhau thì không tính là chồng (nửa khoảng)
	_, err = CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: hall.ID, StartTime: start.Add(120 * time.Minute), Price: 120000,
	})
	require.NoError(t, err)

	// phòng khác không bị ảnh hưởng
	otherHall := seedHall(t, db, constants.HALL_AVAILABLE)
	_, err = CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: otherHall.ID, StartTime: start, Price: 120000,
	})
	require.NoError(t, err)
}

func TestCreateScreeningValidation(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 120, 30)

	var validationErr *ValidationError

	// quá khứ
	_, err := CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: hall.ID, StartTime: time.Now().Add(-time.Hour), Price: 120000,
	})
	require.ErrorAs(t, err, &validationErr)

	// trước ngày khởi chiếu
	unreleased := seedMovie(t, db, 120, -10)
	_, err = CreateScreening(db, model.CreateScreeningInput{
		MovieId: unreleased.ID, HallId: hall.ID, StartTime: time.Now().Add(24 * time.Hour), Price: 120000,
	})
	require.ErrorAs(t, err, &validationErr)

	// phòng bảo trì
	closedHall := seedHall(t, db, constants.HALL_MAINTENANCE)
	_, err = CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: closedHall.ID, StartTime: time.Now().Add(24 * time.Hour), Price: 120000,
	})
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	// phim không tồn tại
	_, err = CreateScreening(db, model.CreateScreeningInput{
		MovieId: 9999, HallId: hall.ID, StartTime: time.Now().Add(24 * time.Hour), Price: 120000,
	})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestUpdateScreeningRecomputesEnd(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 90, 30)

	start := time.Now().In(utils.VenueZone()).Add(24 * time.Hour)
	screening, err := CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: hall.ID, StartTime: start, Price: 100000,
	})
	require.NoError(t, err)

	newStart := start.Add(6 * time.Hour)
	updated, err := UpdateScreening(db, screening.ID, model.UpdateScreeningInput{StartTime: &newStart})
	require.NoError(t, err)
	assert.Equal(t, newStart.Add(90*time.Minute).Unix(), updated.EndTime.Unix())
}

func TestUpdateScreeningOnlyUpcomingCanReschedule(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 90, 30)

	// suất đang chiếu
	start := time.Now().Add(-30 * time.Minute)
	screening := seedScreening(t, db, movie.ID, hall.ID, start, start.Add(90*time.Minute), model.ScreeningInProgress)

	newStart := time.Now().Add(24 * time.Hour)
	_, err := UpdateScreening(db, screening.ID, model.UpdateScreeningInput{StartTime: &newStart})
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	// đổi giá thì vẫn được
	updated, err := UpdateScreening(db, screening.ID, model.UpdateScreeningInput{Price: utils.Ptr(150000.0)})
	require.NoError(t, err)
	assert.Equal(t, 150000.0, updated.Price)
}

func TestUpdateScreeningHallChangeBlockedByBookings(t *testing.T) {
	db := setupTestDB(t)
	screening, seats := bookingFixture(t, db)
	otherHall := seedHall(t, db, constants.HALL_AVAILABLE)

	booking, err := AllocateSeats(db, screening.ID, 7, []uint{seatId(t, seats, "A", 1)})
	require.NoError(t, err)

	// ghế đã giữ thuộc phòng cũ, đổi phòng bị chặn
	_, err = UpdateScreening(db, screening.ID, model.UpdateScreeningInput{HallId: &otherHall.ID})
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	// huỷ hết booking thì đổi phòng được
	_, err = CancelBooking(db, booking.ID)
	require.NoError(t, err)
	updated, err := UpdateScreening(db, screening.ID, model.UpdateScreeningInput{HallId: &otherHall.ID})
	require.NoError(t, err)
	assert.Equal(t, otherHall.ID, updated.HallId)
}

func TestLockForUpdateByDialect(t *testing.T) {
	// SQLite không có FOR UPDATE nên không được chèn clause
	db := setupTestDB(t)
	stmt := lockForUpdate(db.Session(&gorm.Session{DryRun: true})).Find(&model.CinemaHall{}).Statement
	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE")

	// trên Postgres thì khoá hàng thật
	pg, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=t dbname=t"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	stmt = lockForUpdate(pg).Find(&model.CinemaHall{}).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestUpdateScreeningConflictExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 120, 30)

	start := time.Now().In(utils.VenueZone()).Add(24 * time.Hour)
	screening, err := CreateScreening(db, model.CreateScreeningInput{
		MovieId: movie.ID, HallId: hall.ID, StartTime: start, Price: 100000,
	})
	require.NoError(t, err)

	// dời 30 phút vẫn chồng lên chính nó, không được tính là xung đột
	newStart := start.Add(30 * time.Minute)
	_, err = UpdateScreening(db, screening.ID, model.UpdateScreeningInput{StartTime: &newStart})
	require.NoError(t, err)
}

func TestDeleteScreeningOnlyExpired(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 90, 30)

	future := time.Now().Add(24 * time.Hour)
	upcoming := seedScreening(t, db, movie.ID, hall.ID, future, future.Add(90*time.Minute), model.ScreeningUpcoming)

	err := DeleteScreening(db, upcoming.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	past := time.Now().Add(-5 * time.Hour)
	expired := seedScreening(t, db, movie.ID, hall.ID, past, past.Add(90*time.Minute), model.ScreeningExpired)
	require.NoError(t, DeleteScreening(db, expired.ID))

	var count int64
	require.NoError(t, db.Model(&model.Screening{}).Where("id = ?", expired.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRefreshScreeningStatuses(t *testing.T) {
	db := setupTestDB(t)
	hall := seedHall(t, db, constants.HALL_AVAILABLE)
	movie := seedMovie(t, db, 90, 30)

	now := time.Now()
	// hai suất có cột status bị trễ so với thời gian thực
	inProgress := seedScreening(t, db, movie.ID, hall.ID, now.Add(-30*time.Minute), now.Add(time.Hour), model.ScreeningUpcoming)
	expired := seedScreening(t, db, movie.ID, hall.ID, now.Add(-5*time.Hour), now.Add(-3*time.Hour), model.ScreeningUpcoming)
	future := seedScreening(t, db, movie.ID, hall.ID, now.Add(24*time.Hour), now.Add(25*time.Hour), model.ScreeningUpcoming)

	updated, err := RefreshScreeningStatuses(db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	var gotInProgress, gotExpired, gotFuture model.Screening
	require.NoError(t, db.First(&gotInProgress, inProgress.ID).Error)
	assert.Equal(t, model.ScreeningInProgress, gotInProgress.Status)
	require.NoError(t, db.First(&gotExpired, expired.ID).Error)
	assert.Equal(t, model.ScreeningExpired, gotExpired.Status)
	require.NoError(t, db.First(&gotFuture, future.ID).Error)
	assert.Equal(t, model.ScreeningUpcoming, gotFuture.Status)

	// chạy lại không đổi gì thêm
	updated, err = RefreshScreeningStatuses(db)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
