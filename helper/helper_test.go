package helper

import (
	"fmt"
	"testing"
	"time"

	"cinema_chain/database"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// mỗi connection :memory: là một database riêng nên pool phải giữ đúng 1
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	database.Migrate(db)
	return db
}

var fixtureSeq int

func seedCinema(t *testing.T, db *gorm.DB) *model.Cinema {
	t.Helper()
	fixtureSeq++
	cinema := model.Cinema{
		Name:   fmt.Sprintf("Rạp test %d", fixtureSeq),
		Slug:   fmt.Sprintf("rap-test-%d", fixtureSeq),
		City:   "Hà Nội",
		Active: true,
	}
	require.NoError(t, db.Create(&cinema).Error)
	return &cinema
}

func seedHall(t *testing.T, db *gorm.DB, status string) *model.CinemaHall {
	t.Helper()
	cinema := seedCinema(t, db)
	fixtureSeq++
	hall := model.CinemaHall{
		CinemaId: cinema.ID,
		Name:     fmt.Sprintf("Phòng %d", fixtureSeq),
		HallType: model.HallStandard,
		Status:   status,
	}
	require.NoError(t, db.Create(&hall).Error)
	return &hall
}

// seedMovie tạo phim đã khởi chiếu releaseDaysAgo ngày trước, chưa có ngày kết thúc
func seedMovie(t *testing.T, db *gorm.DB, durationMinutes, releaseDaysAgo int) *model.Movie {
	t.Helper()
	fixtureSeq++
	movie := model.Movie{
		Title:       fmt.Sprintf("Phim test %d", fixtureSeq),
		Duration:    durationMinutes,
		Slug:        fmt.Sprintf("phim-test-%d", fixtureSeq),
		DateRelease: utils.CustomDate{Time: time.Now().In(utils.VenueZone()).AddDate(0, 0, -releaseDaysAgo)},
		StatusMovie: "NOW_SHOWING",
	}
	require.NoError(t, db.Create(&movie).Error)
	return &movie
}

// seedScreening ghi thẳng suất chiếu vào DB, bỏ qua mọi kiểm tra nghiệp vụ
// để dựng được cả suất quá khứ
func seedScreening(t *testing.T, db *gorm.DB, movieID, hallID uint, start, end time.Time, status model.ScreeningStatus) *model.Screening {
	t.Helper()
	fixtureSeq++
	screening := model.Screening{
		PublicCode: fmt.Sprintf("SC-TEST%d", fixtureSeq),
		MovieId:    movieID,
		HallId:     hallID,
		StartTime:  start,
		EndTime:    end,
		Price:      90000,
		Status:     status,
	}
	require.NoError(t, db.Create(&screening).Error)
	return &screening
}

// seedSeatMap sinh sơ đồ ghế rows x perRow cho phòng
func seedSeatMap(t *testing.T, db *gorm.DB, hallID uint, rows, perRow int) []model.Seat {
	t.Helper()
	seats, err := GenerateSeats(db, hallID, rows, perRow, nil)
	require.NoError(t, err)
	return seats
}
