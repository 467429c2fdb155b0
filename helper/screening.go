package helper

import (
	"errors"
	"fmt"
	"log"
	"time"

	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate khoá hàng theo kiểu FOR UPDATE để tuần tự hoá các request
// ghi cùng đụng một phòng hay một suất chiếu. SQLite không có FOR UPDATE,
// ở đó ràng buộc unique trên booking_seats là chốt chặn cuối.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// ScreeningStatusAt suy ra trạng thái thuần tuý theo thời gian, nửa khoảng
// [start, end): trước start là UPCOMING, từ end trở đi là EXPIRED
func ScreeningStatusAt(now, start, end time.Time) model.ScreeningStatus {
	switch {
	case now.Before(start):
		return model.ScreeningUpcoming
	case now.Before(end):
		return model.ScreeningInProgress
	default:
		return model.ScreeningExpired
	}
}

// HasConflict kiểm tra phòng hall có suất chiếu chồng khung giờ [start, end)
// hay không. Phải gọi trong cùng transaction với lệnh insert/update để tránh
// hai request cùng qua được kiểm tra rồi cùng commit.
func HasConflict(tx *gorm.DB, hallID uint, start, end time.Time, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&model.Screening{}).
		Where("hall_id = ? AND start_time < ? AND end_time > ?", hallID, end, start)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// firstConflict lấy suất chiếu chồng giờ đầu tiên để báo chi tiết cho caller
func firstConflict(tx *gorm.DB, hallID uint, start, end time.Time, excludeID uint) *model.Screening {
	var s model.Screening
	q := tx.Where("hall_id = ? AND start_time < ? AND end_time > ?", hallID, end, start)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Order("start_time ASC").First(&s).Error; err != nil {
		return nil
	}
	return &s
}

func conflictError(existing *model.Screening) *ConflictError {
	if existing == nil {
		return &ConflictError{Reason: "trùng khung giờ với suất chiếu khác trong phòng"}
	}
	return &ConflictError{Reason: fmt.Sprintf(
		"trùng khung giờ với suất chiếu %d (%s - %s)",
		existing.ID,
		existing.StartTime.Format("02/01 15:04"),
		existing.EndTime.Format("02/01 15:04"),
	)}
}

// checkScheduleWindow kiểm tra startTime nằm trong thời gian phát hành của
// phim và phải ở tương lai theo giờ địa phương của rạp
func checkScheduleWindow(movie *model.Movie, start time.Time, now time.Time, loc *time.Location) error {
	if movie.Duration <= 0 {
		return &ValidationError{Field: "movieId", Reason: "phim chưa có thời lượng hợp lệ"}
	}
	if !start.After(now) {
		return &ValidationError{Field: "startTime", Reason: "thời gian bắt đầu phải ở tương lai"}
	}
	startLocal := start.In(loc)
	startDay := time.Date(startLocal.Year(), startLocal.Month(), startLocal.Day(), 0, 0, 0, 0, loc)
	if startDay.Before(movie.DateRelease.In(loc)) {
		return &ValidationError{Field: "startTime", Reason: "suất chiếu trước ngày khởi chiếu của phim"}
	}
	if movie.DateEnd != nil && !movie.DateEnd.IsZero() && startDay.After(movie.DateEnd.In(loc)) {
		return &ValidationError{Field: "startTime", Reason: "suất chiếu sau ngày kết thúc của phim"}
	}
	return nil
}

func loadMovie(tx *gorm.DB, id uint) (*model.Movie, error) {
	var movie model.Movie
	if err := tx.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Phim", Id: id}
		}
		return nil, err
	}
	return &movie, nil
}

// loadHall lấy phòng chiếu và giữ khoá hàng cho tới hết transaction, để hai
// request lập lịch cùng phòng không thể cùng qua kiểm tra trùng giờ
func loadHall(tx *gorm.DB, id uint) (*model.CinemaHall, error) {
	var hall model.CinemaHall
	if err := lockForUpdate(tx).First(&hall, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Phòng chiếu", Id: id}
		}
		return nil, err
	}
	return &hall, nil
}

// CreateScreening tạo một suất chiếu đơn lẻ. endTime luôn được suy từ
// thời lượng phim, không nhận từ caller.
func CreateScreening(tx *gorm.DB, in model.CreateScreeningInput) (*model.Screening, error) {
	movie, err := loadMovie(tx, in.MovieId)
	if err != nil {
		return nil, err
	}
	hall, err := loadHall(tx, in.HallId)
	if err != nil {
		return nil, err
	}
	if hall.Status != "available" {
		return nil, &StateError{Reason: fmt.Sprintf("phòng chiếu %d đang %s", hall.ID, hall.Status)}
	}

	loc := utils.VenueZone()
	now := time.Now().In(loc)
	if err := checkScheduleWindow(movie, in.StartTime, now, loc); err != nil {
		return nil, err
	}

	end := in.StartTime.Add(time.Duration(movie.Duration) * time.Minute)
	conflict, err := HasConflict(tx, in.HallId, in.StartTime, end, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, conflictError(firstConflict(tx, in.HallId, in.StartTime, end, 0))
	}

	screening := model.Screening{
		PublicCode: "SC-" + utils.RandomString(6),
		MovieId:    in.MovieId,
		HallId:     in.HallId,
		StartTime:  in.StartTime,
		EndTime:    end,
		Price:      in.Price,
		Status:     model.ScreeningUpcoming,
	}
	if err := tx.Create(&screening).Error; err != nil {
		return nil, err
	}
	return &screening, nil
}

// UpdateScreening cập nhật patch lên suất chiếu. Đổi phim/phòng/giờ chỉ được
// phép khi suất còn UPCOMING; đổi giá thì không bị chặn.
func UpdateScreening(tx *gorm.DB, id uint, in model.UpdateScreeningInput) (*model.Screening, error) {
	var screening model.Screening
	if err := tx.First(&screening, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Suất chiếu", Id: id}
		}
		return nil, err
	}

	loc := utils.VenueZone()
	now := time.Now().In(loc)

	reschedule := in.MovieId != nil || in.HallId != nil || in.StartTime != nil
	if reschedule && ScreeningStatusAt(now, screening.StartTime, screening.EndTime) != model.ScreeningUpcoming {
		return nil, &StateError{Reason: "chỉ được sửa suất chiếu chưa bắt đầu"}
	}

	if in.MovieId != nil {
		screening.MovieId = *in.MovieId
	}
	if in.HallId != nil && *in.HallId != screening.HallId {
		// booking đang giữ ghế của phòng cũ, đổi phòng sẽ làm lạc ghế
		var active int64
		if err := tx.Model(&model.Booking{}).
			Where("screening_id = ? AND booking_status != ?", screening.ID, model.BookingCancelled).
			Count(&active).Error; err != nil {
			return nil, err
		}
		if active > 0 {
			return nil, &StateError{Reason: "suất chiếu đã có booking chưa huỷ, không thể đổi phòng"}
		}
		hall, err := loadHall(tx, *in.HallId)
		if err != nil {
			return nil, err
		}
		if hall.Status != "available" {
			return nil, &StateError{Reason: fmt.Sprintf("phòng chiếu %d đang %s", hall.ID, hall.Status)}
		}
		screening.HallId = *in.HallId
	}
	if in.StartTime != nil {
		screening.StartTime = *in.StartTime
	}
	if in.Price != nil {
		screening.Price = *in.Price
	}

	movie, err := loadMovie(tx, screening.MovieId)
	if err != nil {
		return nil, err
	}
	if reschedule {
		if err := checkScheduleWindow(movie, screening.StartTime, now, loc); err != nil {
			return nil, err
		}
	}
	// endTime luôn suy lại từ thời lượng phim hiện tại
	screening.EndTime = screening.StartTime.Add(time.Duration(movie.Duration) * time.Minute)

	if reschedule {
		// giữ khoá phòng hiệu lực trước khi kiểm tra trùng giờ
		if _, err := loadHall(tx, screening.HallId); err != nil {
			return nil, err
		}
		conflict, err := HasConflict(tx, screening.HallId, screening.StartTime, screening.EndTime, screening.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, conflictError(firstConflict(tx, screening.HallId, screening.StartTime, screening.EndTime, screening.ID))
		}
	}

	screening.Status = ScreeningStatusAt(now, screening.StartTime, screening.EndTime)
	if err := tx.Save(&screening).Error; err != nil {
		return nil, err
	}
	return &screening, nil
}

// DeleteScreening chỉ cho xoá suất đã kết thúc (EXPIRED)
func DeleteScreening(tx *gorm.DB, id uint) error {
	var screening model.Screening
	if err := tx.First(&screening, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Suất chiếu", Id: id}
		}
		return err
	}

	now := time.Now().In(utils.VenueZone())
	if ScreeningStatusAt(now, screening.StartTime, screening.EndTime) != model.ScreeningExpired {
		return &StateError{Reason: "chỉ được xoá suất chiếu đã kết thúc"}
	}
	return tx.Delete(&screening).Error
}

// RefreshScreeningStatuses đồng bộ cột status với trạng thái tính theo giờ.
// Idempotent: chạy lại hay chạy song song với đọc đều an toàn. So sánh theo
// thời điểm nên tham số truyền vào SQL luôn là UTC.
func RefreshScreeningStatuses(db *gorm.DB) (int64, error) {
	now := time.Now().UTC()
	var total int64

	res := db.Model(&model.Screening{}).
		Where("status != ? AND start_time <= ? AND end_time > ?", model.ScreeningInProgress, now, now).
		Update("status", model.ScreeningInProgress)
	if res.Error != nil {
		return total, res.Error
	}
	total += res.RowsAffected

	res = db.Model(&model.Screening{}).
		Where("status != ? AND end_time <= ?", model.ScreeningExpired, now).
		Update("status", model.ScreeningExpired)
	if res.Error != nil {
		return total, res.Error
	}
	total += res.RowsAffected

	return total, nil
}

var screeningScheduler *cron.Cron

// StartScreeningScheduler quét trạng thái suất chiếu mỗi phút
func StartScreeningScheduler(db *gorm.DB) {
	screeningScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := screeningScheduler.AddFunc("* * * * *", func() {
		updated, err := RefreshScreeningStatuses(db)
		if err != nil {
			log.Printf("Lỗi cập nhật trạng thái suất chiếu: %v", err)
			return
		}
		if updated > 0 {
			log.Printf("Đã cập nhật trạng thái %d suất chiếu", updated)
		}
	})
	if err != nil {
		log.Printf("Lỗi khởi tạo scheduler suất chiếu: %v", err)
		return
	}

	screeningScheduler.Start()
	log.Println("Scheduler trạng thái suất chiếu đã khởi động (mỗi phút)")
}

func StopScreeningScheduler() {
	if screeningScheduler != nil {
		screeningScheduler.Stop()
		log.Println("Scheduler trạng thái suất chiếu đã dừng")
	}
}
