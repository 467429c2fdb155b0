package helper

import (
	"fmt"
	"time"

	"cinema_chain/model"
	"cinema_chain/utils"

	"gorm.io/gorm"
)

// Giới hạn an toàn cho một yêu cầu bulk
const MaxBulkRangeDays = 92

// BulkCreateScreenings mở rộng yêu cầu lịch lặp (khoảng ngày x thứ trong
// tuần x khung giờ) thành các suất chiếu cụ thể. Chính sách all-or-nothing:
// chỉ cần một suất bị từ chối là cả lô không được tạo; danh sách từ chối kèm
// lý do được trả về để caller hiển thị. Caller chịu trách nhiệm rollback
// transaction khi hàm trả lỗi.
func BulkCreateScreenings(tx *gorm.DB, in model.BulkCreateScreeningsInput) (*model.BulkCreateResult, error) {
	loc := utils.VenueZone()

	startDate, err := time.ParseInLocation("2006-01-02", in.StartDate, loc)
	if err != nil {
		return nil, &ValidationError{Field: "startDate", Reason: "định dạng ngày phải là YYYY-MM-DD"}
	}
	endDate, err := time.ParseInLocation("2006-01-02", in.EndDate, loc)
	if err != nil {
		return nil, &ValidationError{Field: "endDate", Reason: "định dạng ngày phải là YYYY-MM-DD"}
	}
	if endDate.Before(startDate) {
		return nil, &ValidationError{Field: "endDate", Reason: "endDate phải sau startDate"}
	}
	if int(endDate.Sub(startDate).Hours()/24) > MaxBulkRangeDays {
		return nil, &ValidationError{Field: "endDate", Reason: fmt.Sprintf("khoảng ngày tối đa %d ngày", MaxBulkRangeDays)}
	}

	days := make(map[time.Weekday]bool, len(in.DaysOfWeek))
	for _, d := range in.DaysOfWeek {
		if d < 0 || d > 6 {
			return nil, &ValidationError{Field: "daysOfWeek", Reason: "thứ trong tuần phải thuộc 0..6"}
		}
		days[time.Weekday(d)] = true
	}

	movie, err := loadMovie(tx, in.MovieId)
	if err != nil {
		return nil, err
	}
	if movie.Duration <= 0 {
		return nil, &ValidationError{Field: "movieId", Reason: "phim chưa có thời lượng hợp lệ"}
	}
	hall, err := loadHall(tx, in.HallId)
	if err != nil {
		return nil, err
	}
	if hall.Status != "available" {
		return nil, &StateError{Reason: fmt.Sprintf("phòng chiếu %d đang %s", hall.ID, hall.Status)}
	}

	now := time.Now().In(loc)
	releaseDay := movie.DateRelease.In(loc)
	duration := time.Duration(movie.Duration) * time.Minute

	result := &model.BulkCreateResult{
		ByDate: map[string][]model.Screening{},
	}

	type interval struct{ start, end time.Time }
	var acceptedIntervals []interval
	var candidates []model.Screening

	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if !days[d.Weekday()] {
			continue
		}
		// Ngày trước khi phim khởi chiếu không phải candidate
		if d.Before(releaseDay) {
			continue
		}

		for _, slot := range in.ShowTimes {
			candidateStart, err := utils.CombineDateTime(d, slot, loc)
			if err != nil {
				return nil, &ValidationError{Field: "showTimes", Reason: fmt.Sprintf("khung giờ %q không hợp lệ (dùng HH:MM)", slot)}
			}
			candidateEnd := candidateStart.Add(duration)

			reject := func(reason string) {
				result.Rejected = append(result.Rejected, model.RejectedCandidate{
					StartTime: candidateStart,
					Reason:    reason,
				})
			}

			if !candidateStart.After(now) {
				reject("thời gian bắt đầu đã qua")
				continue
			}
			if movie.DateEnd != nil && !movie.DateEnd.IsZero() && d.After(movie.DateEnd.In(loc)) {
				reject("sau ngày kết thúc của phim")
				continue
			}

			conflict, err := HasConflict(tx, in.HallId, candidateStart, candidateEnd, 0)
			if err != nil {
				return nil, err
			}
			if conflict {
				reject("trùng khung giờ với suất chiếu đã có")
				continue
			}

			// Kiểm tra chồng giờ với chính các candidate đã nhận trong lô,
			// kiểm tra từng suất với DB là chưa đủ
			clash := false
			for _, iv := range acceptedIntervals {
				if iv.start.Before(candidateEnd) && iv.end.After(candidateStart) {
					clash = true
					break
				}
			}
			if clash {
				reject("trùng khung giờ với suất khác trong cùng lô")
				continue
			}

			acceptedIntervals = append(acceptedIntervals, interval{candidateStart, candidateEnd})
			candidates = append(candidates, model.Screening{
				PublicCode: "SC-" + utils.RandomString(6),
				MovieId:    in.MovieId,
				HallId:     in.HallId,
				StartTime:  candidateStart,
				EndTime:    candidateEnd,
				Price:      in.Price,
				Status:     model.ScreeningUpcoming,
			})
		}
	}

	if len(result.Rejected) > 0 {
		result.Errors = map[string][]model.RejectedCandidate{}
		for _, r := range result.Rejected {
			key := r.StartTime.In(loc).Format("2006-01-02")
			result.Errors[key] = append(result.Errors[key], r)
		}
		return result, &ConflictError{Reason: fmt.Sprintf("lô bị huỷ: %d suất không hợp lệ", len(result.Rejected))}
	}

	if len(candidates) == 0 {
		return result, nil
	}

	if err := tx.Create(&candidates).Error; err != nil {
		return nil, err
	}

	result.Accepted = candidates
	result.FirstId = candidates[0].ID
	result.LastId = candidates[len(candidates)-1].ID
	for _, s := range candidates {
		key := s.StartTime.In(loc).Format("2006-01-02")
		result.ByDate[key] = append(result.ByDate[key], s)
	}
	return result, nil
}
