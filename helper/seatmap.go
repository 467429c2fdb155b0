package helper

import (
	"errors"
	"math"
	"time"

	"cinema_chain/model"

	"gorm.io/gorm"
)

// SeatTypeRule quyết định loại ghế theo chỉ số hàng (0-based). Quy tắc là
// tham số để rạp thay layout mà không sửa lõi.
type SeatTypeRule func(rowIdx int) model.SeatType

// DefaultSeatTypeRule: 4 hàng đầu STANDARD, các hàng sau VIP
func DefaultSeatTypeRule(rowIdx int) model.SeatType {
	if rowIdx < 4 {
		return model.SeatStandard
	}
	return model.SeatVIP
}

// RowLabel đánh nhãn hàng kiểu bảng tính: A..Z, AA..AZ, BA..
func RowLabel(rowIdx int) string {
	label := ""
	n := rowIdx
	for {
		label = string(rune('A'+n%26)) + label
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return label
}

// GridForCapacity chọn lưới gần vuông cho sức chứa C:
// rows = ceil(sqrt(C)), seatsPerRow = ceil(C/rows), hàng cuối có thể thiếu
func GridForCapacity(capacity int) (rows, seatsPerRow int) {
	if capacity <= 0 {
		return 0, 0
	}
	rows = int(math.Ceil(math.Sqrt(float64(capacity))))
	seatsPerRow = int(math.Ceil(float64(capacity) / float64(rows)))
	return rows, seatsPerRow
}

// BuildSeatGrid dựng danh sách ghế row-major; capacity > 0 thì dừng đúng
// capacity ghế, ngược lại lấp đầy rows x seatsPerRow
func BuildSeatGrid(hallID uint, rows, seatsPerRow, capacity int, rule SeatTypeRule) []model.Seat {
	if rule == nil {
		rule = DefaultSeatTypeRule
	}
	if capacity <= 0 {
		capacity = rows * seatsPerRow
	}

	seats := make([]model.Seat, 0, capacity)
	for r := 0; r < rows && len(seats) < capacity; r++ {
		label := RowLabel(r)
		kind := rule(r)
		for n := 1; n <= seatsPerRow && len(seats) < capacity; n++ {
			seats = append(seats, model.Seat{
				HallId:   hallID,
				Row:      label,
				Number:   n,
				SeatType: kind,
			})
		}
	}
	return seats
}

// checkSeatMapMutable là điều kiện an toàn cho regenerate/clear: phòng không
// còn suất chiếu tương lai và không ghế nào đang nằm trong booking chưa huỷ
func checkSeatMapMutable(tx *gorm.DB, hallID uint) error {
	// tham số thời gian trong SQL luôn là UTC
	now := time.Now().UTC()

	var upcoming int64
	if err := tx.Model(&model.Screening{}).
		Where("hall_id = ? AND start_time > ?", hallID, now).
		Count(&upcoming).Error; err != nil {
		return err
	}
	if upcoming > 0 {
		return &StateError{Reason: "phòng còn suất chiếu chưa diễn ra, không thể sửa sơ đồ ghế"}
	}

	var booked int64
	if err := tx.Model(&model.BookingSeat{}).
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Joins("JOIN seats ON seats.id = booking_seats.seat_id").
		Where("seats.hall_id = ? AND bookings.booking_status != ?", hallID, model.BookingCancelled).
		Count(&booked).Error; err != nil {
		return err
	}
	if booked > 0 {
		return &StateError{Reason: "ghế của phòng đang nằm trong booking chưa huỷ, không thể sửa sơ đồ ghế"}
	}
	return nil
}

// GenerateSeats sinh sơ đồ ghế lần đầu cho phòng trống ghế; sau khi sinh,
// capacity của phòng luôn bằng số ghế thực
func GenerateSeats(tx *gorm.DB, hallID uint, rows, seatsPerRow int, rule SeatTypeRule) ([]model.Seat, error) {
	hall, err := loadHall(tx, hallID)
	if err != nil {
		return nil, err
	}
	if rows <= 0 || seatsPerRow <= 0 {
		return nil, &ValidationError{Field: "rows", Reason: "số hàng và số ghế mỗi hàng phải > 0"}
	}

	var existing int64
	if err := tx.Model(&model.Seat{}).Where("hall_id = ?", hallID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &ValidationError{Field: "hallId", Reason: "phòng đã có sơ đồ ghế"}
	}

	seats := BuildSeatGrid(hallID, rows, seatsPerRow, 0, rule)
	if err := tx.Create(&seats).Error; err != nil {
		return nil, err
	}

	hall.Capacity = len(seats)
	if err := tx.Model(hall).Update("capacity", hall.Capacity).Error; err != nil {
		return nil, err
	}
	return seats, nil
}

// RegenerateSeats xoá toàn bộ ghế cũ và dựng lại lưới từ sức chứa mới.
// Phá huỷ: ghế cũ bị xoá hẳn, vì vậy phải qua checkSeatMapMutable trước.
func RegenerateSeats(tx *gorm.DB, hallID uint, newCapacity int, rule SeatTypeRule) ([]model.Seat, error) {
	hall, err := loadHall(tx, hallID)
	if err != nil {
		return nil, err
	}
	if newCapacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Reason: "sức chứa phải > 0"}
	}
	if err := checkSeatMapMutable(tx, hallID); err != nil {
		return nil, err
	}

	if err := tx.Unscoped().Where("hall_id = ?", hallID).Delete(&model.Seat{}).Error; err != nil {
		return nil, err
	}

	rows, perRow := GridForCapacity(newCapacity)
	seats := BuildSeatGrid(hallID, rows, perRow, newCapacity, rule)
	if err := tx.Create(&seats).Error; err != nil {
		return nil, err
	}

	hall.Capacity = len(seats)
	if err := tx.Model(hall).Update("capacity", hall.Capacity).Error; err != nil {
		return nil, err
	}
	return seats, nil
}

// ClearSeats xoá sơ đồ ghế và đưa capacity về 0, trả về số ghế đã xoá
func ClearSeats(tx *gorm.DB, hallID uint) (int64, error) {
	hall, err := loadHall(tx, hallID)
	if err != nil {
		return 0, err
	}
	if err := checkSeatMapMutable(tx, hallID); err != nil {
		return 0, err
	}

	res := tx.Unscoped().Where("hall_id = ?", hallID).Delete(&model.Seat{})
	if res.Error != nil {
		return 0, res.Error
	}
	if err := tx.Model(hall).Update("capacity", 0).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// SeatTypeRuleFromName ánh xạ tên rule từ input sang hàm; dùng cho handler
func SeatTypeRuleFromName(name string) (SeatTypeRule, error) {
	switch name {
	case "", "default":
		return DefaultSeatTypeRule, nil
	case "all-standard":
		return func(int) model.SeatType { return model.SeatStandard }, nil
	case "all-vip":
		return func(int) model.SeatType { return model.SeatVIP }, nil
	default:
		return nil, errors.New("unknown seat type rule: " + name)
	}
}
