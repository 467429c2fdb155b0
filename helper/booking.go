package helper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema_chain/model"
	"cinema_chain/utils"

	"gorm.io/gorm"
)

// Một booking giữ tối đa 8 ghế
const MaxSeatsPerBooking = 8

// isUniqueViolation nhận diện lỗi vi phạm unique index qua cả hai driver
// (Postgres báo "duplicate key", SQLite báo "UNIQUE constraint failed")
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// bookedSeatIds trả về tập ghế đang nằm trong booking chưa huỷ của suất chiếu
func bookedSeatIds(tx *gorm.DB, screeningID uint) (map[uint]bool, error) {
	var ids []uint
	if err := tx.Model(&model.BookingSeat{}).
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("booking_seats.screening_id = ? AND bookings.booking_status != ?", screeningID, model.BookingCancelled).
		Pluck("booking_seats.seat_id", &ids).Error; err != nil {
		return nil, err
	}
	booked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		booked[id] = true
	}
	return booked, nil
}

// checkAdjacency áp quy tắc "không bỏ kẹt ghế đơn" theo từng hàng: sau khi
// chọn, không được tồn tại ghế trống chưa bán có cả hai ghế kề (cùng hàng)
// đều bị chiếm mà ít nhất một trong hai thuộc lượt chọn này. Khe trống có
// sẵn do các booking trước để lại thì không bị tính.
func checkAdjacency(hallSeats []model.Seat, booked, selected map[uint]bool) error {
	type rowSeats map[int]model.Seat
	rows := map[string]rowSeats{}
	for _, s := range hallSeats {
		if rows[s.Row] == nil {
			rows[s.Row] = rowSeats{}
		}
		rows[s.Row][s.Number] = s
	}

	occupied := func(s model.Seat, ok bool) bool {
		return ok && (booked[s.ID] || selected[s.ID])
	}

	for _, byNumber := range rows {
		touched := false
		for _, s := range byNumber {
			if selected[s.ID] {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}

		for _, s := range byNumber {
			if booked[s.ID] || selected[s.ID] {
				continue
			}
			left, lok := byNumber[s.Number-1]
			right, rok := byNumber[s.Number+1]
			if !occupied(left, lok) || !occupied(right, rok) {
				continue
			}
			if selected[left.ID] || selected[right.ID] {
				return &AdjacencyError{Row: s.Row, Number: s.Number}
			}
		}
	}
	return nil
}

// AllocateSeats gán bộ ghế cho một booking mới của suất chiếu. Kiểm tra ghế
// còn trống và insert bản ghi phải nằm trong cùng transaction của caller để
// hai booking song song không thể cùng giữ một ghế.
func AllocateSeats(tx *gorm.DB, screeningID, userID uint, seatIDs []uint) (*model.Booking, error) {
	if len(seatIDs) == 0 {
		return nil, &ValidationError{Field: "seatIds", Reason: "phải chọn ít nhất một ghế"}
	}
	if len(seatIDs) > MaxSeatsPerBooking {
		return nil, &CapacityError{Reason: fmt.Sprintf("một booking giữ tối đa %d ghế", MaxSeatsPerBooking)}
	}

	selected := make(map[uint]bool, len(seatIDs))
	for _, id := range seatIDs {
		if selected[id] {
			return nil, &ValidationError{Field: "seatIds", Reason: fmt.Sprintf("ghế %d bị lặp trong yêu cầu", id)}
		}
		selected[id] = true
	}

	// khoá hàng suất chiếu để các lượt giữ ghế cùng suất tuần tự hoá với nhau
	var screening model.Screening
	if err := lockForUpdate(tx).First(&screening, screeningID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Suất chiếu", Id: screeningID}
		}
		return nil, err
	}

	now := utils.VenueNow()
	if ScreeningStatusAt(now, screening.StartTime, screening.EndTime) != model.ScreeningUpcoming {
		return nil, &StateError{Reason: "suất chiếu đã bắt đầu, không nhận booking mới"}
	}

	var hallSeats []model.Seat
	if err := tx.Where("hall_id = ?", screening.HallId).Find(&hallSeats).Error; err != nil {
		return nil, err
	}
	inHall := make(map[uint]bool, len(hallSeats))
	for _, s := range hallSeats {
		inHall[s.ID] = true
	}
	for _, id := range seatIDs {
		if !inHall[id] {
			return nil, &ValidationError{Field: "seatIds", Reason: fmt.Sprintf("ghế %d không thuộc phòng của suất chiếu", id)}
		}
	}

	booked, err := bookedSeatIds(tx, screeningID)
	if err != nil {
		return nil, err
	}
	var taken []uint
	for _, id := range seatIDs {
		if booked[id] {
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		return nil, &ConflictError{
			Reason:  fmt.Sprintf("%d ghế đã có người đặt", len(taken)),
			SeatIds: taken,
		}
	}

	if err := checkAdjacency(hallSeats, booked, selected); err != nil {
		return nil, err
	}

	booking := model.Booking{
		PublicCode:    "BK-" + utils.RandomString(8),
		UserId:        userID,
		ScreeningId:   screeningID,
		BookingStatus: model.BookingPending,
		PaymentStatus: model.PaymentPending,
		TotalAmount:   float64(len(seatIDs)) * screening.Price,
	}
	if err := tx.Create(&booking).Error; err != nil {
		return nil, err
	}

	bookingSeats := make([]model.BookingSeat, 0, len(seatIDs))
	for _, id := range seatIDs {
		bookingSeats = append(bookingSeats, model.BookingSeat{
			BookingId:   booking.ID,
			SeatId:      id,
			ScreeningId: screeningID,
		})
	}
	if err := tx.Create(&bookingSeats).Error; err != nil {
		// booking khác vừa commit cùng ghế giữa lúc kiểm tra và insert
		if isUniqueViolation(err) {
			return nil, &ConflictError{Reason: "ghế vừa bị booking khác giữ", SeatIds: seatIDs}
		}
		return nil, err
	}
	booking.Seats = bookingSeats

	return &booking, nil
}

// Bảng chuyển trạng thái đóng. Ghi lại cùng trạng thái là no-op hợp lệ.
var bookingTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCancelled},
	model.BookingCancelled: {},
}

var paymentTransitions = map[model.PaymentStatus][]model.PaymentStatus{
	model.PaymentPending:   {model.PaymentCompleted, model.PaymentFailed},
	model.PaymentFailed:    {model.PaymentPending, model.PaymentCompleted},
	model.PaymentCompleted: {},
}

func transitionAllowed[T comparable](table map[T][]T, from, to T) bool {
	if from == to {
		return true
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateBookingStatus áp patch trạng thái lên booking theo bảng chuyển đóng.
// Lần đầu payment sang COMPLETED thì stamp PaidAt; các lần sau không ghi đè.
func UpdateBookingStatus(tx *gorm.DB, id uint, in model.UpdateBookingStatusInput) (*model.Booking, error) {
	var booking model.Booking
	if err := tx.Preload("Seats").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Booking", Id: id}
		}
		return nil, err
	}

	now := time.Now()

	if in.BookingStatus != nil {
		next, ok := model.NormalizeBookingStatus(*in.BookingStatus)
		if !ok {
			return nil, &ValidationError{Field: "bookingStatus", Reason: fmt.Sprintf("trạng thái %q không hợp lệ", *in.BookingStatus)}
		}
		if !transitionAllowed(bookingTransitions, booking.BookingStatus, next) {
			return nil, &StateError{Reason: fmt.Sprintf("không thể chuyển booking %s -> %s", booking.BookingStatus, next)}
		}
		if next == model.BookingCancelled && booking.BookingStatus != model.BookingCancelled {
			booking.CancelledAt = &now
		}
		booking.BookingStatus = next
	}

	if in.PaymentStatus != nil {
		next, ok := model.NormalizePaymentStatus(*in.PaymentStatus)
		if !ok {
			return nil, &ValidationError{Field: "paymentStatus", Reason: fmt.Sprintf("trạng thái %q không hợp lệ", *in.PaymentStatus)}
		}
		if !transitionAllowed(paymentTransitions, booking.PaymentStatus, next) {
			return nil, &StateError{Reason: fmt.Sprintf("không thể chuyển payment %s -> %s", booking.PaymentStatus, next)}
		}
		if next == model.PaymentCompleted && booking.BookingStatus == model.BookingCancelled {
			return nil, &StateError{Reason: "booking đã huỷ, không thể hoàn tất thanh toán"}
		}
		if next == model.PaymentCompleted && booking.PaidAt == nil {
			booking.PaidAt = &now
		}
		booking.PaymentStatus = next
	}

	if in.PaymentMethod != nil {
		booking.PaymentMethod = *in.PaymentMethod
	}
	if in.PaymentReference != nil {
		booking.PaymentReference = *in.PaymentReference
	}
	if in.TransactionId != nil {
		booking.TransactionId = *in.TransactionId
	}

	if err := tx.Save(&booking).Error; err != nil {
		return nil, err
	}

	// huỷ thì xoá hẳn bản ghi giữ ghế để unique index (screening, seat)
	// nhả slot cho người đặt sau
	if booking.BookingStatus == model.BookingCancelled {
		if err := tx.Unscoped().
			Where("booking_id = ?", booking.ID).
			Delete(&model.BookingSeat{}).Error; err != nil {
			return nil, err
		}
	}
	return &booking, nil
}

// CancelBooking là đường tắt qua máy trạng thái
func CancelBooking(tx *gorm.DB, id uint) (*model.Booking, error) {
	status := string(model.BookingCancelled)
	return UpdateBookingStatus(tx, id, model.UpdateBookingStatusInput{BookingStatus: &status})
}
