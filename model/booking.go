package model

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// NormalizeBookingStatus đưa status tự do về enum đóng
func NormalizeBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case BookingPending:
		return BookingPending, true
	case BookingConfirmed:
		return BookingConfirmed, true
	case BookingCancelled:
		return BookingCancelled, true
	}
	return "", false
}

// NormalizePaymentStatus đưa status tự do về enum đóng; alias lịch sử
// "Paid" được chuẩn hoá thành COMPLETED
func NormalizePaymentStatus(s string) (PaymentStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(PaymentPending):
		return PaymentPending, true
	case string(PaymentCompleted), "PAID":
		return PaymentCompleted, true
	case string(PaymentFailed):
		return PaymentFailed, true
	}
	return "", false
}

type Booking struct {
	DTO
	PublicCode       string        `gorm:"size:20;uniqueIndex" json:"publicCode"`
	UserId           uint          `gorm:"not null;index" json:"userId"`
	ScreeningId      uint          `gorm:"not null;index" json:"screeningId"`
	BookingStatus    BookingStatus `gorm:"size:20;not null;default:PENDING" json:"bookingStatus"`
	PaymentStatus    PaymentStatus `gorm:"size:20;not null;default:PENDING" json:"paymentStatus"`
	PaymentMethod    string        `json:"paymentMethod"`
	PaymentReference string        `json:"paymentReference"`
	TransactionId    string        `json:"transactionId"`
	TotalAmount      float64       `json:"totalAmount"`
	PaidAt           *time.Time    `json:"paidAt,omitempty"` // chỉ stamp một lần
	CancelledAt      *time.Time    `json:"cancelledAt,omitempty"`

	Screening Screening     `gorm:"foreignKey:ScreeningId" json:"screening,omitempty"`
	Seats     []BookingSeat `gorm:"foreignKey:BookingId" json:"seats,omitempty"`
}

// BookingSeat giữ một ghế của một suất chiếu. Unique index (screening, seat)
// là chốt chặn cuối cùng: hai booking song song không thể cùng commit một ghế.
// Khi booking huỷ, bản ghi bị xoá hẳn để nhả slot trong index.
type BookingSeat struct {
	DTO
	BookingId   uint `gorm:"not null;index" json:"bookingId"`
	SeatId      uint `gorm:"not null;uniqueIndex:idx_screening_seat" json:"seatId"`
	ScreeningId uint `gorm:"not null;uniqueIndex:idx_screening_seat" json:"screeningId"`

	Booking Booking `gorm:"foreignKey:BookingId" json:"-"`
	Seat    Seat    `gorm:"foreignKey:SeatId" json:"seat,omitempty"`
}

type CreateBookingInput struct {
	ScreeningId uint   `json:"screeningId" validate:"required,gt=0"`
	SeatIds     []uint `json:"seatIds" validate:"required,min=1,dive,gt=0"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type UpdateBookingStatusInput struct {
	BookingStatus    *string `json:"bookingStatus"`
	PaymentStatus    *string `json:"paymentStatus"`
	PaymentMethod    *string `json:"paymentMethod"`
	PaymentReference *string `json:"paymentReference"`
	TransactionId    *string `json:"transactionId"`
}

type FilterBookingInput struct {
	Pagination
	ScreeningId   uint   `query:"screeningId" validate:"omitempty,gt=0"`
	BookingStatus string `query:"bookingStatus"`
}
