package model

type SeatType string

const (
	SeatStandard SeatType = "STANDARD"
	SeatVIP      SeatType = "VIP"
)

type Seat struct {
	DTO
	HallId   uint     `gorm:"not null;uniqueIndex:idx_hall_row_number" json:"hallId"`
	Row      string   `gorm:"column:seat_row;not null;size:4;uniqueIndex:idx_hall_row_number" json:"row"` // A..Z, AA..
	Number   int      `gorm:"not null;uniqueIndex:idx_hall_row_number" json:"number"`
	SeatType SeatType `gorm:"size:20;not null;default:STANDARD" json:"seatType"`

	Hall CinemaHall `gorm:"foreignKey:HallId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
