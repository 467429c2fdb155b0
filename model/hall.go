package model

type HallType string

const (
	HallStandard HallType = "STANDARD"
	HallIMAX     HallType = "IMAX"
	Hall4DX      HallType = "4DX"
)

type CinemaHall struct {
	DTO
	CinemaId uint     `gorm:"not null;index" json:"cinemaId"`
	Name     string   `gorm:"not null" validate:"required" json:"name"`
	Capacity int      `gorm:"not null;default:0" json:"capacity"`
	HallType HallType `gorm:"size:20;default:STANDARD" json:"hallType"`
	Status   string   `gorm:"not null;default:available" json:"status"` // available, maintenance, closed

	Cinema Cinema `gorm:"foreignKey:CinemaId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"cinema,omitempty"`
	Seats  []Seat `gorm:"foreignKey:HallId" json:"seats,omitempty"`
}

type CreateHallInput struct {
	CinemaId uint     `json:"cinemaId" validate:"required,gt=0"`
	Name     string   `json:"name" validate:"required"`
	HallType HallType `json:"hallType" validate:"omitempty,oneof=STANDARD IMAX 4DX"`
}

type UpdateHallInput struct {
	Name     *string   `json:"name"`
	HallType *HallType `json:"hallType" validate:"omitempty,oneof=STANDARD IMAX 4DX"`
	Status   *string   `json:"status" validate:"omitempty,oneof=available maintenance closed"`
}

// GenerateSeatsInput sinh sơ đồ ghế theo số hàng x số ghế mỗi hàng
type GenerateSeatsInput struct {
	Rows         int    `json:"rows" validate:"required,gt=0"`
	SeatsPerRow  int    `json:"seatsPerRow" validate:"required,gt=0"`
	SeatTypeRule string `json:"seatTypeRule" validate:"omitempty,oneof=default all-standard all-vip"`
}

// RegenerateSeatsInput sinh lại sơ đồ ghế từ sức chứa mục tiêu
type RegenerateSeatsInput struct {
	Capacity     int    `json:"capacity" validate:"required,gt=0"`
	SeatTypeRule string `json:"seatTypeRule" validate:"omitempty,oneof=default all-standard all-vip"`
}
