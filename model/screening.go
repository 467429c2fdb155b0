package model

import "time"

type ScreeningStatus string

const (
	ScreeningUpcoming   ScreeningStatus = "UPCOMING"
	ScreeningInProgress ScreeningStatus = "IN_PROGRESS"
	ScreeningExpired    ScreeningStatus = "EXPIRED"
)

type Screening struct {
	DTO
	PublicCode string          `gorm:"size:16;uniqueIndex" json:"publicCode"`
	MovieId    uint            `gorm:"not null;index" json:"movieId"`
	HallId     uint            `gorm:"not null;index" json:"hallId"`
	StartTime  time.Time       `gorm:"not null;index" json:"startTime"`
	EndTime    time.Time       `gorm:"not null" json:"endTime"` // luôn = startTime + movie.Duration
	Price      float64         `gorm:"not null" json:"price"`
	Status     ScreeningStatus `gorm:"size:20;not null;default:UPCOMING" json:"status"`

	Movie Movie      `gorm:"foreignKey:MovieId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"movie,omitempty"`
	Hall  CinemaHall `gorm:"foreignKey:HallId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"hall,omitempty"`

	Bookings []Booking `gorm:"foreignKey:ScreeningId" json:"-"`
}

type CreateScreeningInput struct {
	MovieId   uint      `json:"movieId" validate:"required,gt=0"`
	HallId    uint      `json:"hallId" validate:"required,gt=0"`
	StartTime time.Time `json:"startTime" validate:"required"`
	Price     float64   `json:"price" validate:"required,gt=0"`
}

type UpdateScreeningInput struct {
	MovieId   *uint      `json:"movieId"`
	HallId    *uint      `json:"hallId"`
	StartTime *time.Time `json:"startTime"`
	Price     *float64   `json:"price" validate:"omitempty,gt=0"`
}

// BulkCreateScreeningsInput mô tả yêu cầu tạo lịch lặp: khoảng ngày, các thứ
// trong tuần (0=Chủ nhật .. 6=Thứ bảy) và các khung giờ "15:04"
type BulkCreateScreeningsInput struct {
	MovieId    uint     `json:"movieId" validate:"required,gt=0"`
	HallId     uint     `json:"hallId" validate:"required,gt=0"`
	StartDate  string   `json:"startDate" validate:"required"` // YYYY-MM-DD
	EndDate    string   `json:"endDate" validate:"required"`
	DaysOfWeek []int    `json:"daysOfWeek" validate:"required,min=1,dive,gte=0,lte=6"`
	ShowTimes  []string `json:"showTimes" validate:"required,min=1,dive"` // ["10:00", "18:30"]
	Price      float64  `json:"price" validate:"required,gt=0"`
}

type FilterScreeningInput struct {
	Pagination
	MovieId   uint   `query:"movieId" validate:"omitempty,gt=0"`
	HallId    uint   `query:"hallId" validate:"omitempty,gt=0"`
	CinemaId  uint   `query:"cinemaId" validate:"omitempty,gt=0"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Status    string `query:"status" validate:"omitempty,oneof=UPCOMING IN_PROGRESS EXPIRED"`
}

// RejectedCandidate là một suất bị từ chối trong bulk create, kèm lý do
type RejectedCandidate struct {
	StartTime time.Time `json:"startTime"`
	Reason    string    `json:"reason"`
}

// BulkCreateResult gom kết quả theo ngày cho caller hiển thị; FirstId/LastId
// là khoảng ID (bao gồm hai đầu) của lô suất chiếu vừa tạo
type BulkCreateResult struct {
	Accepted []Screening                    `json:"accepted"`
	Rejected []RejectedCandidate            `json:"rejected"`
	ByDate   map[string][]Screening         `json:"byDate"`
	Errors   map[string][]RejectedCandidate `json:"errorsByDate,omitempty"`
	FirstId  uint                           `json:"firstId,omitempty"`
	LastId   uint                           `json:"lastId,omitempty"`
}
