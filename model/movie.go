package model

import (
	"cinema_chain/utils"
)

type Movie struct {
	DTO
	Title       string            `gorm:"not null;index" validate:"required" json:"title"`
	Genre       string            `gorm:"index" json:"genre"`
	Duration    int               `gorm:"not null" validate:"required,gt=0" json:"duration"` // thời lượng phim (phút)
	Language    string            `json:"language"`
	Description string            `gorm:"type:text" json:"description"`
	Slug        string            `gorm:"uniqueIndex" json:"slug"`
	DateRelease utils.CustomDate  `gorm:"type:date;not null" validate:"required" json:"dateRelease"`
	DateEnd     *utils.CustomDate `gorm:"type:date" json:"dateEnd"`
	StatusMovie string            `gorm:"not null;default:COMING_SOON" json:"statusMovie"` // COMING_SOON, NOW_SHOWING, ENDED

	Screenings []Screening `gorm:"foreignKey:MovieId" json:"-"`
}

type CreateMovieInput struct {
	Title       string            `json:"title" validate:"required,min=1,max=255"`
	Genre       string            `json:"genre"`
	Duration    int               `json:"duration" validate:"required,gt=0"`
	Language    string            `json:"language"`
	Description string            `json:"description"`
	DateRelease utils.CustomDate  `json:"dateRelease" validate:"required"`
	DateEnd     *utils.CustomDate `json:"dateEnd"`
}

type UpdateMovieInput struct {
	Title       *string           `json:"title"`
	Genre       *string           `json:"genre"`
	Duration    *int              `json:"duration" validate:"omitempty,gt=0"`
	Language    *string           `json:"language"`
	Description *string           `json:"description"`
	DateRelease *utils.CustomDate `json:"dateRelease"`
	DateEnd     *utils.CustomDate `json:"dateEnd"`
}
