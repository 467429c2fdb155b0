package model

type Cinema struct {
	DTO
	Name   string `gorm:"not null" validate:"required" json:"name"`
	Slug   string `gorm:"uniqueIndex" json:"slug"`
	City   string `gorm:"index" json:"city"`
	Active bool   `gorm:"default:true" json:"active"`

	Halls []CinemaHall `gorm:"foreignKey:CinemaId" json:"halls,omitempty"`
}

type CreateCinemaInput struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	City string `json:"city" validate:"required"`
}

type UpdateCinemaInput struct {
	Name   *string `json:"name"`
	City   *string `json:"city"`
	Active *bool   `json:"active"`
}
