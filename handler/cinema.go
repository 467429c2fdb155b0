package handler

import (
	"errors"
	"strings"

	"cinema_chain/constants"
	"cinema_chain/database"
	"cinema_chain/helper"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type FilterCinemaInput struct {
	model.Pagination
	SearchKey string `query:"searchKey"`
	City      string `query:"city"`
}

type CinemaWithHallCount struct {
	model.Cinema
	HallCount int64 `gorm:"column:hall_count" json:"hallCount"`
}

func GetCinemas(c *fiber.Ctx) error {
	filterInput := new(FilterCinemaInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	baseQuery := db.Model(&model.Cinema{}).
		Select("cinemas.*, COALESCE(COUNT(DISTINCT cinema_halls.id), 0) AS hall_count").
		Joins("LEFT JOIN cinema_halls ON cinema_halls.cinema_id = cinemas.id").
		Where("cinemas.active = ?", true)

	if filterInput.SearchKey != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(filterInput.SearchKey)) + "%"
		baseQuery = baseQuery.Where(
			db.Where("LOWER(cinemas.name) LIKE ?", search).Or("LOWER(cinemas.city) LIKE ?", search),
		)
	}
	if filterInput.City != "" {
		baseQuery = baseQuery.Where("LOWER(cinemas.city) LIKE ?", "%"+strings.ToLower(filterInput.City)+"%")
	}

	var totalCount int64
	countQuery := baseQuery.Session(&gorm.Session{})
	if err := countQuery.Group("cinemas.id").Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var cinemas []CinemaWithHallCount
	if err := utils.ApplyPagination(baseQuery.Group("cinemas.id"), filterInput.Limit, filterInput.Page).
		Order("cinemas.id DESC").
		Find(&cinemas).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       cinemas,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetCinemaById(c *fiber.Ctx) error {
	id, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	var cinema model.Cinema
	if err := database.DB.Preload("Halls").First(&cinema, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cinema)
}

func CreateCinema(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateCinema").(model.CreateCinemaInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	db := database.DB
	var cinema model.Cinema
	if err := copier.Copy(&cinema, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	cinema.Slug = helper.GenerateUniqueCinemaSlug(db, cinema.Name)
	cinema.Active = true

	if err := db.Create(&cinema).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, cinema)
}

func EditCinema(c *fiber.Ctx) error {
	id, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	input, ok := c.Locals("inputEditCinema").(model.UpdateCinemaInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	db := database.DB
	var cinema model.Cinema
	if err := db.First(&cinema, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if input.Name != nil {
		cinema.Name = *input.Name
		cinema.Slug = helper.GenerateUniqueCinemaSlug(db, cinema.Name)
	}
	if input.City != nil {
		cinema.City = *input.City
	}
	if input.Active != nil {
		cinema.Active = *input.Active
	}

	if err := db.Save(&cinema).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_EDIT, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cinema)
}
