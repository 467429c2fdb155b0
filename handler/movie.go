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

type FilterMovieInput struct {
	model.Pagination
	SearchKey   string `query:"searchKey"`
	StatusMovie string `query:"statusMovie" validate:"omitempty,oneof=COMING_SOON NOW_SHOWING ENDED"`
}

func GetMovies(c *fiber.Ctx) error {
	filterInput := new(FilterMovieInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	query := db.Model(&model.Movie{})

	if filterInput.SearchKey != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(filterInput.SearchKey)) + "%"
		query = query.Where(
			db.Where("LOWER(title) LIKE ?", search).Or("LOWER(genre) LIKE ?", search),
		)
	}
	if filterInput.StatusMovie != "" {
		query = query.Where("status_movie = ?", filterInput.StatusMovie)
	}

	var totalCount int64
	if err := query.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var movies []model.Movie
	if err := utils.ApplyPagination(query, filterInput.Limit, filterInput.Page).
		Order("id DESC").Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       movies,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetMovieById(c *fiber.Ctx) error {
	id, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	var movie model.Movie
	if err := database.DB.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func CreateMovie(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateMovie").(model.CreateMovieInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	db := database.DB
	var movie model.Movie
	if err := copier.Copy(&movie, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	movie.Slug = helper.GenerateUniqueMovieSlug(db, movie.Title)

	if err := db.Create(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, movie)
}

func EditMovie(c *fiber.Ctx) error {
	id, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	input, ok := c.Locals("inputEditMovie").(model.UpdateMovieInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	db := database.DB
	var movie model.Movie
	if err := db.First(&movie, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := copier.CopyWithOption(&movie, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_EDIT, err)
	}
	if input.Title != nil {
		movie.Slug = helper.GenerateUniqueMovieSlug(db, *input.Title)
	}

	if err := db.Save(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_EDIT, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func DeleteMovie(c *fiber.Ctx) error {
	id, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	_, isAdmin, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	db := database.DB
	// Không xoá phim còn suất chiếu
	var screeningCount int64
	if err := db.Model(&model.Screening{}).Where("movie_id = ?", id).Count(&screeningCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if screeningCount > 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Không thể xoá phim vì còn suất chiếu liên quan", nil)
	}

	if err := db.Delete(&model.Movie{}, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": id})
}
