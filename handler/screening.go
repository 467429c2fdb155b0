package handler

import (
	"errors"
	"time"

	"cinema_chain/constants"
	"cinema_chain/database"
	"cinema_chain/helper"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetScreenings(c *fiber.Ctx) error {
	filterInput := new(model.FilterScreeningInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	loc := utils.VenueZone()
	query := db.Model(&model.Screening{})

	if filterInput.MovieId > 0 {
		query = query.Where("screenings.movie_id = ?", filterInput.MovieId)
	}
	if filterInput.HallId > 0 {
		query = query.Where("screenings.hall_id = ?", filterInput.HallId)
	}
	if filterInput.CinemaId > 0 {
		query = query.
			Joins("JOIN cinema_halls ON cinema_halls.id = screenings.hall_id").
			Where("cinema_halls.cinema_id = ?", filterInput.CinemaId)
	}
	if filterInput.StartDate != "" {
		day, err := time.ParseInLocation("2006-01-02", filterInput.StartDate, loc)
		if err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "startDate sai định dạng (YYYY-MM-DD)", err, "startDate")
		}
		query = query.Where("screenings.start_time >= ?", day)
	}
	if filterInput.EndDate != "" {
		day, err := time.ParseInLocation("2006-01-02", filterInput.EndDate, loc)
		if err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "endDate sai định dạng (YYYY-MM-DD)", err, "endDate")
		}
		query = query.Where("screenings.start_time < ?", day.AddDate(0, 0, 1))
	}
	if filterInput.Status != "" {
		// lọc theo thời gian thực thay vì cột status có thể trễ một nhịp quét;
		// tham số thời gian trong SQL luôn là UTC
		now := time.Now().UTC()
		switch model.ScreeningStatus(filterInput.Status) {
		case model.ScreeningUpcoming:
			query = query.Where("screenings.start_time > ?", now)
		case model.ScreeningInProgress:
			query = query.Where("screenings.start_time <= ? AND screenings.end_time > ?", now, now)
		case model.ScreeningExpired:
			query = query.Where("screenings.end_time <= ?", now)
		}
	}

	var totalCount int64
	if err := query.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var screenings []model.Screening
	if err := utils.ApplyPagination(query, filterInput.Limit, filterInput.Page).
		Preload("Movie").
		Preload("Hall").
		Order("screenings.start_time ASC").
		Find(&screenings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	// status trả về luôn tính theo giờ hiện tại
	now := time.Now().In(loc)
	for i := range screenings {
		screenings[i].Status = helper.ScreeningStatusAt(now, screenings[i].StartTime, screenings[i].EndTime)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       screenings,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetScreeningById(c *fiber.Ctx) error {
	id, ok := c.Locals("screeningId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	var screening model.Screening
	if err := database.DB.Preload("Movie").Preload("Hall").First(&screening, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	now := utils.VenueNow()
	screening.Status = helper.ScreeningStatusAt(now, screening.StartTime, screening.EndTime)
	return utils.SuccessResponse(c, fiber.StatusOK, screening)
}

func CreateScreening(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateScreening").(model.CreateScreeningInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	screening, err := helper.CreateScreening(tx, input)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, screening)
}

func EditScreening(c *fiber.Ctx) error {
	id, ok := c.Locals("screeningId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	input, ok := c.Locals("inputEditScreening").(model.UpdateScreeningInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	screening, err := helper.UpdateScreening(tx, id, input)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_EDIT, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, screening)
}

func DeleteScreening(c *fiber.Ctx) error {
	id, ok := c.Locals("screeningId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	if err := helper.DeleteScreening(tx, id); err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": id})
}

// BulkCreateScreenings tạo hàng loạt suất chiếu theo lịch lặp. Lô chỉ commit
// khi mọi suất đều hợp lệ, có suất lỗi thì trả chi tiết từng suất bị từ chối.
func BulkCreateScreenings(c *fiber.Ctx) error {
	input, ok := c.Locals("bulkInput").(model.BulkCreateScreeningsInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	result, err := helper.BulkCreateScreenings(tx, input)
	if err != nil {
		tx.Rollback()
		var conflictErr *helper.ConflictError
		if errors.As(err, &conflictErr) && result != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"status":  "error",
				"message": conflictErr.Reason,
				"data":    result,
			})
		}
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, result)
}

// RefreshScreeningStatuses cho phép gọi tay thay vì chờ cron quét
func RefreshScreeningStatuses(c *fiber.Ctx) error {
	_, isAdmin, isManager := helper.GetInfoAccountFromToken(c)
	if !isAdmin && !isManager {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not permission"))
	}

	updated, err := helper.RefreshScreeningStatuses(database.DB)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"updated": updated})
}
