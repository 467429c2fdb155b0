package handler

import (
	"errors"
	"time"

	"cinema_chain/constants"
	"cinema_chain/database"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type FilterHallInput struct {
	model.Pagination
	CinemaId uint   `query:"cinemaId" validate:"omitempty,gt=0"`
	Status   string `query:"status" validate:"omitempty,oneof=available maintenance closed"`
}

func GetHalls(c *fiber.Ctx) error {
	filterInput := new(FilterHallInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	db := database.DB
	query := db.Model(&model.CinemaHall{})
	if filterInput.CinemaId > 0 {
		query = query.Where("cinema_id = ?", filterInput.CinemaId)
	}
	if filterInput.Status != "" {
		query = query.Where("status = ?", filterInput.Status)
	}

	var totalCount int64
	if err := query.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var halls []model.CinemaHall
	if err := utils.ApplyPagination(query, filterInput.Limit, filterInput.Page).
		Preload("Cinema").
		Order("id ASC").
		Find(&halls).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       halls,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetHallById(c *fiber.Ctx) error {
	id, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	var hall model.CinemaHall
	if err := database.DB.Preload("Cinema").Preload("Seats").First(&hall, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, hall)
}

func CreateHall(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateHall").(model.CreateHallInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	var hall model.CinemaHall
	if err := copier.Copy(&hall, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	if hall.HallType == "" {
		hall.HallType = model.HallStandard
	}
	hall.Status = constants.HALL_AVAILABLE
	// phòng mới chưa có sơ đồ ghế, capacity = 0 đến khi generate
	hall.Capacity = 0

	if err := database.DB.Create(&hall).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, hall)
}

func EditHall(c *fiber.Ctx) error {
	id, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	input, ok := c.Locals("inputEditHall").(model.UpdateHallInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	db := database.DB
	var hall model.CinemaHall
	if err := db.First(&hall, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if input.Name != nil {
		hall.Name = *input.Name
	}
	if input.HallType != nil {
		hall.HallType = *input.HallType
	}
	if input.Status != nil {
		// Không cho đóng phòng khi còn suất chiếu tương lai
		if *input.Status != constants.HALL_AVAILABLE {
			var upcoming int64
			if err := db.Model(&model.Screening{}).
				Where("hall_id = ? AND start_time > ?", hall.ID, time.Now().UTC()).
				Count(&upcoming).Error; err != nil {
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
			}
			if upcoming > 0 {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, "Phòng còn suất chiếu chưa diễn ra, không thể đổi trạng thái", nil)
			}
		}
		hall.Status = *input.Status
	}

	if err := db.Save(&hall).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_EDIT, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, hall)
}
