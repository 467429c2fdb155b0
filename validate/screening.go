package validate

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"cinema_chain/constants"
	"cinema_chain/database"
	"cinema_chain/helper"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
)

func GetScreeningById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}
		// Kiểm tra suất chiếu tồn tại
		var screening model.Screening
		if err := database.DB.Where("id = ?", valueKey).First(&screening).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Suất chiếu không tồn tại", err, "screeningId")
		}
		c.Locals("screeningId", uint(valueKey))
		return c.Next()
	}
}

func CreateScreening() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, isAdmin, isManager := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("bạn không có thẩm quyền"))
		}

		var input model.CreateScreeningInput
		// Parse JSON từ request body vào struct
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}

		// Validate input
		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("inputCreateScreening", input)
		return c.Next()
	}
}

func EditScreening(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}
		_, isAdmin, isManager := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("bạn không có thẩm quyền"))
		}

		var input model.UpdateScreeningInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid input %s", err.Error()),
			})
		}
		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		// Kiểm tra suất chiếu tồn tại
		var screening model.Screening
		if err := database.DB.Where("id = ?", valueKey).First(&screening).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Suất chiếu không tồn tại", err, "screeningId")
		}

		c.Locals("inputEditScreening", input)
		c.Locals("screeningId", uint(valueKey))
		return c.Next()
	}
}

func DeleteScreening(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}
		_, isAdmin, isManager := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("bạn không có thẩm quyền"))
		}
		var screening model.Screening
		if err := database.DB.Where("id = ?", valueKey).First(&screening).Error; err != nil {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Suất chiếu không tồn tại", err, "screeningId")
		}
		c.Locals("screeningId", uint(valueKey))
		return c.Next()
	}
}

func BulkCreateScreenings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, isAdmin, isManager := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("bạn không có thẩm quyền"))
		}

		var input model.BulkCreateScreeningsInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Không thể phân tích yêu cầu: %s", err.Error()),
			})
		}

		// Validate input
		if err := validate.Struct(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		// Parse ngày
		startDate, err1 := time.Parse("2006-01-02", input.StartDate)
		endDate, err2 := time.Parse("2006-01-02", input.EndDate)
		if err1 != nil || err2 != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ngày không đúng định dạng (YYYY-MM-DD)", nil)
		}
		if endDate.Before(startDate) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ngày kết thúc phải sau ngày bắt đầu", nil)
		}

		for _, slot := range input.ShowTimes {
			if _, err := time.Parse("15:04", slot); err != nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest,
					fmt.Sprintf("Khung giờ %s không đúng định dạng (HH:MM)", slot), nil, "showTimes")
			}
		}
		for _, d := range input.DaysOfWeek {
			if d < 0 || d > 6 {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Thứ trong tuần phải từ 0 đến 6", nil, "daysOfWeek")
			}
		}

		c.Locals("bulkInput", input)
		return c.Next()
	}
}
