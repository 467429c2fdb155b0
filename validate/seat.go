package validate

import (
	"errors"
	"fmt"
	"strconv"

	"cinema_chain/constants"
	"cinema_chain/database"
	"cinema_chain/helper"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
)

func seatHallFromParams(c *fiber.Ctx, key string) (uint, error) {
	params := c.Params(key)
	valueKey, err := strconv.Atoi(params)
	if err != nil {
		return 0, utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
	}
	var hall model.CinemaHall
	if err := database.DB.Where("id = ?", valueKey).First(&hall).Error; err != nil {
		return 0, utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Phòng chiếu không tồn tại", err, "hallId")
	}
	c.Locals("hallId", uint(valueKey))
	return uint(valueKey), nil
}

func GenerateSeats(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, isAdmin, isManager := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("bạn không có thẩm quyền"))
		}
		if _, err := seatHallFromParams(c, key); err != nil {
			return err
		}

		var input model.GenerateSeatsInput
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

		c.Locals("inputGenerateSeats", input)
		return c.Next()
	}
}

func RegenerateSeats(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, isAdmin, isManager := helper.GetInfoAccountFromToken(c)
		if !isAdmin && !isManager {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("bạn không có thẩm quyền"))
		}
		if _, err := seatHallFromParams(c, key); err != nil {
			return err
		}

		var input model.RegenerateSeatsInput
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

		c.Locals("inputRegenerateSeats", input)
		return c.Next()
	}
}

func ClearSeats(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, isAdmin, _ := helper.GetInfoAccountFromToken(c)
		if !isAdmin {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("bạn không có thẩm quyền"))
		}
		if _, err := seatHallFromParams(c, key); err != nil {
			return err
		}
		return c.Next()
	}
}
