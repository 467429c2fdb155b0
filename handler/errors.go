package handler

import (
	"errors"

	"cinema_chain/constants"
	"cinema_chain/helper"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
)

// respondDomainError ánh xạ lỗi nghiệp vụ từ helper sang mã HTTP. Lỗi không
// nhận diện được coi là lỗi hệ thống.
func respondDomainError(c *fiber.Ctx, err error) error {
	var (
		validationErr *helper.ValidationError
		conflictErr   *helper.ConflictError
		capacityErr   *helper.CapacityError
		adjacencyErr  *helper.AdjacencyError
		stateErr      *helper.StateError
		notFoundErr   *helper.NotFoundError
	)

	switch {
	case errors.As(err, &notFoundErr):
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
	case errors.As(err, &validationErr):
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, validationErr.Reason, err, validationErr.Field)
	case errors.As(err, &conflictErr):
		return utils.ErrorResponse(c, fiber.StatusConflict, conflictErr.Reason, err)
	case errors.As(err, &capacityErr):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, capacityErr.Reason, err)
	case errors.As(err, &adjacencyErr):
		return utils.ErrorResponse(c, fiber.StatusConflict, adjacencyErr.Error(), err)
	case errors.As(err, &stateErr):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, stateErr.Reason, err)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
}
