package handler

import (
	"errors"
	"sort"

	"cinema_chain/constants"
	"cinema_chain/database"
	"cinema_chain/helper"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SeatView là ghế kèm trạng thái đã bán cho một suất chiếu cụ thể
type SeatView struct {
	model.Seat
	IsBooked bool `json:"isBooked"`
}

func GenerateSeats(c *fiber.Ctx) error {
	hallId, ok := c.Locals("hallId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	input, ok := c.Locals("inputGenerateSeats").(model.GenerateSeatsInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	rule, err := helper.SeatTypeRuleFromName(input.SeatTypeRule)
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, err.Error(), err, "seatTypeRule")
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	seats, err := helper.GenerateSeats(tx, hallId, input.Rows, input.SeatsPerRow, rule)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"hallId":   hallId,
		"capacity": len(seats),
		"seats":    groupSeatsByRow(seats),
	})
}

func RegenerateSeats(c *fiber.Ctx) error {
	hallId, ok := c.Locals("hallId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	input, ok := c.Locals("inputRegenerateSeats").(model.RegenerateSeatsInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	rule, err := helper.SeatTypeRuleFromName(input.SeatTypeRule)
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, err.Error(), err, "seatTypeRule")
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	seats, err := helper.RegenerateSeats(tx, hallId, input.Capacity, rule)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_EDIT, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"hallId":   hallId,
		"capacity": len(seats),
		"seats":    groupSeatsByRow(seats),
	})
}

func ClearSeats(c *fiber.Ctx) error {
	hallId, ok := c.Locals("hallId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	deleted, err := helper.ClearSeats(tx, hallId)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"hallId":  hallId,
		"deleted": deleted,
	})
}

func GetSeatsByHall(c *fiber.Ctx) error {
	hallId, ok := c.Locals("inputId").(int)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	var seats []model.Seat
	if err := database.DB.Where("hall_id = ?", hallId).
		Order("seat_row ASC, number ASC").
		Find(&seats).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"hallId": hallId,
		"total":  len(seats),
		"seats":  groupSeatsByRow(seats),
	})
}

// GetScreeningSeats trả sơ đồ ghế của suất chiếu kèm cờ đã bán, gom theo hàng
func GetScreeningSeats(c *fiber.Ctx) error {
	id, ok := c.Locals("screeningId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	views, err := FetchScreeningSeats(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	grouped := make(map[string][]SeatView)
	for _, v := range views {
		grouped[v.Row] = append(grouped[v.Row], v)
	}
	rows := make([]string, 0, len(grouped))
	for r := range grouped {
		rows = append(rows, r)
	}
	sort.Strings(rows)

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"screeningId": id,
		"rows":        rows,
		"seats":       grouped,
	})
}

// FetchScreeningSeats lấy toàn bộ ghế của phòng chiếu suất này kèm trạng thái
// đã bán; ghế thuộc booking đã huỷ được coi là còn trống
func FetchScreeningSeats(screeningId uint) ([]SeatView, error) {
	db := database.DB

	var screening model.Screening
	if err := db.First(&screening, screeningId).Error; err != nil {
		return nil, err
	}

	var seats []model.Seat
	if err := db.Where("hall_id = ?", screening.HallId).
		Order("seat_row ASC, number ASC").
		Find(&seats).Error; err != nil {
		return nil, err
	}

	var bookedIds []uint
	if err := db.Model(&model.BookingSeat{}).
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("booking_seats.screening_id = ? AND bookings.booking_status != ?", screeningId, model.BookingCancelled).
		Pluck("booking_seats.seat_id", &bookedIds).Error; err != nil {
		return nil, err
	}
	booked := make(map[uint]bool, len(bookedIds))
	for _, id := range bookedIds {
		booked[id] = true
	}

	views := make([]SeatView, 0, len(seats))
	for _, s := range seats {
		views = append(views, SeatView{Seat: s, IsBooked: booked[s.ID]})
	}
	return views, nil
}

func groupSeatsByRow(seats []model.Seat) map[string][]model.Seat {
	grouped := make(map[string][]model.Seat)
	for _, s := range seats {
		grouped[s.Row] = append(grouped[s.Row], s)
	}
	return grouped
}
