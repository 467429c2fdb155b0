package handler

import (
	"errors"

	"cinema_chain/constants"
	"cinema_chain/database"
	"cinema_chain/helper"
	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateBooking giữ ghế cho suất chiếu trong một transaction, sau commit thì
// gửi email xác nhận (nếu có) và đẩy trạng thái ghế mới qua Redis cho client WS
func CreateBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateBooking").(model.CreateBookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	claim, _, _ := helper.GetInfoAccountFromToken(c)
	if claim.AccountId == 0 {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Chưa đăng nhập", errors.New("no account in token"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	booking, err := helper.AllocateSeats(tx, input.ScreeningId, claim.AccountId, input.SeatIds)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}

	// mã tham chiếu thanh toán cấp ngay lúc tạo để đối soát với cổng thanh toán
	booking.PaymentReference = "ORD-" + uuid.New().String()[:8]
	if err := tx.Model(booking).Update("payment_reference", booking.PaymentReference).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}

	PublishSeatUpdate(input.ScreeningId)

	if input.Email != "" {
		sendBookingEmail(input.Email, booking)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, booking)
}

func sendBookingEmail(to string, booking *model.Booking) {
	db := database.DB

	var screening model.Screening
	if err := db.Preload("Movie").Preload("Hall").First(&screening, booking.ScreeningId).Error; err != nil {
		return
	}

	var seatNames []string
	if err := db.Model(&model.BookingSeat{}).
		Joins("JOIN seats ON seats.id = booking_seats.seat_id").
		Where("booking_seats.booking_id = ?", booking.ID).
		Order("seats.seat_row ASC, seats.number ASC").
		Pluck("seats.seat_row || seats.number", &seatNames).Error; err != nil {
		return
	}

	utils.SendBookingConfirmationEmail(to, utils.BookingConfirmationData{
		BookingCode: booking.PublicCode,
		MovieTitle:  screening.Movie.Title,
		HallName:    screening.Hall.Name,
		StartTime:   utils.ToVenueLocal(screening.StartTime).Format("02/01/2006 15:04"),
		Seats:       seatNames,
		TotalAmount: booking.TotalAmount,
	})
}

func GetBookings(c *fiber.Ctx) error {
	filterInput := new(model.FilterBookingInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	claim, isAdmin, isManager := helper.GetInfoAccountFromToken(c)

	db := database.DB
	query := db.Model(&model.Booking{})

	// người dùng thường chỉ thấy booking của mình
	if !isAdmin && !isManager {
		query = query.Where("user_id = ?", claim.AccountId)
	}
	if filterInput.ScreeningId > 0 {
		query = query.Where("screening_id = ?", filterInput.ScreeningId)
	}
	if filterInput.BookingStatus != "" {
		status, ok := model.NormalizeBookingStatus(filterInput.BookingStatus)
		if !ok {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, "Trạng thái booking không hợp lệ", nil, "bookingStatus")
		}
		query = query.Where("booking_status = ?", status)
	}

	var totalCount int64
	if err := query.Session(&gorm.Session{}).Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var bookings []model.Booking
	if err := utils.ApplyPagination(query, filterInput.Limit, filterInput.Page).
		Preload("Seats.Seat").
		Preload("Screening.Movie").
		Preload("Screening.Hall").
		Order("id DESC").
		Find(&bookings).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       bookings,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetBookingById(c *fiber.Ctx) error {
	id, ok := c.Locals("bookingId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	claim, isAdmin, isManager := helper.GetInfoAccountFromToken(c)

	var booking model.Booking
	if err := database.DB.
		Preload("Seats.Seat").
		Preload("Screening.Movie").
		Preload("Screening.Hall").
		First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if !isAdmin && !isManager && booking.UserId != claim.AccountId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền xem booking này", errors.New("not owner"))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	id, ok := c.Locals("bookingId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	input, ok := c.Locals("inputUpdateBookingStatus").(model.UpdateBookingStatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	booking, err := helper.UpdateBookingStatus(tx, id, input)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_EDIT, err)
	}

	// huỷ booking giải phóng ghế, báo cho client đang xem sơ đồ
	if booking.BookingStatus == model.BookingCancelled {
		PublishSeatUpdate(booking.ScreeningId)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func CancelBooking(c *fiber.Ctx) error {
	id, ok := c.Locals("bookingId").(uint)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("locals invalid"))
	}
	claim, isAdmin, isManager := helper.GetInfoAccountFromToken(c)

	var booking model.Booking
	if err := database.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if !isAdmin && !isManager && booking.UserId != claim.AccountId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền huỷ booking này", errors.New("not owner"))
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, tx.Error)
	}

	cancelled, err := helper.CancelBooking(tx, id)
	if err != nil {
		tx.Rollback()
		return respondDomainError(c, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	PublishSeatUpdate(cancelled.ScreeningId)
	return utils.SuccessResponse(c, fiber.StatusOK, cancelled)
}
