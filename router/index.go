package router

import (
	"cinema_chain/handler"
	"cinema_chain/middleware"
	"cinema_chain/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/login", validate.Login(), handler.Login)

	cinema := v1.Group("/cinema", logger.New())
	cinema.Get("/", handler.GetCinemas)
	cinema.Get("/:cinemaId", validate.GetById("cinemaId"), handler.GetCinemaById)
	cinema.Post("/", middleware.Protected(), validate.CreateCinema(), handler.CreateCinema)
	cinema.Put("/:cinemaId", middleware.Protected(), validate.GetById("cinemaId"), validate.EditCinema(), handler.EditCinema)

	hall := v1.Group("/hall", logger.New())
	hall.Get("/", handler.GetHalls)
	hall.Get("/:hallId", validate.GetById("hallId"), handler.GetHallById)
	hall.Get("/:hallId/seats", validate.GetById("hallId"), handler.GetSeatsByHall)
	hall.Post("/", middleware.Protected(), validate.CreateHall(), handler.CreateHall)
	hall.Put("/:hallId", middleware.Protected(), validate.GetById("hallId"), validate.EditHall(), handler.EditHall)
	hall.Post("/:hallId/seats", middleware.Protected(), validate.GenerateSeats("hallId"), handler.GenerateSeats)
	hall.Put("/:hallId/seats", middleware.Protected(), validate.RegenerateSeats("hallId"), handler.RegenerateSeats)
	hall.Delete("/:hallId/seats", middleware.Protected(), validate.ClearSeats("hallId"), handler.ClearSeats)

	movie := v1.Group("/movie", logger.New())
	movie.Get("/", handler.GetMovies)
	movie.Get("/:movieId", validate.GetById("movieId"), handler.GetMovieById)
	movie.Post("/", middleware.Protected(), validate.CreateMovie(), handler.CreateMovie)
	movie.Put("/:movieId", middleware.Protected(), validate.GetById("movieId"), validate.EditMovie(), handler.EditMovie)
	movie.Delete("/:movieId", middleware.Protected(), middleware.AdminOnly(), validate.GetById("movieId"), handler.DeleteMovie)

	screening := v1.Group("/screening", logger.New())
	screening.Get("/", handler.GetScreenings)
	screening.Get("/:screeningId", validate.GetScreeningById("screeningId"), handler.GetScreeningById)
	screening.Get("/:screeningId/seats", validate.GetScreeningById("screeningId"), handler.GetScreeningSeats)
	screening.Post("/", middleware.Protected(), validate.CreateScreening(), handler.CreateScreening)
	screening.Post("/bulk", middleware.Protected(), validate.BulkCreateScreenings(), handler.BulkCreateScreenings)
	screening.Post("/refresh-status", middleware.Protected(), handler.RefreshScreeningStatuses)
	screening.Put("/:screeningId", middleware.Protected(), validate.EditScreening("screeningId"), handler.EditScreening)
	screening.Delete("/:screeningId", middleware.Protected(), validate.DeleteScreening("screeningId"), handler.DeleteScreening)

	booking := v1.Group("/booking", logger.New())
	booking.Get("/", middleware.Protected(), handler.GetBookings)
	booking.Get("/:bookingId", middleware.Protected(), validate.GetBookingById("bookingId"), handler.GetBookingById)
	booking.Post("/", middleware.Protected(), validate.CreateBooking(), handler.CreateBooking)
	booking.Patch("/:bookingId/status", middleware.Protected(), validate.UpdateBookingStatus("bookingId"), handler.UpdateBookingStatus)
	booking.Post("/:bookingId/cancel", middleware.Protected(), validate.GetBookingById("bookingId"), handler.CancelBooking)

	// Realtime sơ đồ ghế theo suất chiếu
	v1.Get("/screening-seats/:id", websocket.New(handler.WebSocketConnection))
}
