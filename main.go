package main

import (
	"log"

	"cinema_chain/config"
	"cinema_chain/database"
	"cinema_chain/helper"
	"cinema_chain/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigDefault("CORS_ORIGINS", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	database.ConnectDB()

	helper.StartScreeningScheduler(database.DB)
	defer helper.StopScreeningScheduler()
	helper.StartMovieStatusScheduler(database.DB)
	defer helper.StopMovieStatusScheduler()

	router.SetupRoutes(app)
	log.Fatal(app.Listen(":" + config.ConfigDefault("PORT", "8002")))
}
