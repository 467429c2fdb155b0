package database

import (
	"log"
	"time"

	"cinema_chain/constants"
	"cinema_chain/model"
	"cinema_chain/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func parseDate(dateStr string) utils.CustomDate {
	t, _ := time.Parse("2006-01-02", dateStr)
	return utils.CustomDate{Time: t}
}

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("123456cn"), 10)
	hashPassword := string(bytes)
	if err != nil {
		hashPassword = "123456cn"
	}
	accounts := []model.Account{
		{Username: "Administration", Password: hashPassword, IsActive: true, Role: constants.ROLE_ADMIN},
	}
	for _, account := range accounts {
		if err := db.Where(model.Account{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
			log.Println("failed to seed data for account:", account.Username, "error:", err)
		}
	}

	cinemas := []model.Cinema{
		{Name: "CinemaChain Nguyễn Huệ", Slug: "cinemachain-nguyen-hue", City: "Hồ Chí Minh", Active: true},
		{Name: "CinemaChain Tràng Tiền", Slug: "cinemachain-trang-tien", City: "Hà Nội", Active: true},
	}
	for _, cinema := range cinemas {
		if err := db.Where(model.Cinema{Slug: cinema.Slug}).FirstOrCreate(&cinema).Error; err != nil {
			log.Println("failed to seed data for cinema:", cinema.Name, "error:", err)
		}
	}

	movies := []model.Movie{
		{
			Title:       "Mắt Biếc",
			Genre:       "Drama",
			Duration:    117,
			Language:    "VI",
			Slug:        "mat-biec",
			DateRelease: parseDate("2024-01-01"),
			StatusMovie: "NOW_SHOWING",
		},
	}
	for _, movie := range movies {
		if err := db.Where(model.Movie{Slug: movie.Slug}).FirstOrCreate(&movie).Error; err != nil {
			log.Println("failed to seed data for movie:", movie.Title, "error:", err)
		}
	}
}
