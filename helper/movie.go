package helper

import (
	"fmt"
	"log"
	"time"

	"cinema_chain/model"
	"cinema_chain/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func GenerateUniqueMovieSlug(tx *gorm.DB, title string) string {
	base := slug.Make(title)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.Movie{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

func GenerateUniqueCinemaSlug(tx *gorm.DB, name string) string {
	base := slug.Make(name)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.Cinema{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

var movieScheduler gocron.Scheduler

// AutoUpdateMovieStatus chuyển phim COMING_SOON -> NOW_SHOWING -> ENDED theo
// ngày khởi chiếu / kết thúc, tính theo giờ địa phương của rạp
func AutoUpdateMovieStatus(db *gorm.DB) {
	loc := utils.VenueZone()
	today := time.Now().In(loc).Truncate(24 * time.Hour)

	var movies []model.Movie
	if err := db.Find(&movies).Error; err != nil {
		log.Printf("Lỗi khi quét phim: %v", err)
		return
	}

	for _, movie := range movies {
		updated := false

		releaseDate := movie.DateRelease.Time.In(loc).Truncate(24 * time.Hour)
		if !today.Before(releaseDate) && movie.StatusMovie == "COMING_SOON" {
			movie.StatusMovie = "NOW_SHOWING"
			updated = true
		}

		if movie.DateEnd != nil {
			endDate := movie.DateEnd.Time.In(loc).Truncate(24 * time.Hour)
			if today.After(endDate) && movie.StatusMovie == "NOW_SHOWING" {
				movie.StatusMovie = "ENDED"
				updated = true
			}
		}

		if updated {
			if err := db.Save(&movie).Error; err != nil {
				log.Printf("Lỗi cập nhật trạng thái phim '%s': %v", movie.Title, err)
			}
		}
	}
}

// StartMovieStatusScheduler chạy job cập nhật trạng thái phim lúc 00:05 mỗi ngày
func StartMovieStatusScheduler(db *gorm.DB) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(utils.VenueZone()),
	)
	if err != nil {
		log.Fatal(err)
	}

	movieScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 5, 0),
			),
		),
		gocron.NewTask(func() { AutoUpdateMovieStatus(db) }),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Movie status scheduler started (00:05)")
}

func StopMovieStatusScheduler() {
	if movieScheduler != nil {
		_ = movieScheduler.Shutdown()
	}
}
