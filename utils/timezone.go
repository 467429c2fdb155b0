package utils

import (
	"fmt"
	"strconv"
	"time"

	"cinema_chain/config"
)

// Mặc định rạp chạy múi giờ ICT (+07:00) như chuỗi hiện tại
const DefaultVenueOffsetHours = 7

// VenueZone trả về múi giờ cố định của rạp, cấu hình qua VENUE_UTC_OFFSET_HOURS
func VenueZone() *time.Location {
	offset := DefaultVenueOffsetHours
	if v := config.Config("VENUE_UTC_OFFSET_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return FixedVenueZone(offset)
}

func FixedVenueZone(offsetHours int) *time.Location {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	if offsetHours == 7 {
		name = "ICT"
	}
	return time.FixedZone(name, offsetHours*3600)
}

func VenueNow() time.Time {
	return time.Now().In(VenueZone())
}

func ToVenueLocal(t time.Time) time.Time {
	return t.In(VenueZone())
}

func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// CombineDateTime ghép ngày với khung giờ "15:04" trong múi giờ loc
func CombineDateTime(date time.Time, slot string, loc *time.Location) (time.Time, error) {
	str := fmt.Sprintf("%s %s", date.Format("2006-01-02"), slot)
	return time.ParseInLocation("2006-01-02 15:04", str, loc)
}
