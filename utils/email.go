package utils

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"cinema_chain/config"

	"gopkg.in/gomail.v2"
)

// BookingConfirmationData dữ liệu cho email xác nhận đặt vé
type BookingConfirmationData struct {
	BookingCode string
	MovieTitle  string
	HallName    string
	StartTime   string
	Seats       []string
	TotalAmount float64
}

// SendBookingConfirmationEmail gửi email xác nhận đặt vé kèm QR check-in (async,
// best-effort: lỗi chỉ log, không ảnh hưởng tới booking đã commit)
func SendBookingConfirmationEmail(to string, data BookingConfirmationData) {
	go func() {
		host := config.Config("SMTP_HOST")
		if host == "" {
			return
		}
		port, _ := strconv.Atoi(config.ConfigDefault("SMTP_PORT", "587"))

		body := fmt.Sprintf(
			"<h3>Đặt vé thành công</h3>"+
				"<p>Mã đặt vé: <b>%s</b></p>"+
				"<p>Phim: %s</p>"+
				"<p>Phòng: %s - Suất: %s</p>"+
				"<p>Ghế: %s</p>"+
				"<p>Tổng tiền: %.0f</p>"+
				`<p><img src="cid:qr_checkin_code" alt="QR check-in"/></p>`,
			data.BookingCode, data.MovieTitle, data.HallName, data.StartTime,
			strings.Join(data.Seats, ", "), data.TotalAmount,
		)

		m := gomail.NewMessage()
		m.SetHeader("From", config.ConfigDefault("SMTP_FROM", "CinemaChain <noreply@cinemachain.local>"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Vé xem phim - Mã đặt vé: "+data.BookingCode)
		m.SetBody("text/html", body)

		qrBytes, err := GenerateQRCode(data.BookingCode, 400)
		if err != nil {
			log.Printf("Lỗi tạo QR cho booking %s: %v", data.BookingCode, err)
		} else {
			m.Embed("qr_checkin.png",
				gomail.SetCopyFunc(func(w io.Writer) error {
					_, err := w.Write(qrBytes)
					return err
				}),
				gomail.SetHeader(map[string][]string{
					"Content-Type":        {"image/png"},
					"Content-ID":          {"<qr_checkin_code>"},
					"Content-Disposition": {"inline"},
				}),
			)
		}

		d := gomail.NewDialer(host, port, config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"))
		if err := d.DialAndSend(m); err != nil {
			log.Printf("Lỗi gửi email xác nhận booking %s: %v", data.BookingCode, err)
		}
	}()
}
