package utils

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var mailTemplates embed.FS

var templates = template.Must(template.ParseFS(mailTemplates, "templates/*.html"))

const qrFileName = "booking-qr.png"

// BookingMailData fills the guest email templates.
type BookingMailData struct {
	Code       string
	GuestName  string
	RoomNumber string
	RoomType   string
	CheckIn    string
	CheckOut   string
	Nights     int
	Guests     int
	TotalPrice float64
	Status     string
	QRFile     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPConfigFromEnv returns nil when SMTP_HOST is unset.
func SMTPConfigFromEnv() *SMTPConfig {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return &SMTPConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// BuildBookingConfirmation renders the guest confirmation with the booking
// code embedded as a QR image.
func BuildBookingConfirmation(from, to string, data BookingMailData) (*gomail.Message, error) {
	png, err := GenerateQRCode(data.Code, 256)
	if err != nil {
		return nil, err
	}
	data.QRFile = qrFileName

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "booking_confirmation.html", data); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Booking received #"+data.Code)
	m.SetBody("text/html", body.String())
	m.Embed(qrFileName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	}))
	return m, nil
}

func BuildBookingCancellation(from, to string, data BookingMailData) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "booking_cancellation.html", data); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Booking cancelled #"+data.Code)
	m.SetBody("text/html", body.String())
	return m, nil
}

func SendMail(cfg *SMTPConfig, m *gomail.Message) error {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return d.DialAndSend(m)
}
