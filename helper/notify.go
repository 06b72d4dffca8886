package helper

import (
	"fmt"
	"net/smtp"
	"strconv"

	"hotel_manager/model"
	"hotel_manager/utils"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// MailNotifier emails the guest on admission and cancellation and tells the
// front desk about new pending bookings. Sends run in the background; failures
// are only logged.
type MailNotifier struct {
	smtp      *utils.SMTPConfig
	frontDesk string
	log       *logrus.Logger
	send      func(func())
}

func NewMailNotifier(cfg *utils.SMTPConfig, frontDesk string, log *logrus.Logger) *MailNotifier {
	if cfg == nil {
		log.Info("SMTP_HOST not set, booking emails disabled")
	}
	return &MailNotifier{smtp: cfg, frontDesk: frontDesk, log: log, send: func(f func()) { go f() }}
}

func mailData(b *model.Booking) utils.BookingMailData {
	data := utils.BookingMailData{
		Code:       b.Code,
		CheckIn:    b.CheckInDate.String(),
		CheckOut:   b.CheckOutDate.String(),
		Nights:     b.CheckInDate.Nights(b.CheckOutDate),
		Guests:     b.NumberOfGuests,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
	}
	if b.User != nil {
		data.GuestName = b.User.Name
	}
	if b.Room != nil {
		data.RoomNumber = b.Room.RoomNumber
		data.RoomType = string(b.Room.Type)
	}
	return data
}

func (n *MailNotifier) BookingCreated(b *model.Booking) {
	if n.smtp == nil {
		return
	}
	data := mailData(b)
	entry := n.log.WithField("code", b.Code)

	if b.User != nil && b.User.Email != "" {
		to := b.User.Email
		n.send(func() {
			m, err := utils.BuildBookingConfirmation(n.smtp.From, to, data)
			if err == nil {
				err = utils.SendMail(n.smtp, m)
			}
			if err != nil {
				entry.WithError(err).Warn("booking confirmation email failed")
			}
		})
	}

	if n.frontDesk != "" {
		n.send(func() {
			if err := n.sendFrontDesk(data); err != nil {
				entry.WithError(err).Warn("front desk notice failed")
			}
		})
	}
}

func (n *MailNotifier) BookingCancelled(b *model.Booking) {
	if n.smtp == nil || b.User == nil || b.User.Email == "" {
		return
	}
	data := mailData(b)
	to := b.User.Email
	n.send(func() {
		m, err := utils.BuildBookingCancellation(n.smtp.From, to, data)
		if err == nil {
			err = utils.SendMail(n.smtp, m)
		}
		if err != nil {
			n.log.WithError(err).WithField("code", b.Code).Warn("cancellation email failed")
		}
	})
}

func frontDeskEmail(from, to string, data utils.BookingMailData) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = fmt.Sprintf("New booking %s awaiting confirmation", data.Code)
	e.Text = []byte(fmt.Sprintf(
		"Booking %s\nGuest: %s\nRoom: %s (%s)\nStay: %s to %s (%d nights)\nGuests: %d\nTotal: %.2f\n",
		data.Code, data.GuestName, data.RoomNumber, data.RoomType, data.CheckIn, data.CheckOut, data.Nights, data.Guests, data.TotalPrice,
	))
	return e
}

func (n *MailNotifier) sendFrontDesk(data utils.BookingMailData) error {
	e := frontDeskEmail(n.smtp.From, n.frontDesk, data)
	addr := n.smtp.Host + ":" + strconv.Itoa(n.smtp.Port)
	var auth smtp.Auth
	if n.smtp.Username != "" {
		auth = smtp.PlainAuth("", n.smtp.Username, n.smtp.Password, n.smtp.Host)
	}
	return e.Send(addr, auth)
}
