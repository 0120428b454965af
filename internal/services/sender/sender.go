// Package sender отправляет письма-подтверждения о зачислении на курс.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/course-hub/internal/models"
)

// ErrInvalidEvent событие не удалось разобрать или в нём нет адресата.
var ErrInvalidEvent = errors.New("invalid enrollment event")

// SenderService формирует и отправляет письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleEnrollment разбирает событие из очереди и отправляет письмо.
// Повреждённое событие не отправляется повторно: ошибка логируется, сообщение подтверждается.
func (s *SenderService) HandleEnrollment(ctx context.Context, body []byte) error {
	const op = "sender.HandleEnrollment"
	log := s.log.With(slog.String("op", op))

	event, err := DecodeEvent(body)
	if err != nil {
		log.Error("dropping malformed enrollment event", sl.Err(err))
		return nil
	}
	if err := s.SendEnrollmentConfirmation(ctx, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DecodeEvent разбирает JSON-событие о зачислении.
func DecodeEvent(body []byte) (models.EnrollmentEvent, error) {
	var event models.EnrollmentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if strings.TrimSpace(event.Email) == "" {
		return event, fmt.Errorf("%w: empty email", ErrInvalidEvent)
	}
	return event, nil
}

// SendEnrollmentConfirmation отправляет письмо о подписке на курс.
func (s *SenderService) SendEnrollmentConfirmation(ctx context.Context, event models.EnrollmentEvent) error {
	subject := fmt.Sprintf("You are enrolled in %s", event.CourseTitle)
	return s.sendEmail(ctx, []string{event.Email}, subject, EnrollmentBody(event))
}

// EnrollmentBody текст письма о подписке.
func EnrollmentBody(event models.EnrollmentEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", event.Name)
	fmt.Fprintf(&b, "You have successfully subscribed to \"%s\".\n", event.CourseTitle)
	if event.PricePaid == 0 {
		b.WriteString("This course is free.\n")
	} else {
		fmt.Fprintf(&b, "Amount paid: $%.2f", event.PricePaid)
		if event.PromoCodeUsed != "" {
			fmt.Fprintf(&b, " (promo code %s applied)", event.PromoCodeUsed)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Subscribed at: %s\n\nHappy learning!\n", event.SubscribedAt.UTC().Format("2006-01-02 15:04 MST"))
	return b.String()
}

func (s *SenderService) sendEmail(ctx context.Context, to []string, subject, bodyText string) error {
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		_ = wc.Close()
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
