package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/sse"
)

// hubNotifier pushes alerts to SSE subscribers of the alert's user.
type hubNotifier struct {
	hub *sse.Hub[alert.Alert]
}

func (n hubNotifier) Notify(ctx context.Context, a alert.Alert) error {
	n.hub.Publish(a.UserID, a)
	return nil
}

// EmailNotifier mails alerts to users that have an email address on the roster.
type EmailNotifier struct {
	users  user.UserRepository
	mailer email.EmailService
	loc    *time.Location
}

func NewEmailNotifier(users user.UserRepository, mailer email.EmailService, loc *time.Location) *EmailNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &EmailNotifier{users: users, mailer: mailer, loc: loc}
}

func (n *EmailNotifier) Notify(ctx context.Context, a alert.Alert) error {
	if !n.mailer.Enabled() {
		return nil
	}

	u, err := n.users.GetByID(ctx, a.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get alert recipient: %w", err)
	}
	if u.Email == "" {
		return nil
	}

	ts := a.Timestamp.In(n.loc)
	return n.mailer.SendAlert(u.Email, email.AlertEmailData{
		Subject:   subjectFor(a.Type),
		Name:      u.Name,
		Type:      string(a.Type),
		Message:   a.Message,
		Timestamp: clock.FormatDate(ts) + " " + clock.FormatTime(ts),
	})
}

func subjectFor(t alert.Type) string {
	switch t {
	case alert.TypeLate:
		return "Late arrival recorded"
	case alert.TypeAbsent:
		return "Absence recorded"
	case alert.TypeOvertime:
		return "Overtime recorded"
	case alert.TypeEarlyDeparture:
		return "Early departure recorded"
	default:
		return "Attendance alert"
	}
}
