package employees

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"qrhrm/internal/platform/email"
	"qrhrm/internal/platform/jobs"
)

// MailBadgeNotifier queues the badge email on the background job worker.
type MailBadgeNotifier struct {
	Mailer email.Mailer
	Jobs   *jobs.Service
	From   string
}

func (n *MailBadgeNotifier) SendBadge(_ context.Context, emp Employee, png []byte) {
	msg := BadgeMessage(n.From, emp, png)
	queued := n.Jobs.Enqueue(jobs.JobEmail, func(ctx context.Context) error {
		return n.Mailer.Send(ctx, msg)
	})
	if !queued {
		slog.Warn("badge email dropped", "employeeId", emp.ID)
	}
}

func BadgeMessage(from string, emp Employee, png []byte) email.Message {
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome aboard. Your employee code is <strong>%s</strong>.</p>
<p>Scan the attached QR code at the attendance kiosk to clock in and out.</p>`,
		html.EscapeString(emp.Name), html.EscapeString(emp.Code))
	return email.Message{
		From:    from,
		To:      emp.Email,
		Subject: "Your attendance QR code",
		Body:    body,
		HTML:    true,
		Attachments: []email.Attachment{{
			Filename:    emp.Code + ".png",
			ContentType: "image/png",
			ContentID:   "badge",
			Data:        png,
		}},
	}
}
