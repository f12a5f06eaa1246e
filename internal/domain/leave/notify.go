package leave

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"qrhrm/internal/platform/email"
	"qrhrm/internal/platform/jobs"
)

type MailDecisionNotifier struct {
	Mailer email.Mailer
	Jobs   *jobs.Service
	From   string
}

func (n *MailDecisionNotifier) SendDecision(_ context.Context, req Request) {
	if req.EmployeeMail == "" {
		return
	}
	msg := DecisionMessage(n.From, req)
	queued := n.Jobs.Enqueue(jobs.JobEmail, func(ctx context.Context) error {
		return n.Mailer.Send(ctx, msg)
	})
	if !queued {
		slog.Warn("leave decision email dropped", "requestId", req.ID)
	}
}

func DecisionMessage(from string, req Request) email.Message {
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>Your leave request from <strong>%s</strong> to <strong>%s</strong> has been <strong>%s</strong>.</p>
<p>Reason provided: %s</p>`,
		html.EscapeString(req.EmployeeName),
		req.StartDate.Format("2006-01-02"),
		req.EndDate.Format("2006-01-02"),
		html.EscapeString(req.Status),
		html.EscapeString(req.Reason))
	return email.Message{
		From:    from,
		To:      req.EmployeeMail,
		Subject: "Your Leave Request Status Update: " + req.Status,
		Body:    body,
		HTML:    true,
	}
}
