package auth

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"qrhrm/internal/platform/email"
	"qrhrm/internal/platform/jobs"
)

const defaultFrontendURL = "http://localhost:5173"

// MailResetNotifier queues password reset emails on the job worker.
type MailResetNotifier struct {
	Mailer      email.Mailer
	Jobs        *jobs.Service
	From        string
	FrontendURL string
	TTL         time.Duration
}

func (n *MailResetNotifier) SendReset(_ context.Context, ticket ResetTicket) {
	link := ResetLink(n.FrontendURL, ticket.Token, ticket.Account.Type)
	msg := ResetMessage(n.From, ticket.Account, link, n.TTL)
	queued := n.Jobs.Enqueue(jobs.JobEmail, func(ctx context.Context) error {
		return n.Mailer.Send(ctx, msg)
	})
	if !queued {
		slog.Warn("password reset email dropped", "accountType", ticket.Account.Type, "accountId", ticket.Account.ID)
	}
}

// ResetLink points at the front end's reset page. Unparsable base URLs fall
// back to the local development address.
func ResetLink(baseURL, token string, accountType AccountType) string {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		base, _ = url.Parse(defaultFrontendURL)
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/reset-password/" + url.PathEscape(token)
	base.RawQuery = url.Values{"type": {string(accountType)}}.Encode()
	return base.String()
}

func ResetMessage(from string, account Account, link string, ttl time.Duration) email.Message {
	name := account.Name
	if name == "" {
		name = account.Email
	}
	hours := int(ttl.Hours())
	if hours < 1 {
		hours = 1
	}
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>You requested a password reset for your %s account.</p>
<p><a href="%s">Reset your password</a></p>
<p>This link expires in %d hour(s). If you did not request a reset, ignore this email.</p>`,
		html.EscapeString(name), account.Type, html.EscapeString(link), hours)
	title := strings.ToUpper(string(account.Type[:1])) + string(account.Type[1:])
	return email.Message{
		From:    from,
		To:      account.Email,
		Subject: title + " Password Reset Request",
		Body:    body,
		HTML:    true,
	}
}
