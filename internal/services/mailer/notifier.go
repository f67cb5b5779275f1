package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/onewordstory/internal/metrics"
	"github.com/mcoot/onewordstory/internal/model"
)

// Template names, used as the metrics label for delivery failures
const (
	TemplateVerification = "verification"
	TemplateInvitation   = "invitation"
)

// Notifier renders the transactional emails and hands them to a Sender
type Notifier struct {
	sender      Sender
	frontendURL string
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewNotifier creates a Notifier that links back to frontendURL
func NewNotifier(sender Sender, frontendURL string, m *metrics.Metrics, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		metrics:     m,
		logger:      logger,
	}
}

// VerificationLink returns the URL a user follows to verify their email
func (n *Notifier) VerificationLink(token string) string {
	return n.frontendURL + "/verify-email?token=" + url.QueryEscape(token)
}

// InvitationLink returns the URL an invitee follows to join a story
func (n *Notifier) InvitationLink(token string) string {
	return n.frontendURL + "/accept-invite/" + url.PathEscape(token)
}

// SendVerification emails the verification link to a new user
func (n *Notifier) SendVerification(ctx context.Context, email, username, token string) error {
	link := n.VerificationLink(token)

	html, err := render(ctx, VerificationEmail(VerificationData{Username: username, Link: link}))
	if err != nil {
		return err
	}

	msg := Message{
		To:      email,
		Subject: "Verify your email - One Word Story",
		HTML:    html,
		Text:    fmt.Sprintf("Hi %s,\n\nVerify your email address: %s\n", username, link),
	}
	return n.deliver(ctx, TemplateVerification, msg)
}

// SendInvitation emails a story invitation. storyTitle may be empty.
func (n *Notifier) SendInvitation(ctx context.Context, email, inviterName, storyTitle, token string) error {
	link := n.InvitationLink(token)
	days := int(model.InvitationTTL.Hours() / 24)

	html, err := render(ctx, InvitationEmail(InvitationData{
		InviterName: inviterName,
		StoryTitle:  storyTitle,
		Link:        link,
		ExpiryDays:  days,
	}))
	if err != nil {
		return err
	}

	text := fmt.Sprintf("%s has invited you to collaborate on a story", inviterName)
	if storyTitle != "" {
		text += ": " + storyTitle
	}
	text += fmt.Sprintf(".\n\nJoin here: %s\n\nThis invitation expires in %d days.\n", link, days)

	msg := Message{
		To:      email,
		Subject: fmt.Sprintf("%s invited you to join a story!", inviterName),
		HTML:    html,
		Text:    text,
	}
	return n.deliver(ctx, TemplateInvitation, msg)
}

func (n *Notifier) deliver(ctx context.Context, template string, msg Message) error {
	if err := n.sender.Send(ctx, msg); err != nil {
		n.metrics.EmailFailed(template)
		n.logger.Error("email delivery failed", "template", template, "to", msg.To, "error", err)
		return err
	}
	n.logger.Debug("email sent", "template", template, "to", msg.To)
	return nil
}

func render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}
