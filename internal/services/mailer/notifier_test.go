package mailer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/onewordstory/internal/dependencies/mocks"
	"github.com/mcoot/onewordstory/internal/metrics"
	"github.com/mcoot/onewordstory/internal/services/mailer"
	owstestutil "github.com/mcoot/onewordstory/internal/testutil"
)

type NotifierSuite struct {
	suite.Suite
	sender   *mocks.MockSender
	metrics  *metrics.Metrics
	notifier *mailer.Notifier
	ctx      context.Context
}

func TestNotifierSuite(t *testing.T) {
	suite.Run(t, new(NotifierSuite))
}

func (s *NotifierSuite) SetupTest() {
	s.sender = mocks.NewMockSender()
	s.metrics = metrics.New()
	s.notifier = mailer.NewNotifier(s.sender, "http://localhost:5173/", s.metrics, owstestutil.NopLogger())
	s.ctx = context.Background()
}

func (s *NotifierSuite) parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	s.Require().NoError(err)
	return doc
}

// Verification tests

func (s *NotifierSuite) TestSendVerification() {
	err := s.notifier.SendVerification(s.ctx, "alice@example.com", "alice", "abc123")
	s.Require().NoError(err)

	msg, ok := s.sender.LastTo("alice@example.com")
	s.Require().True(ok)
	s.Equal("Verify your email - One Word Story", msg.Subject)

	doc := s.parse(msg.HTML)
	href, exists := doc.Find("a.action").Attr("href")
	s.True(exists)
	s.Equal("http://localhost:5173/verify-email?token=abc123", href)
	s.Contains(doc.Find("p").First().Text(), "Hi alice")
	s.Contains(msg.Text, "verify-email?token=abc123")
}

func (s *NotifierSuite) TestVerificationEscapesUsername() {
	err := s.notifier.SendVerification(s.ctx, "x@example.com", "<script>bad</script>", "t")
	s.Require().NoError(err)

	msg, _ := s.sender.LastTo("x@example.com")
	s.NotContains(msg.HTML, "<script>")
	s.Equal(0, s.parse(msg.HTML).Find("script").Length())
}

// Invitation tests

func (s *NotifierSuite) TestSendInvitationWithTitle() {
	err := s.notifier.SendInvitation(s.ctx, "bob@example.com", "alice", "The Dragon", "tok")
	s.Require().NoError(err)

	msg, ok := s.sender.LastTo("bob@example.com")
	s.Require().True(ok)
	s.Equal("alice invited you to join a story!", msg.Subject)

	doc := s.parse(msg.HTML)
	s.Equal("alice", doc.Find(".inviter").Text())
	s.Equal("The Dragon", doc.Find(".story-title").Text())
	href, _ := doc.Find("a.action").Attr("href")
	s.Equal("http://localhost:5173/accept-invite/tok", href)
	s.Contains(doc.Find(".expiry").Text(), "7 days")
}

func (s *NotifierSuite) TestSendInvitationWithoutTitle() {
	err := s.notifier.SendInvitation(s.ctx, "bob@example.com", "alice", "", "tok")
	s.Require().NoError(err)

	msg, _ := s.sender.LastTo("bob@example.com")
	s.Equal(0, s.parse(msg.HTML).Find(".story-title").Length())
	s.Contains(msg.Text, "collaborate on a story.")
}

func (s *NotifierSuite) TestInvitationLayoutAndEscaping() {
	err := s.notifier.SendInvitation(s.ctx, "bob@example.com", "<b>eve</b>", "Tales & <i>Lies</i>", "tok")
	s.Require().NoError(err)

	msg, _ := s.sender.LastTo("bob@example.com")
	doc := s.parse(msg.HTML)
	s.Equal("You're invited to write a story!", doc.Find("h1").Text())
	s.Equal("<b>eve</b>", doc.Find(".inviter").Text())
	s.Equal(0, doc.Find(".inviter b").Length())
	s.Equal("Tales & <i>Lies</i>", doc.Find(".story-title").Text())
	s.Equal("Join Story", doc.Find("a.action").Text())
	s.Equal("http://localhost:5173/accept-invite/tok", doc.Find(".link").Text())
}

func (s *NotifierSuite) TestVerificationLayout() {
	err := s.notifier.SendVerification(s.ctx, "alice@example.com", "alice", "abc123")
	s.Require().NoError(err)

	msg, _ := s.sender.LastTo("alice@example.com")
	s.True(strings.HasPrefix(msg.HTML, "<!doctype html>"))
	doc := s.parse(msg.HTML)
	s.Equal("Welcome to One Word Story!", doc.Find("h1").Text())
	s.Equal("Verify Email", doc.Find("a.action").Text())
	s.Equal("http://localhost:5173/verify-email?token=abc123", doc.Find(".link").Text())
}

func (s *NotifierSuite) TestUnsafeLinkIsNeutralized() {
	var buf bytes.Buffer
	err := mailer.InvitationEmail(mailer.InvitationData{
		InviterName: "alice",
		Link:        "javascript:alert(1)",
		ExpiryDays:  7,
	}).Render(s.ctx, &buf)
	s.Require().NoError(err)

	href, _ := s.parse(buf.String()).Find("a.action").Attr("href")
	s.NotContains(href, "javascript")
}

// Failure tests

func (s *NotifierSuite) TestDeliveryFailureIsReturnedAndCounted() {
	s.sender.FailDeliveryTo("bob@example.com")

	err := s.notifier.SendInvitation(s.ctx, "bob@example.com", "alice", "", "tok")
	s.ErrorIs(err, mocks.ErrMockDelivery)
	s.Empty(s.sender.Messages())

	expected := `
# HELP ows_email_failures_total Email deliveries that failed, by template.
# TYPE ows_email_failures_total counter
ows_email_failures_total{template="invitation"} 1
`
	s.NoError(testutil.GatherAndCompare(s.metrics.Registry, strings.NewReader(expected), "ows_email_failures_total"))
}
