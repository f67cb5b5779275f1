package mailer

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

// VerificationData fills the verification email
type VerificationData struct {
	Username string
	Link     string
}

// InvitationData fills the invitation email
type InvitationData struct {
	InviterName string
	StoryTitle  string
	Link        string
	ExpiryDays  int
}
