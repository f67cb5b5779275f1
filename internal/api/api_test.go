package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/onewordstory/internal/api/apierr"
	"github.com/mcoot/onewordstory/internal/api/response"
	"github.com/mcoot/onewordstory/internal/factory"
	"github.com/mcoot/onewordstory/internal/model"
)

// testServer serves the real router on a TestApp
type testServer struct {
	app     *factory.TestApp
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	app := factory.NewTestApp(t)
	return &testServer{app: app, handler: app.Router()}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, rr.Body.String())
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, message, resp.Error.Message)
}

type account struct {
	token string
	id    string
	email string
}

// register signs up a user without verifying their email
func register(t *testing.T, ts *testServer, username string) account {
	t.Helper()
	email := username + "@example.com"
	rr := ts.request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"username": username,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decode[response.AuthResponse](t, rr)
	return account{token: resp.Token, id: resp.User.ID, email: email}
}

// verified signs up a user and follows their verification link
func verified(t *testing.T, ts *testServer, username string) account {
	t.Helper()
	acct := register(t, ts, username)

	var user model.User
	require.NoError(t, ts.app.DB.First(&user, "id = ?", acct.id).Error)
	require.NotNil(t, user.VerificationToken)

	rr := ts.request(http.MethodGet, "/api/auth/verify/"+*user.VerificationToken, nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return acct
}

func createStory(t *testing.T, ts *testServer, owner account, initialWord string) string {
	t.Helper()
	body := map[string]string{"title": "Campfire"}
	if initialWord != "" {
		body["initialWord"] = initialWord
	}
	rr := ts.request(http.MethodPost, "/api/stories", body, owner.token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.StoryResponse](t, rr).Story.ID
}

// join invites acct to the story as inviter and accepts on their behalf
func join(t *testing.T, ts *testServer, storyID string, inviter, acct account) {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/invitations", map[string]any{
		"storyId": storyID,
		"emails":  []string{acct.email},
	}, inviter.token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var inv model.Invitation
	require.NoError(t, ts.app.DB.Where("story_id = ? AND email = ?", storyID, acct.email).First(&inv).Error)

	rr = ts.request(http.MethodGet, "/api/invitations/"+inv.Token, nil, acct.token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func addWord(ts *testServer, storyID string, acct account, word string) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, "/api/stories/"+storyID+"/words", map[string]string{"word": word}, acct.token)
}

// Operational tests

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decode[response.HealthResponse](t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, ts.app.MockClock.Now().Equal(resp.Timestamp))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodGet, "/health", nil, "")

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `ows_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t)
	ts.app.RateLimit.MaxRequests = 2
	ts.handler = ts.app.Router()

	for i := range 2 {
		rr := ts.request(http.MethodGet, "/api/stories", nil, "")
		assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, []string{"1", "0"}[i], rr.Header().Get("X-RateLimit-Remaining"))
	}

	rr := ts.request(http.MethodGet, "/api/stories", nil, "")
	assertError(t, rr, http.StatusTooManyRequests, "Too many requests, please try again later.")
	assert.Equal(t, "900", rr.Header().Get("Retry-After"))

	// operational endpoints are outside the limiter
	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/health", nil, "").Code)

	ts.app.MockClock.Advance(15 * time.Minute)
	assert.Equal(t, http.StatusUnauthorized, ts.request(http.MethodGet, "/api/stories", nil, "").Code)
}

func TestCORSAllowsFrontendOrigin(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

// Auth tests

func TestRegisterLoginAndMe(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    " Alice@Example.com ",
		"username": "alice",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	registered := decode[response.AuthResponse](t, rr)
	assert.Equal(t, "Registration successful. Please check your email to verify your account.", registered.Message)
	assert.Equal(t, "alice@example.com", registered.User.Email)
	assert.False(t, registered.User.EmailVerified)
	assert.NotEmpty(t, registered.Token)

	msg, ok := ts.app.MockSender.LastTo("alice@example.com")
	require.True(t, ok)
	assert.Equal(t, "Verify your email - One Word Story", msg.Subject)

	rr = ts.request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "alice@example.com",
		"username": "alice2",
		"password": "secret123",
	}, "")
	assertError(t, rr, http.StatusConflict, "Email already registered")

	rr = ts.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}, "")
	assertError(t, rr, http.StatusUnauthorized, "Invalid credentials")

	rr = ts.request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	loggedIn := decode[response.AuthResponse](t, rr)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	rr = ts.request(http.MethodGet, "/api/auth/me", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice", decode[response.UserResponse](t, rr).User.Username)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "not-an-email",
		"username": "al",
		"password": "123",
	}, "")
	assertError(t, rr, http.StatusBadRequest,
		"Valid email is required, "+
			"Username must be 3-50 characters and contain only letters, numbers, hyphens, and underscores, "+
			"Password must be at least 6 characters")
}

func TestVerifyEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueToken("verify-me")
	acct := register(t, ts, "alice")

	rr := ts.request(http.MethodGet, "/api/auth/verify/wrong", nil, "")
	assertError(t, rr, http.StatusBadRequest, "Invalid or expired verification token")

	rr = ts.request(http.MethodGet, "/api/auth/verify/verify-me", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[response.UserResponse](t, rr)
	assert.Equal(t, "Email verified successfully", resp.Message)
	assert.Equal(t, acct.id, resp.User.ID)
	assert.True(t, resp.User.EmailVerified)

	// tokens are single use
	rr = ts.request(http.MethodGet, "/api/auth/verify/verify-me", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthenticationErrors(t *testing.T) {
	ts := newTestServer(t)
	acct := register(t, ts, "alice")

	assertError(t, ts.request(http.MethodGet, "/api/auth/me", nil, ""), http.StatusUnauthorized, "No token provided")
	assertError(t, ts.request(http.MethodGet, "/api/auth/me", nil, "garbage"), http.StatusUnauthorized, "Invalid token")

	ts.app.MockClock.Advance(8 * 24 * time.Hour)
	assertError(t, ts.request(http.MethodGet, "/api/auth/me", nil, acct.token), http.StatusUnauthorized, "Token expired")
}

func TestDeletedUserTokenRejected(t *testing.T) {
	ts := newTestServer(t)
	acct := register(t, ts, "alice")
	require.NoError(t, ts.app.DB.Delete(&model.User{}, "id = ?", acct.id).Error)

	assertError(t, ts.request(http.MethodGet, "/api/auth/me", nil, acct.token), http.StatusUnauthorized, "User not found")
}

// Story tests

func TestUnverifiedUserCannotCreateStory(t *testing.T) {
	ts := newTestServer(t)
	acct := register(t, ts, "alice")

	rr := ts.request(http.MethodPost, "/api/stories", map[string]string{"title": "Nope"}, acct.token)
	assertError(t, rr, http.StatusForbidden, "Email verification required")

	rr = ts.request(http.MethodGet, "/api/stories", nil, acct.token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateStory(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")

	rr := ts.request(http.MethodPost, "/api/stories", map[string]string{"title": "  Campfire  ", "initialWord": "Once"}, alice.token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	story := decode[response.StoryResponse](t, rr).Story
	assert.Equal(t, "Campfire", *story.Title)
	assert.Equal(t, alice.id, story.CreatedBy.ID)
	assert.Equal(t, 1, story.WordCount)
	assert.Equal(t, 1, story.ParticipantCount)
	assert.Nil(t, story.CurrentTurn)
	assert.True(t, story.NeedsMoreParticipants)

	rr = ts.request(http.MethodPost, "/api/stories", map[string]string{"initialWord": "two words"}, alice.token)
	assertError(t, rr, http.StatusBadRequest, "Initial word must be 1-50 letters (hyphens and apostrophes allowed)")
}

func TestStoryTurnFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")
	bob := verified(t, ts, "bob")

	storyID := createStory(t, ts, alice, "Once")
	assertError(t, addWord(ts, storyID, alice, "upon"), http.StatusBadRequest,
		"Invite at least one other participant before continuing the story")

	join(t, ts, storyID, alice, bob)

	assertError(t, addWord(ts, storyID, alice, "upon"), http.StatusForbidden, "It is not your turn")
	assertError(t, addWord(ts, storyID, bob, "up on"), http.StatusBadRequest,
		"Word must be 1-50 letters (hyphens and apostrophes allowed)")

	rr := addWord(ts, storyID, bob, "upon")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	word := decode[response.WordResponse](t, rr).Word
	assert.Equal(t, "upon", word.Word)
	assert.Equal(t, 1, word.Position)
	assert.Equal(t, "bob", word.AddedBy.Username)

	rr = ts.request(http.MethodGet, "/api/stories/"+storyID, nil, alice.token)
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decode[response.StoryDetailResponse](t, rr).Story
	assert.Equal(t, 2, detail.WordCount)
	require.NotNil(t, detail.CurrentTurn)
	assert.Equal(t, 0, *detail.CurrentTurn)
	assert.True(t, detail.IsYourTurn)
	require.Len(t, detail.Words, 2)
	assert.Equal(t, "Once", detail.Words[0].Word)
	require.Len(t, detail.Participants, 2)
	assert.Equal(t, "bob", detail.Participants[1].Username)
	assert.Nil(t, detail.EndedBy)

	rr = ts.request(http.MethodGet, "/api/stories", nil, bob.token)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.StoriesResponse](t, rr).Stories
	require.Len(t, list, 1)
	assert.False(t, list[0].IsYourTurn)

	assertError(t, ts.request(http.MethodPost, "/api/stories/"+storyID+"/end", nil, bob.token),
		http.StatusForbidden, "You can only end the story on your turn")

	rr = ts.request(http.MethodPost, "/api/stories/"+storyID+"/end", nil, alice.token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ended := decode[response.EndStoryResponse](t, rr)
	assert.Equal(t, "Story ended successfully", ended.Message)
	assert.Equal(t, alice.id, ended.EndedBy.ID)

	assertError(t, addWord(ts, storyID, bob, "a"), http.StatusBadRequest, "This story has ended")
	assertError(t, ts.request(http.MethodPost, "/api/stories/"+storyID+"/end", nil, bob.token),
		http.StatusBadRequest, "This story has already ended")

	rr = ts.request(http.MethodGet, "/api/stories/"+storyID, nil, bob.token)
	detail = decode[response.StoryDetailResponse](t, rr).Story
	assert.True(t, detail.IsEnded)
	assert.Nil(t, detail.CurrentTurn)
	require.NotNil(t, detail.EndedBy)
	assert.Equal(t, "alice", detail.EndedBy.Username)
}

func TestStoryAccessChecks(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")
	carol := verified(t, ts, "carol")
	storyID := createStory(t, ts, alice, "")

	assertError(t, ts.request(http.MethodGet, "/api/stories/"+storyID, nil, carol.token),
		http.StatusForbidden, "You are not a participant in this story")
	assertError(t, addWord(ts, storyID, carol, "hello"),
		http.StatusForbidden, "You are not a participant in this story")
	assertError(t, ts.request(http.MethodGet, "/api/stories/not-a-uuid", nil, alice.token),
		http.StatusBadRequest, "Invalid ID format")
	assertError(t, ts.request(http.MethodGet, "/api/stories/00000000-0000-0000-0000-000000000000", nil, alice.token),
		http.StatusForbidden, "You are not a participant in this story")
}

func TestDeleteStory(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")
	bob := verified(t, ts, "bob")
	storyID := createStory(t, ts, alice, "Once")
	join(t, ts, storyID, alice, bob)

	assertError(t, ts.request(http.MethodDelete, "/api/stories/"+storyID, nil, bob.token),
		http.StatusForbidden, "Story not found or you are not the creator")

	rr := ts.request(http.MethodDelete, "/api/stories/"+storyID, nil, alice.token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Story deleted successfully", decode[response.MessageResponse](t, rr).Message)

	rr = ts.request(http.MethodGet, "/api/stories", nil, bob.token)
	assert.Empty(t, decode[response.StoriesResponse](t, rr).Stories)
}

// Invitation tests

func TestCreateInvitations(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")
	storyID := createStory(t, ts, alice, "")
	ts.app.MockSender.FailDeliveryTo("broken@example.com")

	rr := ts.request(http.MethodPost, "/api/invitations", map[string]any{
		"storyId": storyID,
		"emails":  []string{"bob@example.com", "alice@example.com", "broken@example.com"},
	}, alice.token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decode[response.CreateInvitationsResponse](t, rr)
	assert.Equal(t, "1 invitation(s) sent successfully", resp.Message)
	require.Len(t, resp.Invitations, 1)
	assert.Equal(t, "bob@example.com", resp.Invitations[0].Email)
	assert.True(t, ts.app.MockClock.Now().Add(model.InvitationTTL).Equal(resp.Invitations[0].ExpiresAt))
	assert.ElementsMatch(t, []response.InvitationError{
		{Email: "alice@example.com", Reason: "Already a participant"},
		{Email: "broken@example.com", Reason: "Failed to send email"},
	}, resp.Errors)

	rr = ts.request(http.MethodGet, "/api/invitations/stories/"+storyID+"/pending", nil, alice.token)
	require.Equal(t, http.StatusOK, rr.Code)
	pending := decode[response.PendingInvitationsResponse](t, rr).Invitations
	assert.Len(t, pending, 2)
	assert.Equal(t, "alice", pending[0].InvitedBy)
}

func TestCreateInvitationsErrors(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")
	carol := verified(t, ts, "carol")
	storyID := createStory(t, ts, alice, "")

	rr := ts.request(http.MethodPost, "/api/invitations", map[string]any{
		"storyId": "nope",
		"emails":  []string{},
	}, alice.token)
	assertError(t, rr, http.StatusBadRequest, "Valid story ID is required, At least one email is required")

	rr = ts.request(http.MethodPost, "/api/invitations", map[string]any{
		"storyId": storyID,
		"emails":  []string{"bob@example.com"},
	}, carol.token)
	assertError(t, rr, http.StatusForbidden, "Story not found or you are not a participant")

	// the response omits errors entirely when there are none
	rr = ts.request(http.MethodPost, "/api/invitations", map[string]any{
		"storyId": storyID,
		"emails":  []string{"bob@example.com"},
	}, alice.token)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"errors"`)
}

func TestAcceptInvitationErrors(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")
	bob := verified(t, ts, "bob")
	carol := verified(t, ts, "carol")
	storyID := createStory(t, ts, alice, "")

	ts.app.MockRandom.QueueToken("bob-token")
	rr := ts.request(http.MethodPost, "/api/invitations", map[string]any{
		"storyId": storyID,
		"emails":  []string{bob.email},
	}, alice.token)
	require.Equal(t, http.StatusCreated, rr.Code)

	assertError(t, ts.request(http.MethodGet, "/api/invitations/unknown", nil, bob.token),
		http.StatusNotFound, "Invalid invitation token")
	assertError(t, ts.request(http.MethodGet, "/api/invitations/bob-token", nil, carol.token),
		http.StatusForbidden, "This invitation was sent to a different email address")

	rr = ts.request(http.MethodGet, "/api/invitations/bob-token", nil, bob.token)
	require.Equal(t, http.StatusOK, rr.Code)
	accepted := decode[response.AcceptInvitationResponse](t, rr)
	assert.Equal(t, "Successfully joined the story", accepted.Message)
	assert.Equal(t, storyID, accepted.Story.ID)

	assertError(t, ts.request(http.MethodGet, "/api/invitations/bob-token", nil, bob.token),
		http.StatusBadRequest, "Invitation already accepted")

	rr = ts.request(http.MethodGet, "/api/invitations/stories/"+storyID+"/participants", nil, bob.token)
	require.Equal(t, http.StatusOK, rr.Code)
	participants := decode[response.ParticipantsResponse](t, rr).Participants
	require.Len(t, participants, 2)
	assert.Equal(t, bob.email, participants[1].Email)
	assert.Equal(t, 1, participants[1].TurnOrder)

	assertError(t, ts.request(http.MethodGet, "/api/invitations/stories/"+storyID+"/participants", nil, carol.token),
		http.StatusForbidden, "You are not a participant in this story")
}

func TestAcceptExpiredInvitation(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")
	bob := verified(t, ts, "bob")
	storyID := createStory(t, ts, alice, "")

	ts.app.MockRandom.QueueToken("late-token")
	rr := ts.request(http.MethodPost, "/api/invitations", map[string]any{
		"storyId": storyID,
		"emails":  []string{bob.email},
	}, alice.token)
	require.Equal(t, http.StatusCreated, rr.Code)

	ts.app.MockClock.Advance(model.InvitationTTL + time.Hour)
	login := ts.request(http.MethodPost, "/api/auth/login", map[string]string{"email": bob.email, "password": "secret123"}, "")
	fresh := decode[response.AuthResponse](t, login).Token

	assertError(t, ts.request(http.MethodGet, "/api/invitations/late-token", nil, fresh),
		http.StatusBadRequest, "Invitation has expired")
}

// Admin tests

func TestAdminRequiresRole(t *testing.T) {
	ts := newTestServer(t)
	alice := verified(t, ts, "alice")

	assertError(t, ts.request(http.MethodGet, "/api/admin/users", nil, alice.token),
		http.StatusForbidden, "Admin access required")
	assertError(t, ts.request(http.MethodGet, "/api/admin/users", nil, ""),
		http.StatusUnauthorized, "No token provided")
}

func TestAdminUserManagement(t *testing.T) {
	ts := newTestServer(t)
	root := verified(t, ts, "admin")
	alice := verified(t, ts, "alice")
	ts.app.MockClock.Advance(time.Minute)
	bob := register(t, ts, "bob")

	rr := ts.request(http.MethodGet, "/api/admin/users", nil, root.token)
	require.Equal(t, http.StatusOK, rr.Code)
	users := decode[response.UsersResponse](t, rr).Users
	require.Len(t, users, 3)
	assert.Equal(t, "bob", users[0].Username)

	var roles = map[string]string{}
	for _, u := range users {
		roles[u.Username] = u.Role
	}
	assert.Equal(t, "admin", roles["admin"])
	assert.Equal(t, "user", roles["alice"])

	assertError(t, ts.request(http.MethodPost, "/api/admin/users/"+alice.id+"/resend-verification", nil, root.token),
		http.StatusBadRequest, "User email is already verified")

	rr = ts.request(http.MethodPost, "/api/admin/users/"+bob.id+"/resend-verification", nil, root.token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resent := decode[response.ResendVerificationResponse](t, rr)
	assert.Equal(t, "Verification email sent successfully", resent.Message)
	assert.Equal(t, bob.email, resent.Email)

	assertError(t, ts.request(http.MethodDelete, "/api/admin/users/"+root.id, nil, root.token),
		http.StatusBadRequest, "Cannot delete your own account")
	assertError(t, ts.request(http.MethodDelete, "/api/admin/users/00000000-0000-0000-0000-000000000000", nil, root.token),
		http.StatusNotFound, "User not found")

	rr = ts.request(http.MethodDelete, "/api/admin/users/"+alice.id, nil, root.token)
	require.Equal(t, http.StatusOK, rr.Code)
	deleted := decode[response.DeleteUserResponse](t, rr)
	assert.Equal(t, "User deleted successfully", deleted.Message)
	assert.Equal(t, "alice", deleted.User.Username)

	assertError(t, ts.request(http.MethodGet, "/api/auth/me", nil, alice.token), http.StatusUnauthorized, "User not found")
}
