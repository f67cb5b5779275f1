package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records the last request and replies with a canned body
type fakeAPI struct {
	status   int
	body     string
	method   string
	path     string
	auth     string
	received map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.method = r.Method
	f.path = r.URL.EscapedPath()
	f.auth = r.Header.Get("Authorization")
	f.received = nil
	_ = json.NewDecoder(r.Body).Decode(&f.received)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func run(t *testing.T, api *fakeAPI, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	t.Setenv("OWS_TOKEN", "")
	t.Setenv("OWS_SERVER", srv.URL)
	t.Setenv("OWS_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoginSavesToken(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: `{"token":"tok-1","user":{"id":"u1","email":"a@example.com","username":"alice","emailVerified":true}}`}
	tokenFile := filepath.Join(t.TempDir(), "nested", "token")

	_, err := run(t, api, "--token-file", tokenFile, "auth", "login", "--email", "a@example.com", "--password", "secret123")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, api.method)
	assert.Equal(t, "/api/auth/login", api.path)
	assert.Equal(t, "a@example.com", api.received["email"])

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", string(data))
}

func TestSavedTokenIsSent(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: `{"user":{"id":"u1","email":"a@example.com","username":"alice","emailVerified":false}}`}
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("tok-2\n"), 0o600))

	out, err := run(t, api, "--token-file", tokenFile, "auth", "me")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-2", api.auth)
	assert.Contains(t, out, "User: alice <a@example.com> (u1)")
	assert.Contains(t, out, "Verified: no")
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	api := &fakeAPI{status: http.StatusForbidden, body: `{"error":{"code":"NOT_YOUR_TURN","message":"It is not your turn"}}`}
	srv := httptest.NewServer(api)
	defer srv.Close()

	err := NewClient(srv.URL+"/", "tok").Post(t.Context(), "/api/stories/s1/words", map[string]string{"word": "hi"}, nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "NOT_YOUR_TURN", apiErr.Code)
	assert.Equal(t, "It is not your turn (NOT_YOUR_TURN)", err.Error())
}

func TestNonEnvelopeError(t *testing.T) {
	api := &fakeAPI{status: http.StatusBadGateway, body: `upstream down`}
	srv := httptest.NewServer(api)
	defer srv.Close()

	err := NewClient(srv.URL, "").Get(t.Context(), "/health", nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502: upstream down", err.Error())
}

func TestStoryGetRendersText(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: `{"story":{
		"id":"s1","title":"Campfire","isEnded":false,"createdBy":{"id":"u1","username":"alice"},
		"wordCount":3,"participantCount":2,"currentTurn":1,"isYourTurn":false,
		"words":[{"word":"Once"},{"word":"upon"},{"word":"a"}],
		"participants":[{"id":"u1","username":"alice","turnOrder":0},{"id":"u2","username":"bob","turnOrder":1}]}}`}

	out, err := run(t, api, "story", "get", "s1")
	require.NoError(t, err)
	assert.Equal(t, "/api/stories/s1", api.path)
	assert.Contains(t, out, "Story: Campfire (s1)")
	assert.Contains(t, out, "Status: turn 1")
	assert.Contains(t, out, "  2. bob <- next")
	assert.Contains(t, out, "Once upon a")
}

func TestStoryCreateSendsOnlyGivenFields(t *testing.T) {
	api := &fakeAPI{status: http.StatusCreated, body: `{"story":{"id":"s1","title":null,"createdBy":{"id":"u1","username":"alice"}}}`}

	out, err := run(t, api, "story", "create", "--word", "Once")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"initialWord": "Once"}, api.received)
	assert.Contains(t, out, "Story: (untitled) (s1)")
	assert.Contains(t, out, "Status: waiting for players")
}

func TestInviteSendJSONOutput(t *testing.T) {
	api := &fakeAPI{status: http.StatusCreated, body: `{"message":"1 invitation(s) sent successfully","invitations":[{"id":"i1","email":"bob@example.com"}],"errors":[{"email":"alice@example.com","reason":"Already a participant"}]}`}

	out, err := run(t, api, "--output", "json", "invite", "send", "s1", "bob@example.com", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "s1", api.received["storyId"])
	assert.Equal(t, []any{"bob@example.com", "alice@example.com"}, api.received["emails"])

	var result InvitationsResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "1 invitation(s) sent successfully", result.Message)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Already a participant", result.Errors[0].Reason)
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: `{"message":"ok","story":{"id":"s1"}}`}

	_, err := run(t, api, "invite", "accept", "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/invitations/a%2Fb", api.path)
}

func TestLogoutRemovesToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("tok"), 0o600))

	out, err := run(t, &fakeAPI{status: http.StatusOK}, "--token-file", tokenFile, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	_, err = os.Stat(tokenFile)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
