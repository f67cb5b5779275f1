package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestIsWord(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"Once", true},
		{"  upon ", true},
		{"don't", true},
		{"well-known", true},
		{"", false},
		{"   ", false},
		{"two words", false},
		{"abc123", false},
		{"héllo", false},
		{strings.Repeat("a", 50), true},
		{strings.Repeat("a", 51), false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWord(tt.word))
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("alice@example.com"))
	assert.True(t, IsEmail(" Bob.Smith+tag@mail.example.org "))
	assert.False(t, IsEmail("alice"))
	assert.False(t, IsEmail("alice@"))
	assert.False(t, IsEmail("alice@localhost"))
	assert.False(t, IsEmail("a b@example.com"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestRegisterCollectsAllMessages(t *testing.T) {
	errs := Register("nope", "x!", "123")
	require.NotNil(t, errs)
	assert.Equal(t, []string{MsgEmail, MsgUsername, MsgPassword}, errs.Messages)
	assert.Equal(t, MsgEmail+", "+MsgUsername+", "+MsgPassword, errs.Error())
}

func TestRegisterValid(t *testing.T) {
	assert.Nil(t, Register("alice@example.com", "alice_01", "secret"))
}

func TestLogin(t *testing.T) {
	assert.Nil(t, Login("alice@example.com", "x"))

	errs := Login("alice@example.com", "")
	require.NotNil(t, errs)
	assert.Equal(t, []string{MsgPasswordNeeded}, errs.Messages)
}

func TestCreateStory(t *testing.T) {
	assert.Nil(t, CreateStory(nil, nil))
	assert.Nil(t, CreateStory(strPtr("A title"), strPtr("Once")))
	assert.Nil(t, CreateStory(nil, strPtr("")))

	errs := CreateStory(strPtr(strings.Repeat("t", 201)), strPtr("two words"))
	require.NotNil(t, errs)
	assert.Equal(t, []string{MsgTitle, MsgInitialWord}, errs.Messages)
}

func TestWord(t *testing.T) {
	assert.Nil(t, Word("upon"))

	errs := Word("up on")
	require.NotNil(t, errs)
	assert.Equal(t, MsgWord, errs.Error())
}

func TestInvite(t *testing.T) {
	storyID := uuid.NewString()
	assert.Nil(t, Invite(storyID, []string{"b@example.com"}))

	errs := Invite("not-a-uuid", nil)
	require.NotNil(t, errs)
	assert.Equal(t, []string{MsgStoryID, MsgEmailsRequired}, errs.Messages)

	errs = Invite(storyID, []string{"bad", "also bad", "ok@example.com"})
	require.NotNil(t, errs)
	assert.Equal(t, []string{MsgEmailsInvalid}, errs.Messages)
}

func TestID(t *testing.T) {
	assert.Nil(t, ID(uuid.NewString()))
	require.NotNil(t, ID("123"))
	assert.Equal(t, MsgID, ID("123").Error())
}
