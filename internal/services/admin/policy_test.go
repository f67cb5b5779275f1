package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/onewordstory/internal/model"
)

func TestPolicyAuthorize(t *testing.T) {
	var p Policy

	assert.NoError(t, p.Authorize(&model.User{Role: model.RoleAdmin}))
	assert.ErrorIs(t, p.Authorize(&model.User{Role: model.RoleUser}), model.ErrAdminRequired)
	assert.ErrorIs(t, p.Authorize(nil), model.ErrAdminRequired)
}
