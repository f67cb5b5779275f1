// Package admin holds user administration and the policy that guards it.
package admin

import "github.com/mcoot/onewordstory/internal/model"

// Policy decides who may use administrative operations
type Policy struct{}

// Authorize returns ErrAdminRequired unless user holds the admin role
func (Policy) Authorize(user *model.User) error {
	if user == nil || !user.IsAdmin() {
		return model.ErrAdminRequired
	}
	return nil
}
