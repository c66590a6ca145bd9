package auth

import (
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

// Messages returned to clients when access is refused.
const (
	MsgLoginRequired = "Bạn cần đăng nhập để thực hiện thao tác này."
	MsgAdminRequired = "Bạn không có quyền thực hiện thao tác này."
	MsgNotOwner      = "Bạn không có quyền truy cập dữ liệu của người dùng khác."
)

// Actor is the caller of a request. A nil *Actor is an anonymous caller.
type Actor struct {
	UserID   int64
	Username string
	Role     string
	IsStaff  bool
}

// IsAdmin reports whether the actor may manage courses and events.
func (a *Actor) IsAdmin() bool {
	return a != nil && models.IsAdmin(a.IsStaff, a.Role)
}

// AuthorizationService centralises the permission rules shared by services.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// RequireUser fails with an unauthorized error for anonymous callers.
func (s *AuthorizationService) RequireUser(actor *Actor) error {
	if actor == nil || actor.UserID <= 0 {
		return apperrors.NewUnauthorizedError(MsgLoginRequired)
	}
	return nil
}

// RequireAdmin fails for anonymous callers and for authenticated non-admins.
func (s *AuthorizationService) RequireAdmin(actor *Actor) error {
	if err := s.RequireUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError(MsgAdminRequired)
	}
	return nil
}

// ValidateOwnership allows the record owner and administrators.
func (s *AuthorizationService) ValidateOwnership(actor *Actor, ownerID int64) error {
	if err := s.RequireUser(actor); err != nil {
		return err
	}
	if actor.UserID != ownerID && !actor.IsAdmin() {
		return apperrors.NewForbiddenError(MsgNotOwner)
	}
	return nil
}

// ListScope returns the user id a listing is restricted to. Authenticated callers
// see their own rows; anonymous callers get nil, meaning every row.
func (s *AuthorizationService) ListScope(actor *Actor) *int64 {
	if actor == nil || actor.UserID <= 0 {
		return nil
	}
	id := actor.UserID
	return &id
}
