package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

// UserService exposes the user directory to administrators.
type UserService struct {
	users  repository.UserRepository
	events publisher
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, events: newPublisher(dispatcher, logger, nil), logger: logger}
}

// ListUsers returns the directory. Callers without directory access get an
// error and never a partial list.
func (s *UserService) ListUsers(ctx context.Context, caller *auth.Principal, filter repository.UserFilter) ([]domain.UserProfile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !auth.CanAccessUserDirectory(caller.Role()) {
		return nil, errorutil.NewForbidden("not allowed to view the user directory")
	}
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, errorutil.NewValidationError("invalid user filter", map[string]any{"role": "unknown role"})
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "user")
	}
	return users, nil
}

// UpdateUserRole changes another user's role.
func (s *UserService) UpdateUserRole(ctx context.Context, caller *auth.Principal, userID string, role domain.Role) (*domain.UserProfile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !auth.Can(caller.Role(), auth.PermManageUserRoles) {
		return nil, errorutil.NewForbidden("not allowed to change user roles")
	}
	if !role.Valid() {
		return nil, errorutil.NewValidationError("invalid role", map[string]any{"role": "role must be one of user, ict_officer, admin, superuser"})
	}
	if userID == caller.UserID() {
		return nil, errorutil.NewForbidden("you cannot change your own role")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "user")
	}
	previous := user.Role
	if previous == role {
		return user, nil
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(err, "user")
	}

	s.logger.Info("user role changed",
		zap.String("user_id", user.ID),
		zap.String("old_role", string(previous)),
		zap.String("new_role", string(role)),
		zap.String("changed_by", caller.UserID()))
	s.events.publish(ctx, events.Event{
		Type:      events.EventUserRoleChanged,
		SubjectID: user.ID,
		Actor:     actorOf(caller),
		Payload:   events.RoleChangedPayload{Email: user.Email, OldRole: previous, NewRole: role},
	})
	return user, nil
}
