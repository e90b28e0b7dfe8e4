package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

// SettingsInput is the full replacement set of system settings.
type SettingsInput struct {
	SystemName        string
	AdminEmail        string
	SupportPhone      string
	TicketPrefix      string
	NotificationEmail string
}

// SettingsService manages the installation-wide settings.
type SettingsService struct {
	settings repository.SettingsRepository
	events   publisher
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository, dispatcher events.Dispatcher) *SettingsService {
	return &SettingsService{settings: settings, events: newPublisher(dispatcher, nil, nil)}
}

// Current returns the stored settings or the defaults when none were saved.
// It performs no authorization and is meant for internal consumers.
func (s *SettingsService) Current(ctx context.Context) (domain.SystemSettings, error) {
	settings, err := s.settings.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultSystemSettings(), nil
	}
	if err != nil {
		return domain.SystemSettings{}, storeError(err, "settings")
	}
	return *settings, nil
}

// EnsureDefaults stores the default settings if nothing was saved yet.
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	_, err := s.settings.Get(ctx)
	if !errors.Is(err, repository.ErrNotFound) {
		return storeError(err, "settings")
	}
	defaults := domain.DefaultSystemSettings()
	return storeError(s.settings.Save(ctx, &defaults), "settings")
}

// Get returns the settings to a superuser.
func (s *SettingsService) Get(ctx context.Context, caller *auth.Principal) (domain.SystemSettings, error) {
	if err := requireCaller(caller); err != nil {
		return domain.SystemSettings{}, err
	}
	if !auth.CanManageSettings(caller.Role()) {
		return domain.SystemSettings{}, errorutil.NewForbidden("only a superuser can view system settings")
	}
	return s.Current(ctx)
}

// Update replaces the settings. Superuser only.
func (s *SettingsService) Update(ctx context.Context, caller *auth.Principal, input SettingsInput) (domain.SystemSettings, error) {
	if err := requireCaller(caller); err != nil {
		return domain.SystemSettings{}, err
	}
	if !auth.CanManageSettings(caller.Role()) {
		return domain.SystemSettings{}, errorutil.NewForbidden("only a superuser can change system settings")
	}

	settings := domain.SystemSettings{
		SystemName:        strings.TrimSpace(input.SystemName),
		AdminEmail:        domain.NormalizeEmail(input.AdminEmail),
		SupportPhone:      strings.TrimSpace(input.SupportPhone),
		TicketPrefix:      strings.TrimSpace(input.TicketPrefix),
		NotificationEmail: domain.NormalizeEmail(input.NotificationEmail),
	}
	details := map[string]any{}
	for field, value := range map[string]string{
		"system_name":        settings.SystemName,
		"admin_email":        settings.AdminEmail,
		"support_phone":      settings.SupportPhone,
		"ticket_prefix":      settings.TicketPrefix,
		"notification_email": settings.NotificationEmail,
	} {
		if value == "" {
			details[field] = field + " is required"
		}
	}
	if len(details) > 0 {
		return domain.SystemSettings{}, errorutil.NewValidationError("invalid settings", details)
	}

	updatedBy := caller.UserID()
	settings.UpdatedBy = &updatedBy
	if err := s.settings.Save(ctx, &settings); err != nil {
		return domain.SystemSettings{}, storeError(err, "settings")
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventSystemSettingsUpdated,
		SubjectID: "system_settings",
		Actor:     actorOf(caller),
		Payload:   settings,
	})
	return settings, nil
}
