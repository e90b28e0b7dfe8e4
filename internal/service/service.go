// Package service holds the help desk workflows. Every access decision is
// delegated to the role policy in the auth package.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

// publisher stamps and publishes events. Handler failures are logged, never
// returned to the caller whose action already succeeded.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func newPublisher(dispatcher events.Dispatcher, logger *zap.Logger, now func() time.Time) publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return publisher{dispatcher: dispatcher, logger: logger, now: now}
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID),
			zap.Error(err))
	}
}

func actorOf(caller *auth.Principal) events.Actor {
	return events.Actor{UserID: caller.UserID(), Role: caller.Role()}
}

// requireCaller rejects requests without a resolved profile.
func requireCaller(caller *auth.Principal) error {
	if caller == nil || caller.Profile == nil {
		return errorutil.NewUnauthorized("authentication required")
	}
	return nil
}

// viewerContext scopes ticket store access to the caller's row policies.
func viewerContext(ctx context.Context, caller *auth.Principal) context.Context {
	return repository.ContextWithViewer(ctx, repository.Viewer{
		UserID: caller.UserID(),
		Role:   caller.Role(),
	})
}

// storeError maps repository failures onto API errors. Anything unexpected is
// reported as transient so the client may resubmit.
func storeError(err error, resource string) error {
	var domainErr *errorutil.DomainError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return errorutil.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrConflict):
		return errorutil.NewConflict(resource+" already exists", nil)
	case errors.Is(err, repository.ErrRowPolicy):
		return errorutil.NewForbidden("not allowed to modify this " + resource)
	default:
		return errorutil.NewUnavailable(resource+" store unavailable, please try again", err)
	}
}
