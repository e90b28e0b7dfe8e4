package service

import (
	"context"
	"time"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/dashboard"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

// DashboardService summarizes the tickets a caller can see.
type DashboardService struct {
	tickets repository.TicketRepository
	policy  dashboard.SLAPolicy
	now     func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(tickets repository.TicketRepository, policy dashboard.SLAPolicy, clock func() time.Time) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	if policy == nil {
		policy = dashboard.DefaultSLAPolicy()
	}
	return &DashboardService{tickets: tickets, policy: policy, now: clock}
}

// Summary aggregates the caller's visible tickets: their own for regular
// users, all tickets for staff.
func (s *DashboardService) Summary(ctx context.Context, caller *auth.Principal) (dashboard.Summary, error) {
	if err := requireCaller(caller); err != nil {
		return dashboard.Summary{}, err
	}
	if !auth.Can(caller.Role(), auth.PermViewOwnTickets) {
		return dashboard.Summary{}, errorutil.NewForbidden("not allowed to view tickets")
	}
	filter := repository.TicketFilter{}
	if !auth.Can(caller.Role(), auth.PermViewAllTickets) {
		self := caller.UserID()
		filter.SubmittedByID = &self
	}
	return s.summarize(ctx, caller, filter)
}

// Reports aggregates every ticket for callers holding the reports permission.
func (s *DashboardService) Reports(ctx context.Context, caller *auth.Principal) (dashboard.Summary, error) {
	if err := requireCaller(caller); err != nil {
		return dashboard.Summary{}, err
	}
	if !auth.Can(caller.Role(), auth.PermViewReports) {
		return dashboard.Summary{}, errorutil.NewForbidden("not allowed to view reports")
	}
	return s.summarize(ctx, caller, repository.TicketFilter{})
}

func (s *DashboardService) summarize(ctx context.Context, caller *auth.Principal, filter repository.TicketFilter) (dashboard.Summary, error) {
	tickets, err := s.tickets.List(viewerContext(ctx, caller), filter)
	if err != nil {
		return dashboard.Summary{}, storeError(err, "ticket")
	}
	visible := tickets[:0]
	for _, ticket := range tickets {
		if auth.CanView(caller.Role(), caller.UserID(), &ticket) {
			visible = append(visible, ticket)
		}
	}
	return dashboard.Summarize(visible, s.now(), s.policy), nil
}
