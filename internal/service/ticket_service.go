package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/assist"
	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/cache"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

const (
	defaultListLimit   = 50
	maxListLimit       = 200
	referenceAttempts  = 3
	referenceHexLength = 8
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets   repository.TicketRepository
	history   repository.TicketHistoryRepository
	settings  *SettingsService
	cache     *cache.TicketListCache
	sanitizer *bluemonday.Policy
	events    publisher
	logger    *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Settings    *SettingsService
	Cache       *cache.TicketListCache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// TicketCreateInput describes ticket creation payload. An empty Priority is
// estimated from the description.
type TicketCreateInput struct {
	Title          string
	Description    string
	Category       domain.TicketCategory
	Priority       domain.TicketPriority
	SpecificOffice *string
}

// TicketListFilter describes listing filters. MineOnly restricts staff to
// their own submissions; regular users are always restricted.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Categories []domain.TicketCategory
	SearchTerm *string
	MineOnly   bool
	Limit      int
	Offset     int
}

// TicketPatch lists the triage fields to change. An empty AssignedTo clears the assignee.
type TicketPatch struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssignedTo *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:   deps.TicketRepo,
		history:   deps.HistoryRepo,
		settings:  deps.Settings,
		cache:     deps.Cache,
		sanitizer: bluemonday.StrictPolicy(),
		events:    newPublisher(deps.Dispatcher, logger, deps.Clock),
		logger:    logger,
	}
}

// Assess previews the estimated priority and suggested solutions for a draft ticket.
func (s *TicketService) Assess(description string, category domain.TicketCategory) (assist.Assessment, error) {
	if category != "" && !category.Valid() {
		return assist.Assessment{}, errorutil.NewValidationError("invalid ticket", map[string]any{"category": "unknown category"})
	}
	return assist.Assess(s.clean(description, false), category), nil
}

// CreateTicket files a ticket for the caller.
func (s *TicketService) CreateTicket(ctx context.Context, caller *auth.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !auth.Can(caller.Role(), auth.PermCreateTicket) {
		return nil, errorutil.NewForbidden("not allowed to submit tickets")
	}

	profile := caller.Profile
	title := s.clean(input.Title, true)
	description := s.clean(input.Description, false)

	details := map[string]any{}
	if title == "" {
		details["title"] = "title is required"
	}
	if description == "" {
		details["description"] = "description is required"
	}
	if !input.Category.Valid() {
		details["category"] = "category must be one of hardware, software, network, account, email, printer, other"
	}
	if input.Priority != "" && !input.Priority.Valid() {
		details["priority"] = "priority must be one of low, medium, high"
	}
	var office *string
	if input.SpecificOffice != nil {
		if trimmed := strings.TrimSpace(*input.SpecificOffice); trimmed != "" {
			if !domain.IsValidOffice(profile.Department, trimmed) {
				details["specific_office"] = "office is not part of " + profile.Department
			}
			office = &trimmed
		}
	}
	if len(details) > 0 {
		return nil, errorutil.NewValidationError("invalid ticket", details)
	}

	priority := input.Priority
	if priority == "" {
		priority = assist.EstimatePriority(description, input.Category)
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:          title,
		Description:    description,
		Category:       input.Category,
		Priority:       priority,
		Status:         domain.TicketStatusOpen,
		Department:     profile.Department,
		SpecificOffice: office,
		SubmittedBy:    domain.SubmitterSnapshot(profile),
	}

	scoped := viewerContext(ctx, caller)
	for attempt := 1; ; attempt++ {
		ticket.ID = ""
		ticket.Reference = generateReference(settings.TicketPrefix)
		err = s.tickets.Create(scoped, ticket)
		if !errors.Is(err, repository.ErrConflict) || attempt == referenceAttempts {
			break
		}
	}
	if err != nil {
		return nil, storeError(err, "ticket")
	}
	s.cache.Invalidate(ctx)

	s.recordHistory(ctx, caller, ticket.ID, domain.ChangeTypeCreated, nil, map[string]any{
		"status":   ticket.Status,
		"priority": ticket.Priority,
	})
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("reference", ticket.Reference),
		zap.String("priority", string(ticket.Priority)))
	s.events.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		Actor:     actorOf(caller),
		Payload: events.TicketCreatedPayload{
			Reference:      ticket.Reference,
			Title:          ticket.Title,
			Category:       ticket.Category,
			Priority:       ticket.Priority,
			Department:     ticket.Department,
			SubmitterEmail: ticket.SubmittedBy.Email,
		},
	})
	return ticket, nil
}

// ListTickets returns the tickets visible to the caller. Regular users only
// ever get their own submissions, whatever the filter asked for.
func (s *TicketService) ListTickets(ctx context.Context, caller *auth.Principal, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !auth.Can(caller.Role(), auth.PermViewOwnTickets) {
		return nil, errorutil.NewForbidden("not allowed to view tickets")
	}
	if err := validateListFilter(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Categories: filter.Categories,
		SearchTerm: filter.SearchTerm,
		Order:      listOrder(caller.Role()),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if repoFilter.Limit <= 0 {
		repoFilter.Limit = defaultListLimit
	}
	if repoFilter.Limit > maxListLimit {
		repoFilter.Limit = maxListLimit
	}
	if repoFilter.Offset < 0 {
		repoFilter.Offset = 0
	}
	if filter.MineOnly || !auth.Can(caller.Role(), auth.PermViewAllTickets) {
		self := caller.UserID()
		repoFilter.SubmittedByID = &self
	}

	viewer := repository.Viewer{UserID: caller.UserID(), Role: caller.Role()}
	cached, cacheKey, ok := s.cache.Get(ctx, viewer, repoFilter)
	if ok {
		return cached, nil
	}
	tickets, err := s.tickets.List(viewerContext(ctx, caller), repoFilter)
	if err != nil {
		return nil, storeError(err, "ticket")
	}
	s.cache.Set(ctx, cacheKey, tickets)
	return tickets, nil
}

// GetTicket returns a ticket the caller may view.
func (s *TicketService) GetTicket(ctx context.Context, caller *auth.Principal, id string) (*domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(viewerContext(ctx, caller), id)
	if err != nil {
		return nil, storeError(err, "ticket")
	}
	if !auth.CanView(caller.Role(), caller.UserID(), ticket) {
		return nil, errorutil.NewForbidden("not allowed to view this ticket")
	}
	return ticket, nil
}

// UpdateTicket applies a staff triage patch. Any status may follow any other.
func (s *TicketService) UpdateTicket(ctx context.Context, caller *auth.Principal, id string, patch TicketPatch) (*domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	required := patch.permissions()
	if len(required) == 0 {
		return nil, errorutil.NewValidationError("nothing to update", nil)
	}
	for _, permission := range required {
		if !auth.CanMutate(caller.Role(), permission) {
			return nil, errorutil.NewForbidden("not allowed to update tickets")
		}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, errorutil.NewValidationError("invalid ticket update", map[string]any{"status": "status must be one of open, in-progress, resolved, closed"})
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, errorutil.NewValidationError("invalid ticket update", map[string]any{"priority": "priority must be one of low, medium, high"})
	}

	scoped := viewerContext(ctx, caller)
	ticket, err := s.tickets.GetByID(scoped, id)
	if err != nil {
		return nil, storeError(err, "ticket")
	}
	before := *ticket

	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	if patch.AssignedTo != nil {
		ticket.AssignedTo = nil
		if assignee := strings.TrimSpace(*patch.AssignedTo); assignee != "" {
			ticket.AssignedTo = &assignee
		}
	}

	if err := s.tickets.Update(scoped, ticket); err != nil {
		return nil, storeError(err, "ticket")
	}
	s.cache.Invalidate(ctx)
	s.recordChanges(ctx, caller, &before, ticket)
	s.logger.Info("ticket updated",
		zap.String("ticket_id", ticket.ID),
		zap.String("status", string(ticket.Status)),
		zap.String("priority", string(ticket.Priority)),
		zap.String("changed_by", caller.UserID()))
	return ticket, nil
}

// ListHistory returns the audit trail of a ticket the caller may view.
func (s *TicketService) ListHistory(ctx context.Context, caller *auth.Principal, id string) ([]domain.TicketHistory, error) {
	ticket, err := s.GetTicket(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, storeError(err, "ticket history")
	}
	return history, nil
}

func (p TicketPatch) permissions() []auth.Permission {
	var required []auth.Permission
	if p.Status != nil {
		required = append(required, auth.PermUpdateStatus)
	}
	if p.Priority != nil {
		required = append(required, auth.PermUpdatePriority)
	}
	if p.AssignedTo != nil {
		required = append(required, auth.PermAssignTicket)
	}
	return required
}

func (s *TicketService) recordChanges(ctx context.Context, caller *auth.Principal, before, after *domain.Ticket) {
	if before.Status != after.Status {
		s.recordHistory(ctx, caller, after.ID, domain.ChangeTypeStatus,
			map[string]any{"status": before.Status}, map[string]any{"status": after.Status})
		s.events.publish(ctx, events.Event{
			Type:      events.EventTicketStatusChanged,
			SubjectID: after.ID,
			Actor:     actorOf(caller),
			Payload: events.TicketStatusChangedPayload{
				Reference:      after.Reference,
				OldStatus:      before.Status,
				NewStatus:      after.Status,
				SubmitterEmail: after.SubmittedBy.Email,
			},
		})
	}
	if before.Priority != after.Priority {
		s.recordHistory(ctx, caller, after.ID, domain.ChangeTypePriority,
			map[string]any{"priority": before.Priority}, map[string]any{"priority": after.Priority})
		s.events.publish(ctx, events.Event{
			Type:      events.EventTicketPriorityChanged,
			SubjectID: after.ID,
			Actor:     actorOf(caller),
			Payload: events.TicketPriorityChangedPayload{
				Reference:   after.Reference,
				OldPriority: before.Priority,
				NewPriority: after.Priority,
			},
		})
	}
	if derefString(before.AssignedTo) != derefString(after.AssignedTo) {
		s.recordHistory(ctx, caller, after.ID, domain.ChangeTypeAssignment,
			map[string]any{"assigned_to": before.AssignedTo}, map[string]any{"assigned_to": after.AssignedTo})
		s.events.publish(ctx, events.Event{
			Type:      events.EventTicketAssigned,
			SubjectID: after.ID,
			Actor:     actorOf(caller),
			Payload: events.TicketAssignedPayload{
				Reference:  after.Reference,
				AssignedTo: after.AssignedTo,
			},
		})
	}
}

// recordHistory appends an audit entry. The ticket write already succeeded,
// so a failure here is logged rather than returned.
func (s *TicketService) recordHistory(ctx context.Context, caller *auth.Principal, ticketID string, change domain.TicketChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	entry := &domain.TicketHistory{
		TicketID:      ticketID,
		ChangedByID:   caller.UserID(),
		ChangedByRole: caller.Role(),
		ChangeType:    change,
		OldValue:      oldValue,
		NewValue:      newValue,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record ticket history",
			zap.String("ticket_id", ticketID),
			zap.String("change_type", string(change)),
			zap.Error(err))
	}
}

// clean strips markup and trims. Single-line values also collapse whitespace.
func (s *TicketService) clean(value string, singleLine bool) string {
	cleaned := html.UnescapeString(s.sanitizer.Sanitize(value))
	if singleLine {
		return strings.Join(strings.Fields(cleaned), " ")
	}
	return strings.TrimSpace(cleaned)
}

func validateListFilter(filter TicketListFilter) error {
	details := map[string]any{}
	for _, status := range filter.Statuses {
		if !status.Valid() {
			details["status"] = "unknown status " + string(status)
		}
	}
	for _, priority := range filter.Priorities {
		if !priority.Valid() {
			details["priority"] = "unknown priority " + string(priority)
		}
	}
	for _, category := range filter.Categories {
		if !category.Valid() {
			details["category"] = "unknown category " + string(category)
		}
	}
	if len(details) > 0 {
		return errorutil.NewValidationError("invalid ticket filter", details)
	}
	return nil
}

// listOrder puts the triage queue first for ICT officers.
func listOrder(role domain.Role) repository.TicketOrder {
	if role == domain.RoleICTOfficer {
		return repository.OrderPriority
	}
	return repository.OrderNewest
}

func generateReference(prefix string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:referenceHexLength])
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
