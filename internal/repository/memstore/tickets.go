package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

// ticketRow flattens the indexed fields out of the ticket aggregate.
type ticketRow struct {
	ID          string
	Reference   string
	SubmitterID string
	Seq         uint64
	Ticket      domain.Ticket
}

type ticketRepository struct {
	store *Store
}

// canSee mirrors the tickets_select row policy.
func canSee(viewer repository.Viewer, row *ticketRow) bool {
	if viewer.UserID == "" {
		return false
	}
	return viewer.CanSeeAll() || row.SubmitterID == viewer.UserID
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	viewer, _ := repository.ViewerFromContext(ctx)
	if viewer.UserID == "" || ticket.SubmittedBy.ID != viewer.UserID {
		return repository.ErrRowPolicy
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}

	txn := r.store.db.Txn(true)
	defer txn.Abort()

	for index, value := range map[string]string{indexID: ticket.ID, "reference": ticket.Reference} {
		found, err := exists(txn, tableTickets, index, value)
		if err != nil {
			return err
		}
		if found {
			return repository.ErrConflict
		}
	}

	now := r.store.timestamp()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	row := &ticketRow{
		ID:          ticket.ID,
		Reference:   ticket.Reference,
		SubmitterID: ticket.SubmittedBy.ID,
		Seq:         r.store.nextSeq(),
		Ticket:      cloneTicket(*ticket),
	}
	if err := txn.Insert(tableTickets, row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Update writes the triage fields. Only staff viewers pass the update policy;
// everyone else sees the row as missing.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	viewer, _ := repository.ViewerFromContext(ctx)

	txn := r.store.db.Txn(true)
	defer txn.Abort()

	raw, err := first(txn, tableTickets, indexID, ticket.ID)
	if err != nil {
		return err
	}
	current := raw.(*ticketRow)
	if !canSee(viewer, current) || !viewer.CanSeeAll() {
		return repository.ErrNotFound
	}

	updated := *current
	updated.Ticket = cloneTicket(current.Ticket)
	updated.Ticket.Status = ticket.Status
	updated.Ticket.Priority = ticket.Priority
	updated.Ticket.AssignedTo = cloneString(ticket.AssignedTo)
	updated.Ticket.UpdatedAt = nextUpdatedAt(r.store.timestamp(), current.Ticket.UpdatedAt)
	if err := txn.Insert(tableTickets, &updated); err != nil {
		return err
	}
	txn.Commit()
	ticket.UpdatedAt = updated.Ticket.UpdatedAt
	return nil
}

// nextUpdatedAt keeps updated_at strictly increasing under a coarse or frozen clock.
func nextUpdatedAt(now, previous time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Microsecond)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	viewer, _ := repository.ViewerFromContext(ctx)
	txn := r.store.db.Txn(false)
	raw, err := first(txn, tableTickets, indexID, id)
	if err != nil {
		return nil, err
	}
	row := raw.(*ticketRow)
	if !canSee(viewer, row) {
		return nil, repository.ErrNotFound
	}
	ticket := cloneTicket(row.Ticket)
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	viewer, _ := repository.ViewerFromContext(ctx)
	txn := r.store.db.Txn(false)

	iter, err := txn.Get(tableTickets, indexID)
	if filter.SubmittedByID != nil {
		iter, err = txn.Get(tableTickets, "submitter", *filter.SubmittedByID)
	}
	if err != nil {
		return nil, err
	}

	search := ""
	if filter.SearchTerm != nil {
		search = strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
	}

	rows := []*ticketRow{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		row := raw.(*ticketRow)
		if !canSee(viewer, row) || !matches(row.Ticket, filter, search) {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Ticket, rows[j].Ticket
		if filter.Order == repository.OrderPriority && a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return rows[i].Seq > rows[j].Seq
	})

	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, cloneTicket(row.Ticket))
	}
	if filter.Limit > 0 {
		tickets = page(tickets, filter.Limit, filter.Offset, filter.Limit)
	}
	return tickets, nil
}

func matches(ticket domain.Ticket, filter repository.TicketFilter, search string) bool {
	if filter.Department != nil && ticket.Department != *filter.Department {
		return false
	}
	if len(filter.Statuses) > 0 && !contains(filter.Statuses, ticket.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !contains(filter.Priorities, ticket.Priority) {
		return false
	}
	if len(filter.Categories) > 0 && !contains(filter.Categories, ticket.Category) {
		return false
	}
	if search != "" {
		haystacks := []string{ticket.Title, ticket.Description, ticket.Reference}
		for _, haystack := range haystacks {
			if strings.Contains(strings.ToLower(haystack), search) {
				return true
			}
		}
		return false
	}
	return true
}

func contains[T comparable](values []T, candidate T) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}

func cloneTicket(ticket domain.Ticket) domain.Ticket {
	ticket.SpecificOffice = cloneString(ticket.SpecificOffice)
	ticket.AssignedTo = cloneString(ticket.AssignedTo)
	return ticket
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
