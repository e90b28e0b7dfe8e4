package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
)

// TicketOrder selects how listed tickets are sorted.
type TicketOrder string

const (
	// OrderNewest sorts by creation time, newest first.
	OrderNewest TicketOrder = "newest"
	// OrderPriority sorts high before medium before low, then newest first.
	OrderPriority TicketOrder = "priority"
)

// TicketFilter captures list parameters. A zero Limit returns every match.
type TicketFilter struct {
	SubmittedByID *string
	Department    *string
	Statuses      []domain.TicketStatus
	Priorities    []domain.TicketPriority
	Categories    []domain.TicketCategory
	SearchTerm    *string
	Order         TicketOrder
	Limit         int
	Offset        int
}

// TicketRepository encapsulates ticket persistence. Every call is scoped to
// the Viewer attached to ctx; rows the viewer may not see behave as missing.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, reference, title, description, category, priority, status, department,
               specific_office, assigned_to, submitted_by_id, submitted_by_name, submitted_by_email,
               submitted_by_department, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO tickets (id, reference, title, description, category, priority, status, department,
            specific_office, assigned_to, submitted_by_id, submitted_by_name, submitted_by_email, submitted_by_department)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING created_at, updated_at`
	err := withViewer(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			ticket.ID,
			ticket.Reference,
			ticket.Title,
			ticket.Description,
			ticket.Category,
			ticket.Priority,
			ticket.Status,
			ticket.Department,
			ticket.SpecificOffice,
			ticket.AssignedTo,
			ticket.SubmittedBy.ID,
			ticket.SubmittedBy.Name,
			ticket.SubmittedBy.Email,
			ticket.SubmittedBy.Department,
		).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
	})
	return translate(err)
}

// Update persists the mutable triage fields. updated_at always moves forward,
// even when two writes land within the same clock tick.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, priority=$2, assigned_to=$3,
            updated_at=GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
        WHERE id=$4
        RETURNING updated_at`
	err := withViewer(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			ticket.Status,
			ticket.Priority,
			ticket.AssignedTo,
			ticket.ID,
		).Scan(&ticket.UpdatedAt)
	})
	return translate(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var tickets []domain.Ticket
	err := withViewer(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		tickets, err = scanTickets(rows)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	if len(tickets) == 0 {
		return nil, ErrNotFound
	}
	return &tickets[0], nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubmittedByID != nil {
		args = append(args, *filter.SubmittedByID)
		clauses = append(clauses, fmt.Sprintf("submitted_by_id::text=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(reference) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	order := "created_at DESC, id"
	if filter.Order == OrderPriority {
		order = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, created_at DESC, id"
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s`,
		ticketColumns, strings.Join(clauses, " AND "), order)
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	var tickets []domain.Ticket
	err := withViewer(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		tickets, err = scanTickets(rows)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return tickets, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Reference,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.Department,
			&ticket.SpecificOffice,
			&ticket.AssignedTo,
			&ticket.SubmittedBy.ID,
			&ticket.SubmittedBy.Name,
			&ticket.SubmittedBy.Email,
			&ticket.SubmittedBy.Department,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, translate(err)
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
