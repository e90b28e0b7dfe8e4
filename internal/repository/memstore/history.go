package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

type historyRow struct {
	ID       string
	TicketID string
	Seq      uint64
	Entry    domain.TicketHistory
}

type historyRepository struct {
	store *Store
}

func (r *historyRepository) Create(_ context.Context, history *domain.TicketHistory) error {
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	if history.OldValue == nil {
		history.OldValue = map[string]any{}
	}
	if history.NewValue == nil {
		history.NewValue = map[string]any{}
	}

	txn := r.store.db.Txn(true)
	defer txn.Abort()

	found, err := exists(txn, tableTickets, indexID, history.TicketID)
	if err != nil {
		return err
	}
	if !found {
		return repository.ErrNotFound
	}

	history.CreatedAt = r.store.timestamp()
	entry := *history
	entry.OldValue = cloneMap(history.OldValue)
	entry.NewValue = cloneMap(history.NewValue)
	row := &historyRow{ID: history.ID, TicketID: history.TicketID, Seq: r.store.nextSeq(), Entry: entry}
	if err := txn.Insert(tableTicketHistory, row); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *historyRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	txn := r.store.db.Txn(false)
	iter, err := txn.Get(tableTicketHistory, "ticket", ticketID)
	if err != nil {
		return nil, err
	}

	rows := []*historyRow{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		rows = append(rows, raw.(*historyRow))
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Entry.CreatedAt, rows[j].Entry.CreatedAt
		if !a.Equal(b) {
			return a.Before(b)
		}
		return rows[i].Seq < rows[j].Seq
	})

	result := make([]domain.TicketHistory, 0, len(rows))
	for _, row := range rows {
		entry := row.Entry
		entry.OldValue = cloneMap(row.Entry.OldValue)
		entry.NewValue = cloneMap(row.Entry.NewValue)
		result = append(result, entry)
	}
	return result, nil
}

func cloneMap(values map[string]any) map[string]any {
	copied := make(map[string]any, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return copied
}
