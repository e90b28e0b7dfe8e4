// Package memstore implements the repository contracts on hashicorp/go-memdb.
// It backs development runs without Postgres and the service tests, and
// applies the same ticket row policies as the database.
package memstore

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

const (
	tableUsers         = "users"
	tableAccounts      = "accounts"
	tableAuthTokens    = "auth_tokens"
	tableTickets       = "tickets"
	tableTicketHistory = "ticket_history"
	tableSettings      = "system_settings"
	tableSessions      = "sessions"

	indexID = "id"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableUsers: {
				Name: tableUsers,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"email": {Name: "email", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true}},
				},
			},
			tableAccounts: {
				Name: tableAccounts,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"email": {Name: "email", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true}},
				},
			},
			tableAuthTokens: {
				Name: tableAuthTokens,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"token": {Name: "token", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Token"}},
				},
			},
			tableTickets: {
				Name: tableTickets,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:     {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"reference": {Name: "reference", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Reference"}},
					"submitter": {Name: "submitter", Indexer: &memdb.StringFieldIndex{Field: "SubmitterID"}},
				},
			},
			tableTicketHistory: {
				Name: tableTicketHistory,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:  {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"ticket": {Name: "ticket", Indexer: &memdb.StringFieldIndex{Field: "TicketID"}},
				},
			},
			tableSettings: {
				Name: tableSettings,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
			tableSessions: {
				Name: tableSessions,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
		},
	}
}

// Store owns one memdb instance shared by every repository it hands out.
type Store struct {
	db  *memdb.MemDB
	now func() time.Time
	seq atomic.Uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for timestamps and session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store.
func New(opts ...Option) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

func (s *Store) Users() repository.UserRepository { return &userRepository{store: s} }
func (s *Store) Accounts() repository.AccountRepository { return &accountRepository{store: s} }
func (s *Store) AuthTokens() repository.AuthTokenRepository { return &authTokenRepository{store: s} }
func (s *Store) Tickets() repository.TicketRepository { return &ticketRepository{store: s} }
func (s *Store) TicketHistory() repository.TicketHistoryRepository { return &historyRepository{store: s} }
func (s *Store) Settings() repository.SettingsRepository { return &settingsRepository{store: s} }
func (s *Store) Sessions() repository.SessionRepository { return &sessionRepository{store: s} }

// timestamp returns the current time truncated to the microsecond precision Postgres keeps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Store) nextSeq() uint64 {
	return s.seq.Add(1)
}

func first(txn *memdb.Txn, table, index string, args ...any) (any, error) {
	raw, err := txn.First(table, index, args...)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, repository.ErrNotFound
	}
	return raw, nil
}

func exists(txn *memdb.Txn, table, index string, args ...any) (bool, error) {
	raw, err := txn.First(table, index, args...)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}
