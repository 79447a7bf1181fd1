// Package store holds list service adapters.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"fraudgate/internal/lists"
)

// PostgresStore reads list entries from the list service's table. Entries
// with a NULL party or shop apply to every party or shop.
//
//	wb_list_entries(list_type text, party_id text NULL, shop_id text NULL, field text, value text)
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed list service.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ExistsAny runs one round trip regardless of the number of entries.
func (s *PostgresStore) ExistsAny(ctx context.Context, q lists.Query) (bool, error) {
	if len(q.Entries) == 0 {
		return false, nil
	}
	fieldNames := make([]string, len(q.Entries))
	values := make([]string, len(q.Entries))
	for i, e := range q.Entries {
		fieldNames[i] = string(e.Field)
		values[i] = e.Value
	}

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM wb_list_entries w
			JOIN unnest($4::text[], $5::text[]) AS c(field, value)
				ON w.field = c.field AND w.value = c.value
			WHERE w.list_type = $1
				AND (w.party_id IS NULL OR w.party_id = $2)
				AND (w.shop_id IS NULL OR w.shop_id = $3)
		)
	`
	var exists bool
	err := s.db.QueryRowContext(ctx, query,
		string(q.List), q.PartyID, q.ShopID, pq.Array(fieldNames), pq.Array(values),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check list entries: %w", err)
	}
	return exists, nil
}

// Add inserts an entry. The list service owns the table in production; this
// exists for fixtures and local tooling.
func (s *PostgresStore) Add(ctx context.Context, list lists.ListType, partyID, shopID string, e lists.Entry) error {
	query := `
		INSERT INTO wb_list_entries (list_type, party_id, shop_id, field, value)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, query, string(list), partyID, shopID, string(e.Field), e.Value); err != nil {
		return fmt.Errorf("add list entry: %w", err)
	}
	return nil
}
