//go:build integration

package containers

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Schema mirrors the tables owned by the analytics pipeline and the list
// service. Only the columns the adapters read are declared.
const Schema = `
CREATE TABLE IF NOT EXISTS payment_events (
	id           BIGSERIAL PRIMARY KEY,
	domain       TEXT        NOT NULL,
	event_time   TIMESTAMPTZ NOT NULL,
	amount       NUMERIC(20, 4) NOT NULL DEFAULT 0,
	ip           TEXT NOT NULL DEFAULT '',
	bin          TEXT NOT NULL DEFAULT '',
	card_token   TEXT NOT NULL DEFAULT '',
	party_id     TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	last_digits  TEXT NOT NULL DEFAULT '',
	fingerprint  TEXT NOT NULL DEFAULT '',
	shop_id      TEXT NOT NULL DEFAULT '',
	country_bank TEXT NOT NULL DEFAULT '',
	currency     TEXT NOT NULL DEFAULT '',
	country_ip   TEXT NOT NULL DEFAULT '',
	identity_id  TEXT NOT NULL DEFAULT '',
	mobile       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS wb_list_entries (
	id        BIGSERIAL PRIMARY KEY,
	list_type TEXT NOT NULL,
	party_id  TEXT NULL,
	shop_id   TEXT NULL,
	field     TEXT NOT NULL,
	value     TEXT NOT NULL
);
`

// PostgresContainer wraps a Postgres instance with the schema applied.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts Postgres, opens a pgx-backed handle and
// creates the tables.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fraud"),
		tcpostgres.WithUsername("fraud"),
		tcpostgres.WithPassword("fraud"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to open postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to apply schema: %v", err)
	}
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables empties the named tables. Call between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY")
	return err
}

