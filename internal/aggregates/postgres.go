package aggregates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"fraudgate/internal/evaluation/fields"
	dErrors "fraudgate/pkg/domain-errors"
)

// columns maps fields to payment_events columns. Only these names are ever
// interpolated into SQL.
var columns = map[fields.Field]string{
	fields.IP:          "ip",
	fields.BIN:         "bin",
	fields.CardToken:   "card_token",
	fields.PartyID:     "party_id",
	fields.Email:       "email",
	fields.LastDigits:  "last_digits",
	fields.Fingerprint: "fingerprint",
	fields.ShopID:      "shop_id",
	fields.CountryBank: "country_bank",
	fields.Currency:    "currency",
	fields.CountryIP:   "country_ip",
	fields.IdentityID:  "identity_id",
	fields.Mobile:      "mobile",
}

// PostgresSource queries the payment_events history table.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed aggregate source.
func NewPostgres(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) CountOver(ctx context.Context, q Query) (int64, error) {
	col, err := column(q)
	if err != nil || q.Value == "" {
		return 0, err
	}
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM payment_events
		WHERE domain = $1 AND %s = $2 AND event_time >= $3 AND event_time <= $4
	`, col)
	var n int64
	if err := s.db.QueryRowContext(ctx, query, string(q.Domain), q.Value, q.Since(), q.Now).Scan(&n); err != nil {
		return 0, fmt.Errorf("count payment events: %w", err)
	}
	return n, nil
}

func (s *PostgresSource) SumOver(ctx context.Context, q Query) (decimal.Decimal, error) {
	col, err := column(q)
	if err != nil || q.Value == "" {
		return decimal.Zero, err
	}
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(amount), 0)
		FROM payment_events
		WHERE domain = $1 AND %s = $2 AND event_time >= $3 AND event_time <= $4
	`, col)
	var sum decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, string(q.Domain), q.Value, q.Since(), q.Now).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum payment events: %w", err)
	}
	return sum, nil
}

// Record inserts an event. The analytics pipeline owns the table in
// production; this exists for fixtures and local tooling.
func (s *PostgresSource) Record(ctx context.Context, e Event) error {
	query := `
		INSERT INTO payment_events (domain, event_time, amount, ip, bin, card_token, party_id, email,
			last_digits, fingerprint, shop_id, country_bank, currency, country_ip, identity_id, mobile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	tx := e.Tx
	_, err := s.db.ExecContext(ctx, query, string(e.Domain), e.At, tx.Amount,
		tx.IP, tx.BIN, tx.CardToken, tx.PartyID, tx.Email, tx.LastDigits, tx.Fingerprint,
		tx.ShopID, tx.CountryBank, tx.Currency, tx.CountryIP, tx.IdentityID, tx.Mobile)
	if err != nil {
		return fmt.Errorf("record payment event: %w", err)
	}
	return nil
}

func column(q Query) (string, error) {
	col, ok := columns[q.Field]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeUnknownField, "field %s cannot be aggregated", q.Field)
	}
	return col, nil
}
