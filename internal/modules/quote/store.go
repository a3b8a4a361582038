// README: Quote store backed by PostgreSQL, retrieval codes in Redis.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"blackcar/internal/types"
)

const retrievalCodePrefix = "blackcar:quotecode:"

// retrievalCodeTTL bounds how long a short code stays resolvable; the quote
// row itself is kept.
const retrievalCodeTTL = 30 * 24 * time.Hour

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redisClient *redis.Client) *Store {
	return &Store{db: db, redis: redisClient}
}

func (s *Store) Create(ctx context.Context, q *Quote) error {
	legs, err := json.Marshal(q.Legs)
	if err != nil {
		return fmt.Errorf("marshal legs: %w", err)
	}
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	display, err := json.Marshal(q.Display)
	if err != nil {
		return fmt.Errorf("marshal display: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO quotes (
			id, contact_name, contact_email, contact_phone,
			vehicle_class_id, service_type_id, round_trip,
			legs, items, display,
			subtotal, tax_total, grand_total, tax_name,
			priceable, status, retrieval_code, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18
		)`,
		string(q.ID),
		q.ContactName, q.ContactEmail, q.ContactPhone,
		q.VehicleClassID, q.ServiceTypeID, q.RoundTrip,
		legs, items, display,
		q.Totals.Subtotal, q.Totals.TaxTotal, q.Totals.GrandTotal, q.TaxName,
		q.Priceable, string(q.Status), q.RetrievalCode, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}

	if s.redis != nil && q.RetrievalCode != "" {
		_ = s.redis.Set(ctx, retrievalCodePrefix+q.RetrievalCode, string(q.ID), retrievalCodeTTL).Err()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Quote, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, contact_name, contact_email, contact_phone,
			vehicle_class_id, service_type_id, round_trip,
			legs, items, display,
			subtotal, tax_total, grand_total, tax_name,
			priceable, status, retrieval_code, created_at, finalized_at
		FROM quotes WHERE id = $1`, string(id))

	var (
		q                    Quote
		legs, items, display []byte
		status               string
	)
	err := row.Scan(
		&q.ID, &q.ContactName, &q.ContactEmail, &q.ContactPhone,
		&q.VehicleClassID, &q.ServiceTypeID, &q.RoundTrip,
		&legs, &items, &display,
		&q.Totals.Subtotal, &q.Totals.TaxTotal, &q.Totals.GrandTotal, &q.TaxName,
		&q.Priceable, &status, &q.RetrievalCode, &q.CreatedAt, &q.FinalizedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select quote: %w", err)
	}
	q.Status = Status(status)

	if err := json.Unmarshal(legs, &q.Legs); err != nil {
		return nil, fmt.Errorf("unmarshal legs: %w", err)
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(display, &q.Display); err != nil {
		return nil, fmt.Errorf("unmarshal display: %w", err)
	}
	return &q, nil
}

// ResolveCode maps a retrieval code to a quote id, trying Redis first and
// falling back to the quotes table when the cache entry has lapsed.
func (s *Store) ResolveCode(ctx context.Context, code string) (types.ID, error) {
	if s.redis != nil {
		if id, err := s.redis.Get(ctx, retrievalCodePrefix+code).Result(); err == nil && id != "" {
			return types.ID(id), nil
		}
	}
	var id string
	err := s.db.QueryRow(ctx, `SELECT id FROM quotes WHERE retrieval_code = $1`, code).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve retrieval code: %w", err)
	}
	return types.ID(id), nil
}

// SetStatus transitions a quote; the expected current status guards against
// races between concurrent finalize calls.
func (s *Store) SetStatus(ctx context.Context, id types.ID, from, to Status, at time.Time) error {
	var finalizedAt any
	if to == StatusFinalized {
		finalizedAt = at
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE quotes SET status = $1, finalized_at = COALESCE($2, finalized_at)
		WHERE id = $3 AND status = $4`,
		string(to), finalizedAt, string(id), string(from))
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}
