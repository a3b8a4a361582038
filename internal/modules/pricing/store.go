// README: Rate-book store backed by PostgreSQL with a Redis snapshot cache.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const rateBookCacheKey = "blackcar:ratebook"

type Store struct {
	db       *pgxpool.Pool
	redis    *redis.Client
	cacheTTL time.Duration
}

// NewStore creates a rate-book store. redisClient may be nil; the store then
// reads Postgres on every call.
func NewStore(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) *Store {
	return &Store{db: db, redis: redisClient, cacheTTL: cacheTTL}
}

// RateBook returns the full pricing configuration. A cached snapshot is
// served when present; otherwise the four config tables are read in their
// configured (primary key) order and the snapshot is refreshed. Cache
// failures fall through to Postgres silently.
func (s *Store) RateBook(ctx context.Context) (RateBook, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, rateBookCacheKey).Bytes(); err == nil {
			var book RateBook
			if json.Unmarshal(raw, &book) == nil {
				return book, nil
			}
		}
	}

	book, err := s.loadBook(ctx)
	if err != nil {
		return RateBook{}, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(book); err == nil {
			_ = s.redis.Set(ctx, rateBookCacheKey, raw, s.cacheTTL).Err()
		}
	}
	return book, nil
}

// InvalidateCache drops the cached snapshot so the next quote sees fresh
// configuration (used after admin edits).
func (s *Store) InvalidateCache(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, rateBookCacheKey).Err()
}

func (s *Store) loadBook(ctx context.Context) (RateBook, error) {
	var book RateBook

	rows, err := s.db.Query(ctx, `
		SELECT id, name, per_km, per_hour, min_km, min_rate_km, min_hours, min_rate_hourly, active
		FROM vehicle_classes ORDER BY id`)
	if err != nil {
		return book, fmt.Errorf("load vehicle classes: %w", err)
	}
	for rows.Next() {
		var v VehicleClass
		if err := rows.Scan(&v.ID, &v.Name, &v.PerKm, &v.PerHour, &v.MinKm, &v.MinRateKm, &v.MinHours, &v.MinRateHourly, &v.Active); err != nil {
			rows.Close()
			return book, fmt.Errorf("scan vehicle class: %w", err)
		}
		book.VehicleClasses = append(book.VehicleClasses, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return book, fmt.Errorf("load vehicle classes: %w", err)
	}

	rows, err = s.db.Query(ctx, `
		SELECT id, name, hourly, active FROM service_types ORDER BY id`)
	if err != nil {
		return book, fmt.Errorf("load service types: %w", err)
	}
	for rows.Next() {
		var t ServiceType
		if err := rows.Scan(&t.ID, &t.Name, &t.Hourly, &t.Active); err != nil {
			rows.Close()
			return book, fmt.Errorf("scan service type: %w", err)
		}
		book.ServiceTypes = append(book.ServiceTypes, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return book, fmt.Errorf("load service types: %w", err)
	}

	rows, err = s.db.Query(ctx, `
		SELECT id, label, amount, percentage, taxable, active, applies_to
		FROM surcharge_rules ORDER BY id`)
	if err != nil {
		return book, fmt.Errorf("load surcharge rules: %w", err)
	}
	for rows.Next() {
		var r SurchargeRule
		if err := rows.Scan(&r.ID, &r.Label, &r.Amount, &r.Percentage, &r.Taxable, &r.Active, &r.AppliesTo); err != nil {
			rows.Close()
			return book, fmt.Errorf("scan surcharge rule: %w", err)
		}
		book.Surcharges = append(book.Surcharges, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return book, fmt.Errorf("load surcharge rules: %w", err)
	}

	rows, err = s.db.Query(ctx, `
		SELECT id, region, percent, active FROM tax_rates ORDER BY id`)
	if err != nil {
		return book, fmt.Errorf("load tax rates: %w", err)
	}
	for rows.Next() {
		var t TaxRate
		if err := rows.Scan(&t.ID, &t.Region, &t.Percent, &t.Active); err != nil {
			rows.Close()
			return book, fmt.Errorf("scan tax rate: %w", err)
		}
		book.TaxRates = append(book.TaxRates, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return book, fmt.Errorf("load tax rates: %w", err)
	}

	return book, nil
}
