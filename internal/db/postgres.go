// Package db persists comparison runs into the hosted Postgres backend.
// The sink is optional: with no DSN configured the engine runs purely on
// local storage and nothing here is touched.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/junwei-lu/pricelens/internal/models"
)

// Sink writes products and price snapshots to Postgres.
type Sink struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// Open connects to the database behind dsn. Returns (nil, nil) for an
// empty DSN so callers can treat the sink as disabled.
func Open(ctx context.Context, dsn string, log *logrus.Logger) (*Sink, error) {
	if dsn == "" {
		return nil, nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 4
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &Sink{pool: pool, log: log}, nil
}

func (s *Sink) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// SaveComparison records one comparison run: the task row, the product
// rows keyed by URL, and one price snapshot per product. Products and
// vendors are upserted; price_records is append-only history.
func (s *Sink) SaveComparison(ctx context.Context, keyword string, results []models.Product) error {
	if s == nil || s.pool == nil {
		return nil
	}

	taskID := uuid.New()
	start := time.Now()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO comparison_tasks (id, keyword, status, started_at)
		 VALUES ($1, $2, 'running', $3)`,
		taskID, keyword, start)
	if err != nil {
		return fmt.Errorf("insert comparison task: %w", err)
	}

	if err := s.writeResults(ctx, taskID, results); err != nil {
		_, uerr := s.pool.Exec(ctx,
			`UPDATE comparison_tasks
			 SET status = 'failed', error = $2, finished_at = now()
			 WHERE id = $1`,
			taskID, err.Error())
		if uerr != nil {
			s.log.WithError(uerr).Warn("could not mark comparison task failed")
		}
		return err
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE comparison_tasks
		 SET status = 'completed', result_count = $2, finished_at = now()
		 WHERE id = $1`,
		taskID, len(results))
	if err != nil {
		return fmt.Errorf("finish comparison task: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"task":    taskID,
		"keyword": keyword,
		"results": len(results),
		"took":    time.Since(start).Round(time.Millisecond),
	}).Debug("comparison persisted")
	return nil
}

func (s *Sink) writeResults(ctx context.Context, taskID uuid.UUID, results []models.Product) error {
	b := &pgx.Batch{}
	for _, p := range results {
		if p.VendorName != "" {
			b.Queue(
				`INSERT INTO vendors (name, platform)
				 VALUES ($1, $2)
				 ON CONFLICT (name, platform) DO NOTHING`,
				p.VendorName, p.Platform)
		}
		b.Queue(
			`INSERT INTO products (url, platform, name, image_url, vendor_name, rating, review_count, sales_volume, stock_status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (url) DO UPDATE SET
			   name = EXCLUDED.name,
			   image_url = EXCLUDED.image_url,
			   vendor_name = EXCLUDED.vendor_name,
			   rating = EXCLUDED.rating,
			   review_count = EXCLUDED.review_count,
			   sales_volume = EXCLUDED.sales_volume,
			   stock_status = EXCLUDED.stock_status,
			   updated_at = now()`,
			p.ProductURL, p.Platform, p.Name, p.ImageURL, p.VendorName,
			p.Rating, p.ReviewCount, p.SalesVolume, p.StockStatus)
		b.Queue(
			`INSERT INTO price_records (task_id, product_url, price, original_price, shipping_fee, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			taskID, p.ProductURL, p.Price, nullableFloat(p.OriginalPrice),
			p.ShippingFee, p.ScrapedAt)
	}

	br := s.pool.SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	return nil
}

func nullableFloat(f float64) *float64 {
	if f <= 0 {
		return nil
	}
	return &f
}
