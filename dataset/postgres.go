package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"f0oster/adreport/activedirectory"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps datasets server-side for teams that share gathered
// inventories. It is selected by DSN; the file store remains the default.
type PostgresStore struct {
	dsn  string
	pool *pgxpool.Pool
}

func NewPostgresStore(dsn string) *PostgresStore {
	return &PostgresStore{dsn: dsn}
}

func (s *PostgresStore) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("connect dataset store: %w", err)
	}
	s.pool = pool
	return s.ensureSchema(ctx)
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			scope       TEXT NOT NULL,
			base        TEXT NOT NULL,
			dn          TEXT NOT NULL,
			object_class TEXT NOT NULL,
			attributes  JSONB NOT NULL,
			batch_id    UUID NOT NULL,
			saved_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (scope, base, dn)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure dataset schema: %w", err)
	}
	return nil
}

func rollbackOrCommit(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Error("dataset transaction rollback failed", "error", rbErr, "cause", *err)
		}
		return
	}
	if cmErr := tx.Commit(ctx); cmErr != nil {
		*err = fmt.Errorf("commit dataset: %w", cmErr)
	}
}

// Save upserts the scope's record set, replacing any previous copy under the
// same base name. Every row of one save shares a batch id so a capture can be
// identified after the fact.
func (s *PostgresStore) Save(ctx context.Context, scope Scope, base string, records []*activedirectory.DirectoryRecord) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin dataset tx: %w", err)
	}
	defer rollbackOrCommit(ctx, tx, &err)

	if _, err = tx.Exec(ctx, `DELETE FROM datasets WHERE scope = $1 AND base = $2`, scope, base); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	batchID := uuid.New()
	for _, record := range records {
		attrs, marshalErr := json.Marshal(record.Attributes)
		if marshalErr != nil {
			err = fmt.Errorf("marshal attributes for %s: %w", record.DN, marshalErr)
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO datasets (scope, base, dn, object_class, attributes, batch_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, scope, base, record.DN, record.Class, attrs, batchID)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", record.DN, err)
		}
	}
	slog.Info("dataset saved", "scope", scope, "base", base, "records", len(records), "batch", batchID)
	return nil
}

// Load reads a scope's record set back, or ErrMissingDataset when nothing was
// saved under the given base name.
func (s *PostgresStore) Load(ctx context.Context, scope Scope, base string) ([]*activedirectory.DirectoryRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT dn, object_class, attributes
		FROM datasets
		WHERE scope = $1 AND base = $2
		ORDER BY dn
	`, scope, base)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	var records []*activedirectory.DirectoryRecord
	for rows.Next() {
		var (
			dn    string
			class string
			attrs []byte
		)
		if err := rows.Scan(&dn, &class, &attrs); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}

		record := &activedirectory.DirectoryRecord{
			DN:    dn,
			Class: activedirectory.ObjectClass(class),
		}
		if err := json.Unmarshal(attrs, &record.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes for %s: %w", dn, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read dataset rows: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", scope, base, ErrMissingDataset)
	}
	return records, nil
}
