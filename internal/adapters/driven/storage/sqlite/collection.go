package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/cosine"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

var _ driven.Collection = (*Collection)(nil)

// Collection is a named set of records in a Store.
// Queries rank every candidate row by exact cosine distance.
type Collection struct {
	store  *Store
	name   string
	owned  bool
	closed atomic.Bool
}

// OpenCollection opens the store in dataDir and returns the named collection.
// Closing the collection closes the store.
func OpenCollection(dataDir, name string) (*Collection, error) {
	store, err := NewStore(dataDir)
	if err != nil {
		return nil, err
	}
	c := store.Collection(name)
	c.owned = true
	return c, nil
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Path returns the database file path.
func (c *Collection) Path() string {
	return c.store.Path()
}

// Dimension returns the embedding dimension fixed by the first upsert,
// or 0 if the collection is empty.
func (c *Collection) Dimension(ctx context.Context) (int, error) {
	if c.closed.Load() {
		return 0, domain.ErrStoreClosed
	}
	return c.dimension(ctx, c.store.db)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (c *Collection) dimension(ctx context.Context, q querier) (int, error) {
	var dim int
	err := q.QueryRowContext(ctx, "SELECT dimension FROM collections WHERE name = ?", c.name).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading collection dimension: %w", err)
	}
	return dim, nil
}

// Upsert inserts or replaces records in one transaction.
// Every embedding must match the collection dimension.
func (c *Collection) Upsert(ctx context.Context, records []domain.Record) error {
	if c.closed.Load() {
		return domain.ErrStoreClosed
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	dim, err := c.dimension(ctx, tx)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(records[0].Embedding)
		if dim == 0 {
			return fmt.Errorf("record %s: %w: empty embedding", records[0].ID, domain.ErrInvalidInput)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO collections (name, dimension) VALUES (?, ?)", c.name, dim); err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, document, source, title, section, chunk_index, category, file_name, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			document = excluded.document,
			source = excluded.source,
			title = excluded.title,
			section = excluded.section,
			chunk_index = excluded.chunk_index,
			category = excluded.category,
			file_name = excluded.file_name,
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if len(rec.Embedding) != dim {
			return fmt.Errorf("record %s has %d dimensions, collection %s has %d: %w",
				rec.ID, len(rec.Embedding), c.name, dim, domain.ErrDimensionMismatch)
		}
		m := rec.Metadata
		if _, err := stmt.ExecContext(ctx, c.name, rec.ID, rec.Document,
			m.Source, m.Title, m.Section, m.ChunkIndex, m.Category, m.FileName,
			float32SliceToBytes(rec.Embedding)); err != nil {
			return fmt.Errorf("saving record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns up to n records nearest to vector.
func (c *Collection) Query(ctx context.Context, vector []float32, n int, category string) ([]domain.VectorHit, error) {
	if c.closed.Load() {
		return nil, domain.ErrStoreClosed
	}

	dim, err := c.dimension(ctx, c.store.db)
	if err != nil {
		return nil, err
	}
	if dim == 0 || n <= 0 {
		return []domain.VectorHit{}, nil
	}
	if len(vector) != dim {
		return nil, fmt.Errorf("query has %d dimensions, collection %s has %d: %w",
			len(vector), c.name, dim, domain.ErrDimensionMismatch)
	}

	query := `
		SELECT id, document, source, title, section, chunk_index, category, file_name, embedding
		FROM records WHERE collection = ?`
	args := []any{c.name}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	ranker := cosine.NewRanker(vector, n)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		ranker.Add(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return ranker.Hits(), nil
}

// DeleteAll removes every record and forgets the collection dimension,
// so the next upsert may use a different embedding model.
func (c *Collection) DeleteAll(ctx context.Context) (int, error) {
	if c.closed.Load() {
		return 0, domain.ErrStoreClosed
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", c.name)
	if err != nil {
		return 0, fmt.Errorf("deleting records: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", c.name); err != nil {
		return 0, fmt.Errorf("deleting collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return int(deleted), nil
}

// Count returns the number of records in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	if c.closed.Load() {
		return 0, domain.ErrStoreClosed
	}

	var count int
	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE collection = ?", c.name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// Close releases the collection. It closes the store when the collection owns it.
func (c *Collection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.owned {
		return c.store.Close()
	}
	return nil
}

func scanRecord(rows *sql.Rows) (domain.Record, error) {
	var (
		rec  domain.Record
		blob []byte
	)
	m := &rec.Metadata
	if err := rows.Scan(&rec.ID, &rec.Document, &m.Source, &m.Title, &m.Section,
		&m.ChunkIndex, &m.Category, &m.FileName, &blob); err != nil {
		return domain.Record{}, fmt.Errorf("scanning record: %w", err)
	}
	rec.Embedding = bytesToFloat32Slice(blob)
	return rec, nil
}
