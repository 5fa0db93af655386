package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/tpredicate/internal/querysql"
)

// Keyed is implemented by entities that carry their own document id.
type Keyed interface {
	Key() string
}

// collectionDDL returns the table definition for a collection.
// name must already be validated.
func collectionDDL(name string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE COLLATE BINARY,
			doc TEXT NOT NULL CHECK (json_valid(doc))
		)`, name)
}

func validCollection(name string) error {
	if !querysql.ValidIdentifier(name) || name == "collections" || strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// EnsureCollection creates the collection table if it does not exist.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	if err := validCollection(name); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	defer tx.Rollback()

	if err := ensureCollectionTx(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func ensureCollectionTx(ctx context.Context, tx *sql.Tx, name string) error {
	if _, err := tx.ExecContext(ctx, collectionDDL(name)); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO collections (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("register collection %s: %w", name, err)
	}
	return nil
}

// Put stores doc under id, creating the collection on first use.
// Re-putting an existing id replaces the document body and keeps its
// position in the collection order.
func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	body, err := marshalDocument(doc)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	if err := validCollection(collection); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	defer tx.Rollback()

	if err := ensureCollectionTx(ctx, tx, collection); err != nil {
		return err
	}
	if err := upsert(ctx, tx, collection, id, body); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

// PutAll stores items in one transaction, keyed by Key(). It returns the
// number of documents written.
func PutAll[E Keyed](ctx context.Context, s *Store, collection string, items []E) (int, error) {
	if err := validCollection(collection); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("put all %s: %w", collection, err)
	}
	defer tx.Rollback()

	if err := ensureCollectionTx(ctx, tx, collection); err != nil {
		return 0, err
	}
	for _, item := range items {
		body, err := marshalDocument(item)
		if err != nil {
			return 0, fmt.Errorf("put all %s/%s: %w", collection, item.Key(), err)
		}
		if err := upsert(ctx, tx, collection, item.Key(), body); err != nil {
			return 0, fmt.Errorf("put all %s/%s: %w", collection, item.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("put all %s: %w", collection, err)
	}

	slog.Debug("documents written", "collection", collection, "count", len(items))
	return len(items), nil
}

func upsert(ctx context.Context, tx *sql.Tx, collection, id, body string) error {
	if id == "" {
		return fmt.Errorf("empty document id")
	}
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc
	`, collection), id, body)
	return err
}

// Delete removes the document stored under id. It reports whether a
// document was removed.
func (s *Store) Delete(ctx context.Context, collection, id string) (bool, error) {
	if err := s.requireCollection(ctx, collection); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, collection), id)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return n > 0, nil
}
