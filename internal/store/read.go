package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/tpredicate/internal/predicate"
	"github.com/roach88/tpredicate/internal/querysql"
)

// stableOrder is the ordering of every multi-row read.
const stableOrder = "seq ASC, id ASC COLLATE BINARY"

// Document is a stored row.
type Document struct {
	Seq  int64           `json:"seq"`
	ID   string          `json:"id"`
	Body json.RawMessage `json:"doc"`
}

// Collections returns the names of all collections in name order.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}
	return names, nil
}

// requireCollection returns ErrUnknownCollection unless name has been
// written to.
func (s *Store) requireCollection(ctx context.Context, name string) error {
	if err := validCollection(name); err != nil {
		return err
	}
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM collections WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	if err != nil {
		return fmt.Errorf("lookup collection %s: %w", name, err)
	}
	return nil
}

// Get retrieves a single document by id.
// Returns ErrNotFound if the collection holds no such id.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := s.requireCollection(ctx, collection); err != nil {
		return Document{}, err
	}
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT seq, id, doc FROM %s WHERE id = ?`, collection), id)

	var doc Document
	var body string
	if err := row.Scan(&doc.Seq, &doc.ID, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	doc.Body = json.RawMessage(body)
	return doc, nil
}

// Find returns the documents of collection matching filter, in insertion
// order. A nil filter matches every document; limit <= 0 means unlimited.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Find(ctx context.Context, collection string, filter predicate.Node, limit int) ([]Document, error) {
	if err := s.requireCollection(ctx, collection); err != nil {
		return nil, err
	}

	query, params, err := Explain(collection, filter, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		var body string
		if err := rows.Scan(&doc.Seq, &doc.ID, &body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		doc.Body = json.RawMessage(body)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}

	slog.Debug("store find",
		"collection", collection,
		"sql", query,
		"params", len(params),
		"rows", len(docs))
	return docs, nil
}

// Explain returns the SQL and parameters Find runs for filter, without
// touching a database.
func Explain(collection string, filter predicate.Node, limit int) (string, []any, error) {
	if err := validCollection(collection); err != nil {
		return "", nil, err
	}
	query, params, err := documents.Compile(querysql.Select{
		From:    collection,
		Columns: []string{"seq", "id", "doc"},
		Filter:  filter,
		OrderBy: stableOrder,
		Limit:   limit,
	})
	if err != nil {
		return "", nil, fmt.Errorf("find %s: %w", collection, err)
	}
	return query, params, nil
}

// Count returns the number of documents in collection matching filter.
func (s *Store) Count(ctx context.Context, collection string, filter predicate.Node) (int, error) {
	if err := s.requireCollection(ctx, collection); err != nil {
		return 0, err
	}
	where, params, err := documents.CompileWhere(filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}

	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", collection, where)
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// Query finds the entities of collection matching filter and decodes
// them. An absent filter matches every entity.
func Query[E any](ctx context.Context, s *Store, collection string, filter predicate.Optional[predicate.Expr[E]], limit int) ([]E, error) {
	var node predicate.Node
	if x, ok := filter.Get(); ok {
		node = x.Node()
	}

	docs, err := s.Find(ctx, collection, node, limit)
	if err != nil {
		return nil, err
	}

	out := make([]E, 0, len(docs))
	for _, doc := range docs {
		e, err := unmarshalDocument[E](doc.Body)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, doc.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}
