package mockapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    price       NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
    price_goc   NUMERIC(14, 2) NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    image       TEXT NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewPostgresStore creates the products table if needed.
func NewPostgresStore(ctx context.Context, db *sql.DB, logger *logrus.Logger) (Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("could not create products table: %w", err)
	}
	return &postgresStore{db: db, log: logger}, nil
}

const selectColumns = `SELECT id, name, price, price_goc, description, image, quantity FROM products`

func (r *postgresStore) List(ctx context.Context) ([]Record, error) {
	return r.query(ctx, selectColumns+` ORDER BY created_at ASC, id ASC`)
}

func (r *postgresStore) Search(ctx context.Context, keyword string) ([]Record, error) {
	pattern := "%" + escapeLike(keyword) + "%"
	return r.query(ctx, selectColumns+` WHERE name ILIKE $1 OR description ILIKE $1 ORDER BY created_at ASC, id ASC`, pattern)
}

func (r *postgresStore) Create(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = newID()
	}
	query := `
        INSERT INTO products (id, name, price, price_goc, description, image, quantity)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.Price.String(), rec.PriceGoc.String(), rec.Description, rec.Image, rec.Quantity)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation for product '%s': %s", rec.Name, pqErr.Message)
			return Record{}, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to create product '%s': %v", rec.Name, err)
		return Record{}, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Product created successfully with ID: %s, Name: %s", rec.ID, rec.Name)
	return rec, nil
}

func (r *postgresStore) Update(ctx context.Context, id string, ch Changes) (Record, error) {
	setClauses := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if ch.Name != nil {
		add("name", *ch.Name)
	}
	if ch.Price != nil {
		add("price", ch.Price.String())
	}
	if ch.Description != nil {
		add("description", *ch.Description)
	}
	if ch.Image != nil {
		add("image", *ch.Image)
	}

	if len(setClauses) > 0 {
		args = append(args, id)
		query := "UPDATE products SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))
		r.log.Debugf("Executing partial update query for ID %s: %s", id, query)

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			r.log.Errorf("Failed to execute partial update for product ID %s: %v", id, err)
			return Record{}, fmt.Errorf("could not update product: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return Record{}, ErrNotFound
		}
	}
	return r.get(ctx, id)
}

func (r *postgresStore) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Failed to delete product ID %s: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	r.log.Infof("Product deleted successfully with ID: %s", id)
	return nil
}

func (r *postgresStore) get(ctx context.Context, id string) (Record, error) {
	recs, err := r.query(ctx, selectColumns+` WHERE id = $1`, id)
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrNotFound
	}
	return recs[0], nil
}

func (r *postgresStore) query(ctx context.Context, query string, args ...interface{}) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Failed to query products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var price, priceGoc string
		if err := rows.Scan(&rec.ID, &rec.Name, &price, &priceGoc, &rec.Description, &rec.Image, &rec.Quantity); err != nil {
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		if rec.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid stored price for product %s: %w", rec.ID, err)
		}
		if rec.PriceGoc, err = decimal.NewFromString(priceGoc); err != nil {
			return nil, fmt.Errorf("invalid stored original price for product %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return records, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
