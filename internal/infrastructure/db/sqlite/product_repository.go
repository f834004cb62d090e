package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = "id, name, description, price, image_url, user_id, created_at, updated_at"

// Create inserts a new product row.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ts := now()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, description, price, image_url, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		product.Name, product.Description, product.Price, product.ImageURL, product.UserID, ts.Unix(), ts.Unix())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// FindByID retrieves a product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return scanProduct(row)
}

// List returns all products ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update applies a partial update and returns the fresh row. Returns
// domain.ErrProductNotFound when no row matches id.
func (r *ProductRepository) Update(ctx context.Context, id int64, patch ports.ProductPatch) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sets := []string{"updated_at = ?"}
	args := []any{now().Unix()}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		args = append(args, *patch.ImageURL)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, "UPDATE products SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrProductNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a product row. Returns domain.ErrProductNotFound when no
// row matches id.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var created, updated int64
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.UserID, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	p.UpdatedAt = time.Unix(updated, 0).UTC()
	return &p, nil
}
