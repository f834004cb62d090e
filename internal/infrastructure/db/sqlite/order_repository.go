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

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Order reads join the referenced product so responses can embed it without
// a second round trip. The join is LEFT so an order outlives its product.
const orderSelect = `
	SELECT o.id, o.user_id, o.product_id, o.quantity, o.total_price, o.status, o.created_at, o.updated_at,
	       p.id, p.name, p.description, p.price, p.image_url, p.user_id, p.created_at, p.updated_at
	FROM orders o
	LEFT JOIN products p ON p.id = o.product_id`

// Create inserts a new order row.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ts := now()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO orders (user_id, product_id, quantity, total_price, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		order.UserID, order.ProductID, order.Quantity, order.TotalPrice, string(order.Status), ts.Unix(), ts.Unix())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// FindByID retrieves an order with its product by id.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, orderSelect+" WHERE o.id = ?", id)
	return scanOrder(row)
}

// List returns orders ordered by id, optionally scoped to one owner.
func (r *OrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := orderSelect
	args := []any{}
	if filter.UserID != 0 {
		query += " WHERE o.user_id = ?"
		args = append(args, filter.UserID)
	}
	query += " ORDER BY o.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Update applies a partial update and returns the fresh row. Returns
// domain.ErrOrderNotFound when no row matches id.
func (r *OrderRepository) Update(ctx context.Context, id int64, patch ports.OrderPatch) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sets := []string{"updated_at = ?"}
	args := []any{now().Unix()}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	if patch.TotalPrice != nil {
		sets = append(sets, "total_price = ?")
		args = append(args, *patch.TotalPrice)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, "UPDATE orders SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes an order row. Returns domain.ErrOrderNotFound when no row
// matches id.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var created, updated int64
	var status string
	var pID sql.NullInt64
	var pName, pDescription, pImageURL sql.NullString
	var pPrice sql.NullFloat64
	var pUserID, pCreated, pUpdated sql.NullInt64

	err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPrice, &status, &created, &updated,
		&pID, &pName, &pDescription, &pPrice, &pImageURL, &pUserID, &pCreated, &pUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.CreatedAt = time.Unix(created, 0).UTC()
	o.UpdatedAt = time.Unix(updated, 0).UTC()
	if pID.Valid {
		o.Product = &domain.Product{
			ID:          pID.Int64,
			Name:        pName.String,
			Description: pDescription.String,
			Price:       pPrice.Float64,
			ImageURL:    pImageURL.String,
			UserID:      pUserID.Int64,
			CreatedAt:   time.Unix(pCreated.Int64, 0).UTC(),
			UpdatedAt:   time.Unix(pUpdated.Int64, 0).UTC(),
		}
	}
	return &o, nil
}
