package ports

import (
	"context"

	"github.com/cumroad/commerce-soap/internal/core/domain"
)

// UserPatch carries the fields of a partial user update. Nil means "leave
// unchanged".
type UserPatch struct {
	Name         *string
	PasswordHash *string
}

// UserRepository defines persistence operations for users. Create returns
// domain.ErrEmailTaken when the email is already registered; lookups return
// domain.ErrUserNotFound for missing rows.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// ProductPatch carries the fields of a partial product update.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// OrderPatch carries the fields of a partial order update. TotalPrice is set
// by the service when the quantity changes, never by the caller directly.
type OrderPatch struct {
	Quantity   *int64
	TotalPrice *float64
	Status     *domain.OrderStatus
}

// OrderFilter scopes order listings. UserID zero means no owner filter
// (admin view); non-zero scopes the listing to that user.
type OrderFilter struct {
	UserID int64
}

// OrderRepository defines persistence operations for orders. Reads load the
// referenced product alongside each order.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	Update(ctx context.Context, id int64, patch OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}
