package ports

import (
	"context"

	"github.com/cumroad/commerce-soap/internal/core/domain"
)

// CreateUserInput carries registration parameters. Name may be empty; the
// service derives a default from the email local part.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateUserInput carries the mutable user fields; nil means unchanged.
type UpdateUserInput struct {
	Name     *string
	Password *string
}

// UserService implements the user operations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, actor domain.Identity, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Identity, id int64) error
}

// AuthService implements session operations. Login returns a signed bearer
// token alongside the authenticated user.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// CreateProductInput carries new-product parameters.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

// UpdateProductInput carries the mutable product fields; nil means unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
}

// ProductService implements the product operations. Mutations verify that
// the actor owns the product or is an admin before touching the store.
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, actor domain.Identity, input CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Identity, id int64, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Identity, id int64) error
}

// CreateOrderInput carries new-order parameters.
type CreateOrderInput struct {
	ProductID int64
	Quantity  int64
}

// UpdateOrderInput carries the mutable order fields; nil means unchanged.
type UpdateOrderInput struct {
	Quantity *int64
	Status   *string
}

// OrderService implements the order operations. All reads and mutations are
// scoped to the owning user; admins see everything.
type OrderService interface {
	List(ctx context.Context, actor domain.Identity) ([]*domain.Order, error)
	Create(ctx context.Context, actor domain.Identity, input CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, actor domain.Identity, id int64) (*domain.Order, error)
	Update(ctx context.Context, actor domain.Identity, id int64, input UpdateOrderInput) (*domain.Order, error)
	Delete(ctx context.Context, actor domain.Identity, id int64) error
}
