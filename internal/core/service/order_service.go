package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

// OrderService implements order management. Every read and mutation is
// scoped to the owning user; admins see and may touch everything.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, logger: logger}
}

func (s *OrderService) List(ctx context.Context, actor domain.Identity) ([]*domain.Order, error) {
	filter := ports.OrderFilter{UserID: actor.UserID}
	if actor.IsAdmin() {
		filter.UserID = 0
	}
	return s.orders.List(ctx, filter)
}

// Create places an order for the acting user. The total is computed from the
// product price at order time.
func (s *OrderService) Create(ctx context.Context, actor domain.Identity, input ports.CreateOrderInput) (*domain.Order, error) {
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		UserID:     actor.UserID,
		ProductID:  product.ID,
		Quantity:   input.Quantity,
		TotalPrice: product.Price * float64(input.Quantity),
		Status:     domain.OrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("order_id", created.ID).Int64("user_id", actor.UserID).Msg("order created")
	return created, nil
}

func (s *OrderService) GetByID(ctx context.Context, actor domain.Identity, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(order.UserID) {
		// Hide the existence of other users' orders.
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// Update mutates quantity and/or status. A quantity change recomputes the
// total from the current product price.
func (s *OrderService) Update(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateOrderInput) (*domain.Order, error) {
	if input.Status != nil && !domain.ValidOrderStatus(domain.OrderStatus(*input.Status)) {
		return nil, domain.ErrInvalidOrderStatus
	}

	existing, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(existing.UserID) {
		return nil, domain.ErrForbidden
	}

	patch := ports.OrderPatch{}
	if input.Quantity != nil {
		product, err := s.products.FindByID(ctx, existing.ProductID)
		if err != nil {
			return nil, err
		}
		total := product.Price * float64(*input.Quantity)
		patch.Quantity = input.Quantity
		patch.TotalPrice = &total
	}
	if input.Status != nil {
		status := domain.OrderStatus(*input.Status)
		patch.Status = &status
	}

	return s.orders.Update(ctx, id, patch)
}

func (s *OrderService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	existing, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanActOn(existing.UserID) {
		return domain.ErrForbidden
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("order_id", id).Int64("actor_id", actor.UserID).Msg("order deleted")
	return nil
}
