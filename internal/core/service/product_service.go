package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cumroad/commerce-soap/internal/core/domain"
	"github.com/cumroad/commerce-soap/internal/core/ports"
)

// ProductService implements the product catalogue. Listing and reads are
// public; every mutation verifies ownership (or admin role) before the store
// is touched.
type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) Create(ctx context.Context, actor domain.Identity, input ports.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		UserID:      actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", created.ID).Int64("user_id", actor.UserID).Msg("product created")
	return created, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, actor domain.Identity, id int64, input ports.UpdateProductInput) (*domain.Product, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(existing.UserID) {
		return nil, domain.ErrForbidden
	}

	return s.repo.Update(ctx, id, ports.ProductPatch{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
	})
}

func (s *ProductService) Delete(ctx context.Context, actor domain.Identity, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanActOn(existing.UserID) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("product_id", id).Int64("actor_id", actor.UserID).Msg("product deleted")
	return nil
}
