package product

import (
	"context"
	"errors"

	"github.com/small-engineer/go-product-serv/internal/domain"
)

var (
	ErrMissingFields = errors.New("name and price are required")
	ErrNotFound      = errors.New("product not found")
)

// Repo persists products. UpdateByID and DeleteByID return (nil, nil) when no
// product has the given id, including ids that cannot name a stored product.
type Repo interface {
	Create(ctx context.Context, p *domain.Product) error
	ListAll(ctx context.Context) ([]domain.Product, error)
	UpdateByID(ctx context.Context, id domain.ProductID, name string, price float64) (*domain.Product, error)
	DeleteByID(ctx context.Context, id domain.ProductID) (*domain.Product, error)
}

type Service struct {
	products Repo
}

func NewService(r Repo) *Service {
	return &Service{
		products: r,
	}
}

func validate(name string, price float64) error {
	if name == "" || price == 0 {
		return ErrMissingFields
	}
	return nil
}

func (s *Service) Create(ctx context.Context, name string, price float64) (*domain.Product, error) {
	if err := validate(name, price); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Name:  name,
		Price: price,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListAll returns every product. There is no pagination; the whole collection
// is fetched.
func (s *Service) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListAll(ctx)
}

// UpdateByID fully overwrites the named product. Both fields are validated
// before the store is touched.
func (s *Service) UpdateByID(ctx context.Context, id domain.ProductID, name string, price float64) (*domain.Product, error) {
	if err := validate(name, price); err != nil {
		return nil, err
	}
	p, err := s.products.UpdateByID(ctx, id, name, price)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) DeleteByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	p, err := s.products.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
