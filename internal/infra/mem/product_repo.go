package mem

import (
	"context"
	"sync"

	"github.com/small-engineer/go-product-serv/internal/domain"
)

type ProductRepo struct {
	mu    sync.Mutex
	m     map[domain.ProductID]*domain.Product
	order []domain.ProductID
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		m: make(map[domain.ProductID]*domain.Product),
	}
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	id, err := newID()
	if err != nil {
		return err
	}
	p.ID = domain.ProductID(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.m[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, id := range r.order {
		out = append(out, *r.m[id])
	}
	return out, nil
}

func (r *ProductRepo) UpdateByID(ctx context.Context, id domain.ProductID, name string, price float64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	p.Name = name
	p.Price = price
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) DeleteByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	delete(r.m, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	cp := *p
	return &cp, nil
}
