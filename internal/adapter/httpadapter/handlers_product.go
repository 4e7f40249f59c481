package httpadapter

import (
	"errors"
	"net/http"

	"github.com/small-engineer/go-product-serv/internal/domain"
	"github.com/small-engineer/go-product-serv/internal/usecase/product"
)

type productRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Name and price are required")
		return
	}

	ctx := r.Context()
	p, err := s.products.Create(ctx, req.Name, req.Price)
	if err != nil {
		if errors.Is(err, product.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "Name and price are required")
			return
		}
		s.log.Error("product_create_failed",
			"error", err.Error(),
			"request_id", RequestIDFromContext(ctx),
		)
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	s.log.Info("product_created",
		"id", string(p.ID),
		"user", UsernameFromContext(ctx),
		"request_id", RequestIDFromContext(ctx),
	)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ps, err := s.products.ListAll(ctx)
	if err != nil {
		s.log.Error("product_list_failed",
			"error", err.Error(),
			"request_id", RequestIDFromContext(ctx),
		)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if ps == nil {
		ps = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := domain.ProductID(r.PathValue("id"))

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Name and price are required")
		return
	}

	ctx := r.Context()
	p, err := s.products.UpdateByID(ctx, id, req.Name, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Name and price are required")
		case errors.Is(err, product.ErrNotFound):
			writeError(w, http.StatusNotFound, "Product not found")
		default:
			s.log.Error("product_update_failed",
				"error", err.Error(),
				"request_id", RequestIDFromContext(ctx),
			)
			writeError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := domain.ProductID(r.PathValue("id"))

	ctx := r.Context()
	_, err := s.products.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		s.log.Error("product_delete_failed",
			"error", err.Error(),
			"request_id", RequestIDFromContext(ctx),
		)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	s.log.Info("product_deleted",
		"id", string(id),
		"user", UsernameFromContext(ctx),
		"request_id", RequestIDFromContext(ctx),
	)
	writeJSON(w, http.StatusOK, jsonMessage{Message: "Product deleted"})
}
