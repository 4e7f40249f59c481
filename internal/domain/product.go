package domain

type ProductID string

type Product struct {
	ID    ProductID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}
