package productdata

import (
	"context"
)

// Snapshot is a point-in-time view of a single product as reported by
// the upstream catalog API.
type Snapshot struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Url         string   `json:"url"`
	ImageUrl    string   `json:"image_url"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// Review is a single customer review attached to a product.
type Review struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Date   string  `json:"date"`
}

type SearchResult struct {
	Query        string     `json:"query"`
	Page         int        `json:"page"`
	TotalResults int        `json:"total_results"`
	Products     []Snapshot `json:"products"`
}

type ReviewsResult struct {
	ProductUrl   string   `json:"product_url"`
	Page         int      `json:"page"`
	TotalResults int      `json:"total_results"`
	Reviews      []Review `json:"reviews"`
}

// Provider defines the contract for any product catalog backend.
type Provider interface {
	// Search runs a keyword search against the catalog.
	Search(ctx context.Context, query string, page int) (*SearchResult, error)

	// GetProductSnapshot fetches the current detail view for one product.
	GetProductSnapshot(ctx context.Context, productId string) (*Snapshot, error)

	// GetProductReviews fetches a page of reviews for a product URL.
	GetProductReviews(ctx context.Context, productUrl string, page int) (*ReviewsResult, error)
}
