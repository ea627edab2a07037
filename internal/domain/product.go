package domain

import (
	"strings"
	"time"
)

// Rating is a single user rating attached to a product.
type Rating struct {
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a catalog record as served by the remote product API. The field
// names follow the remote API's wire format; the client treats records as
// read-only and replaces them wholesale when the server returns updates.
type Product struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category,omitempty"`
	Stock         int       `json:"stock"`
	ImageURL      string    `json:"imgSrc,omitempty"`
	AverageRating float64   `json:"averageRating,omitempty"`
	TotalRatings  int       `json:"totalRatings,omitempty"`
	Ratings       []Rating  `json:"ratings,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// InStock reports whether the product has any remaining stock.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// RatingByUser returns the rating the given user previously left on this
// product, if any. Used to prefill the rating form.
func (p *Product) RatingByUser(userID string) (Rating, bool) {
	for _, r := range p.Ratings {
		if r.UserID == userID {
			return r, true
		}
	}
	return Rating{}, false
}

// MatchesTerm reports whether the product matches a free-text search term by
// case-insensitive substring on title or description. This mirrors the
// server-side search closely enough to mask latency while a query settles.
func (p *Product) MatchesTerm(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// ExtractCategories returns the unique, non-blank categories present in the
// given products, with the CategoryAll sentinel first. Order of the remaining
// categories follows first appearance.
func ExtractCategories(products []Product) []string {
	categories := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	return categories
}
