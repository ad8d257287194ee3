package viewer

import (
	"strings"

	"stockview/internal/models"
)

// Filter returns the products matching term, in their original order.
//
// The term is trimmed and lower-cased. An empty term returns products as
// given. With column == AllColumns a product matches when any non-null value
// contains the term; otherwise only that column is checked and a product
// without it never matches. The input slice is never modified.
func Filter(products []*models.Product, term, column string) []*models.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return products
	}

	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if productMatches(p, needle, column) {
			out = append(out, p)
		}
	}
	return out
}

func productMatches(p *models.Product, needle, column string) bool {
	if column == AllColumns || column == "" {
		for _, v := range p.Values() {
			if valueContains(v, needle) {
				return true
			}
		}
		return false
	}
	v, ok := p.Get(column)
	if !ok {
		return false
	}
	return valueContains(v, needle)
}

func valueContains(v interface{}, needle string) bool {
	if v == nil {
		return false
	}
	return strings.Contains(strings.ToLower(models.FormatScalar(v)), needle)
}
