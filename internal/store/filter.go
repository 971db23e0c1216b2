package store

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Filter holds the optional property search parameters as they arrive from
// the query string. Unset dimensions impose no constraint; the combined
// predicate is the AND of all set dimensions.
type Filter struct {
	Type     string
	Category string
	Location string
	MinPrice string
	MaxPrice string
}

// Prices are stored as free text, so the cast is guarded: rows whose price is
// not a plain integer are excluded from range filtering rather than raising an
// invalid-cast error for the whole query.
const (
	priceAtLeast = "price ~ '^[0-9]+$' AND CAST(price AS NUMERIC) >= ?"
	priceAtMost  = "price ~ '^[0-9]+$' AND CAST(price AS NUMERIC) <= ?"
)

// apply chains the filter conditions onto a property query. Location matches
// case-insensitively on a trimmed substring; price bounds are inclusive and
// ignored when non-numeric.
func (f Filter) apply(query *gorm.DB) *gorm.DB {
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if location := strings.TrimSpace(f.Location); location != "" {
		query = query.Where("lower(location) LIKE ?", "%"+strings.ToLower(location)+"%")
	}
	if f.MinPrice != "" {
		if min, err := strconv.Atoi(f.MinPrice); err == nil {
			query = query.Where(priceAtLeast, min)
		}
	}
	if f.MaxPrice != "" {
		if max, err := strconv.Atoi(f.MaxPrice); err == nil {
			query = query.Where(priceAtMost, max)
		}
	}
	return query
}
