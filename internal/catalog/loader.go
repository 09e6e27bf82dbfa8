package catalog

import (
	"context"
	"log"
	"time"

	"mylavanya/internal/artist"
	"mylavanya/internal/cache"
	"mylavanya/internal/product"
	"mylavanya/internal/status"
)

// Catalog is the reference data every booking form needs: assignment
// candidates, offered products, and active status codes.
type Catalog struct {
	Artists  []artist.Option  `json:"artists"`
	Products []product.Product `json:"products"`
	Statuses []status.Option  `json:"statuses"`
}

// Loader fetches the three reference lists. A failed list is logged and
// degraded to empty so the forms stay usable with fewer choices; a load
// never fails the request.
type Loader struct {
	Artists  *artist.Repository
	Products *product.Repository
	Statuses *status.Repository
	Cache    *cache.Cache
}

const (
	cacheKey = "catalog:v1"
	cacheTTL = 30 * time.Second
)

func (l *Loader) Load(ctx context.Context) Catalog {
	var c Catalog
	if l.Cache.GetJSON(ctx, cacheKey, &c) {
		return c
	}

	artists, err := l.Artists.ListActiveOptions(ctx)
	if err != nil {
		log.Printf("[catalog] artists load failed: %v", err)
		artists = nil
	}
	products, err := l.Products.ListActive(ctx)
	if err != nil {
		log.Printf("[catalog] products load failed: %v", err)
		products = nil
	}
	statuses, err := l.Statuses.ListActive(ctx)
	if err != nil {
		log.Printf("[catalog] status codes load failed: %v", err)
		statuses = nil
	}

	if artists == nil {
		artists = []artist.Option{}
	}
	if products == nil {
		products = []product.Product{}
	}
	if statuses == nil {
		statuses = []status.Option{}
	}

	c = Catalog{Artists: artists, Products: products, Statuses: statuses}
	l.Cache.SetJSON(ctx, cacheKey, c, cacheTTL)
	return c
}
