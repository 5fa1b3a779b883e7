package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"storefront/internal/types"
)

// normalizeProductList accepts both catalog response shapes: a bare JSON array
// of products, or the {products,totalCount,totalPages} wrapper.
func normalizeProductList(data []byte) ([]types.Product, PageInfo, error) {
	var products []types.Product
	if err := json.Unmarshal(data, &products); err == nil {
		return products, PageInfo{}, nil
	}

	var page productPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, PageInfo{}, fmt.Errorf("decode product list: %w", err)
	}
	return page.Products, PageInfo{TotalCount: page.TotalCount, TotalPages: page.TotalPages}, nil
}

// recommendationFetchers caps the concurrent product lookups used to resolve
// the id-only recommendation shape.
const recommendationFetchers = 4

// Recommendations fetches personalized recommendations. The endpoint has two
// observed shapes, a product array and a bare id array; the id shape is
// resolved into full products here so callers never see it.
func (c *Client) Recommendations(ctx context.Context, userID int64, limit int) ([]types.Product, error) {
	query := url.Values{}
	if userID > 0 {
		query.Set("userId", strconv.FormatInt(userID, 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	data, err := c.get(ctx, "/api/recommendations", query)
	if err != nil {
		return nil, err
	}

	var products []types.Product
	if err := json.Unmarshal(data, &products); err == nil {
		// An id array also decodes as []Product with only IDs set when the
		// elements are objects; a true id array fails and falls through.
		return products, nil
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return c.resolveProducts(ctx, ids, userID)
}

// resolveProducts fetches each recommended id, preserving the recommendation
// order. Individual misses are dropped rather than failing the whole strip.
func (c *Client) resolveProducts(ctx context.Context, ids []int64, userID int64) ([]types.Product, error) {
	var (
		mu      sync.Mutex
		byIndex = make(map[int]types.Product, len(ids))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(recommendationFetchers)

	for i, id := range ids {
		g.Go(func() error {
			p, err := c.Product(ctx, id, userID)
			if err != nil {
				c.log.Warn("recommendation %d dropped: %v", id, err)
				return nil
			}
			mu.Lock()
			byIndex[i] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	products := make([]types.Product, 0, len(indexes))
	for _, i := range indexes {
		products = append(products, byIndex[i])
	}
	return products, nil
}
