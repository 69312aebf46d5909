package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/cache"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	listCachePattern = "products:list:*"
	filtersCacheKey  = "products:filters"

	popularLimit = 4
	previewLimit = 3

	// ids taken from one search; the SQL filters narrow them further
	searchHitLimit = 500
	// default index.max_result_window
	indexScanLimit = 10000
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"title": { "type": "text" },
			"slug": { "type": "keyword" },
			"category": { "type": "text", "fields": { "raw": { "type": "keyword" } } },
			"description": { "type": "text" },
			"colors": { "type": "text" }
		}
	}
}`

type Options struct {
	Index      string
	ListTTL    time.Duration
	FiltersTTL time.Duration
}

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	es     catalog.SearchEngine
	opts   Options
	group  singleflight.Group
	logger logger.ZapLogger
}

// NewCatalogUseCase builds the catalog use case. cache and es may be nil, in
// which case listings are served straight from the repository.
func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, es catalog.SearchEngine, opts Options, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		opts:   opts,
		logger: log,
	}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) (*dto.ProductPage, error) {
	f := *filters
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = dto.DefaultPageSize
	}
	f.ProductIDs = nil

	cacheKey, err := generateCacheKey(&f)
	if err == nil && uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var page dto.ProductPage
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("catalog list cache read failed", zap.Error(err))
		}
	}

	if f.SearchQuery != "" && uc.es != nil {
		ids, err := uc.searchProductIDs(ctx, f.SearchQuery)
		if err != nil {
			uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
		} else {
			f.ProductIDs = ids
		}
	}

	products, total, err := uc.repo.FindAll(ctx, &f)
	if err != nil {
		return nil, err
	}

	page := &dto.ProductPage{
		Items:      summarize(products),
		Page:       f.Page,
		PageSize:   f.PageSize,
		Total:      total,
		TotalPages: (total + f.PageSize - 1) / f.PageSize,
	}

	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, uc.opts.ListTTL); err != nil {
				uc.logger.Warn("catalog list cache write failed", zap.Error(err))
			}
		}
	}

	return page, nil
}

func (uc *catalogUseCase) searchProductIDs(ctx context.Context, q string) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^3", "category", "colors", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"size":    searchHitLimit,
	}

	res, err := uc.es.Search(ctx, uc.opts.Index, query)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *catalogUseCase) GetFilters(ctx context.Context) (*dto.Filters, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, filtersCacheKey); err == nil {
			var f dto.Filters
			if err := json.Unmarshal(data, &f); err == nil {
				return &f, nil
			}
		}
	}

	// Shared by every waiting caller, so one cancelled request must not fail the rest.
	fillCtx := context.WithoutCancel(ctx)
	v, err, _ := uc.group.Do(filtersCacheKey, func() (any, error) {
		f, err := uc.repo.FindFacets(fillCtx)
		if err != nil {
			return nil, err
		}
		if uc.cache != nil {
			if data, err := json.Marshal(f); err == nil {
				if err := uc.cache.Set(fillCtx, filtersCacheKey, data, uc.opts.FiltersTTL); err != nil {
					uc.logger.Warn("catalog filters cache write failed", zap.Error(err))
				}
			}
		}
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.Filters), nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, slug string) (*dto.ProductDetail, error) {
	p, err := uc.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, catalog.ErrNotFound
	}
	return toDetail(p), nil
}

func (uc *catalogUseCase) GetFeatured(ctx context.Context) (*dto.Featured, error) {
	popular, preview, err := uc.repo.FindFeatured(ctx, popularLimit, previewLimit)
	if err != nil {
		return nil, err
	}
	return &dto.Featured{
		Popular: summarize(popular),
		Preview: summarize(preview),
	}, nil
}

type searchDocument struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Colors      []string `json:"colors"`
}

func (uc *catalogUseCase) ReindexProducts(ctx context.Context) (int, error) {
	if uc.es == nil {
		return 0, errors.New("search engine is not configured")
	}

	if err := uc.es.CreateIndex(ctx, uc.opts.Index, indexMapping); err != nil {
		return 0, fmt.Errorf("create index %s: %w", uc.opts.Index, err)
	}

	products, err := uc.repo.FindAllActive(ctx)
	if err != nil {
		return 0, err
	}

	active := make(map[string]bool, len(products))
	indexed := 0
	for _, p := range products {
		active[p.ID] = true
		doc := searchDocument{
			Title:       p.Title,
			Slug:        p.Slug,
			Category:    p.Category,
			Description: p.Description,
			Colors:      make([]string, 0, len(p.Colors)),
		}
		for _, c := range p.Colors {
			doc.Colors = append(doc.Colors, c.Name)
		}
		if err := uc.es.Index(ctx, uc.opts.Index, p.ID, doc); err != nil {
			uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		indexed++
	}

	if err := uc.pruneIndex(ctx, active); err != nil {
		return indexed, err
	}

	if uc.cache != nil {
		n, err := uc.cache.DeleteByPattern(ctx, listCachePattern)
		if err != nil {
			uc.logger.Warn("failed to invalidate catalog list cache", zap.Error(err))
		} else {
			uc.logger.Info("catalog list cache invalidated", zap.Int("keys", n))
		}
	}

	return indexed, nil
}

// pruneIndex deletes documents whose product is hidden or gone.
func (uc *catalogUseCase) pruneIndex(ctx context.Context, active map[string]bool) error {
	res, err := uc.es.Search(ctx, uc.opts.Index, map[string]any{
		"query":   map[string]any{"match_all": map[string]any{}},
		"_source": false,
		"size":    indexScanLimit,
	})
	if err != nil {
		return fmt.Errorf("list indexed products: %w", err)
	}

	removed := 0
	for _, hit := range res.Hits.Hits {
		if active[hit.ID] {
			continue
		}
		if err := uc.es.Delete(ctx, uc.opts.Index, hit.ID); err != nil {
			uc.logger.Error("failed to remove stale product", zap.String("product_id", hit.ID), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		uc.logger.Info("stale products removed from index", zap.Int("count", removed))
	}
	return nil
}

func summarize(products []model.Product) []dto.ProductSummary {
	out := make([]dto.ProductSummary, 0, len(products))
	for i := range products {
		out = append(out, toSummary(&products[i]))
	}
	return out
}

func toSummary(p *model.Product) dto.ProductSummary {
	s := dto.ProductSummary{
		ID:       p.ID,
		Title:    p.Title,
		Slug:     p.Slug,
		Category: p.Category,
		Sizes:    []string{},
		Colors:   []string{},
	}

	type size struct {
		label string
		sort  int
	}
	var (
		sizes    []size
		seen     = make(map[string]bool)
		hasPrice bool
	)

	for _, c := range p.Colors {
		if s.Thumb == nil && len(c.Images) > 0 {
			s.Thumb = &dto.Image{URL: c.Images[0].URL, Alt: c.Images[0].Alt}
		}

		active := false
		for _, v := range c.Variants {
			if !v.IsActive() {
				continue
			}
			active = true
			if !hasPrice || v.Price < s.PriceFrom {
				s.PriceFrom = v.Price
				hasPrice = true
			}
			if !seen[v.Size] {
				seen[v.Size] = true
				sizes = append(sizes, size{label: v.Size, sort: v.SizeSort})
			}
		}
		if active {
			s.Colors = append(s.Colors, c.Name)
		}
	}

	sort.SliceStable(sizes, func(i, j int) bool {
		if sizes[i].sort != sizes[j].sort {
			return sizes[i].sort < sizes[j].sort
		}
		return sizes[i].label < sizes[j].label
	})
	for _, sz := range sizes {
		s.Sizes = append(s.Sizes, sz.label)
	}

	return s
}

func toDetail(p *model.Product) *dto.ProductDetail {
	d := &dto.ProductDetail{
		Title:         p.Title,
		Slug:          p.Slug,
		Category:      p.Category,
		Description:   p.Description,
		Composition:   p.Composition,
		Certification: p.Certification,
		Status:        p.Status,
		Colors:        make([]dto.Color, 0, len(p.Colors)),
	}

	for _, c := range p.Colors {
		color := dto.Color{
			Name:     c.Name,
			Slug:     c.Slug,
			Images:   make([]dto.Image, 0, len(c.Images)),
			Variants: make([]dto.Variant, 0, len(c.Variants)),
		}
		for _, img := range c.Images {
			color.Images = append(color.Images, dto.Image{URL: img.URL, Alt: img.Alt})
		}
		for _, v := range c.Variants {
			if !v.IsActive() {
				continue
			}
			color.Variants = append(color.Variants, dto.Variant{
				ID:       v.ID,
				Size:     v.Size,
				SizeSort: v.SizeSort,
				Price:    v.Price,
				Stock:    v.Stock,
				SKU:      v.SKU,
				Status:   v.Status,
			})
		}
		d.Colors = append(d.Colors, color)
	}

	return d
}
