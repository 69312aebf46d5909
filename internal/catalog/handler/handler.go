package handler

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	ErrInvalidQuery = "INVALID_QUERY"
	ErrNotFound     = "NOT_FOUND"
	ErrInternal     = "INTERNAL_ERROR"

	maxSlugLen = 120
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var errInvalidQuery = errors.New("invalid query")

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

// ListProducts serves GET /api/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, ErrInvalidQuery)
		return
	}

	page, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, page)
}

// GetFeatured serves GET /api/products/featured.
func (h *CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.uc.GetFeatured(r.Context())
	if err != nil {
		h.logger.Error("failed to get featured products", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, featured)
}

// GetFilters serves GET /api/filters.
func (h *CatalogHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.uc.GetFilters(r.Context())
	if err != nil {
		h.logger.Error("failed to get filters", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, filters)
}

// GetProduct serves GET /api/product/{slug}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if len(slug) > maxSlugLen || !slugPattern.MatchString(slug) {
		httpx.WriteError(w, http.StatusNotFound, ErrNotFound)
		return
	}

	product, err := h.uc.GetProduct(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, ErrNotFound)
			return
		}
		h.logger.Error("failed to get product", zap.String("slug", slug), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, product)
}

// ParseFilters turns list query parameters into filters. Unknown sort values
// fall back to newest first; anything else out of bounds is an error.
func ParseFilters(q url.Values) (*dto.ProductFilters, error) {
	f := &dto.ProductFilters{
		Sort:     dto.SortNew,
		Page:     1,
		PageSize: dto.DefaultPageSize,
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, errInvalidQuery
		}
		f.Page = n
	}

	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > dto.MaxPageSize {
			return nil, errInvalidQuery
		}
		f.PageSize = n
	}

	var err error
	if f.SearchQuery, err = boundedParam(q, "q", 80); err != nil {
		return nil, err
	}
	if f.Category, err = boundedParam(q, "category", 60); err != nil {
		return nil, err
	}
	if f.ColorSlug, err = boundedParam(q, "color", 60); err != nil {
		return nil, err
	}

	sizes, err := boundedParam(q, "sizes", 200)
	if err != nil {
		return nil, err
	}
	if sizes != "" {
		for _, s := range strings.Split(sizes, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Sizes = append(f.Sizes, s)
			}
		}
	} else {
		size, err := boundedParam(q, "size", 20)
		if err != nil {
			return nil, err
		}
		if size != "" {
			f.Sizes = []string{size}
		}
	}

	if f.MinPrice, err = priceParam(q, "minPrice"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = priceParam(q, "maxPrice"); err != nil {
		return nil, err
	}

	sort, err := boundedParam(q, "sort", 20)
	if err != nil {
		return nil, err
	}
	switch sort {
	case dto.SortOld, dto.SortPriceAsc, dto.SortPriceDesc:
		f.Sort = sort
	}

	return f, nil
}

func boundedParam(q url.Values, key string, max int) (string, error) {
	v := strings.TrimSpace(q.Get(key))
	if utf8.RuneCountInString(v) > max {
		return "", errInvalidQuery
	}
	return v, nil
}

func priceParam(q url.Values, key string) (*int64, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	if len(v) > 10 {
		return nil, errInvalidQuery
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return nil, errInvalidQuery
		}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, errInvalidQuery
	}
	return &n, nil
}
