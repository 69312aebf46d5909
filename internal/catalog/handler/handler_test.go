package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpx"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUseCase struct {
	lastFilters *dto.ProductFilters
	lastSlug    string
	err         error
}

func (f *fakeUseCase) ListProducts(_ context.Context, filters *dto.ProductFilters) (*dto.ProductPage, error) {
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ProductPage{Items: []dto.ProductSummary{{ID: "p-1", Slug: "bodysuit"}}, Page: filters.Page, PageSize: filters.PageSize, Total: 1, TotalPages: 1}, nil
}

func (f *fakeUseCase) GetFilters(context.Context) (*dto.Filters, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.Filters{Categories: []string{"Бодики"}, Sizes: []string{}, Colors: []dto.ColorOption{}}, nil
}

func (f *fakeUseCase) GetProduct(_ context.Context, slug string) (*dto.ProductDetail, error) {
	f.lastSlug = slug
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ProductDetail{Title: "Боди", Slug: slug, Colors: []dto.Color{}}, nil
}

func (f *fakeUseCase) GetFeatured(context.Context) (*dto.Featured, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.Featured{Popular: []dto.ProductSummary{{Slug: "a"}}, Preview: []dto.ProductSummary{}}, nil
}

func (f *fakeUseCase) ReindexProducts(context.Context) (int, error) { return 0, nil }

func newRouter(uc catalog.UseCase) http.Handler {
	h := NewCatalogHandler(uc, logger.NewNop())
	r := chi.NewRouter()
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/featured", h.GetFeatured)
	r.Get("/api/filters", h.GetFilters)
	r.Get("/api/product/{slug}", h.GetProduct)
	return r
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    *dto.ProductFilters
		wantErr bool
	}{
		{
			name:  "defaults",
			query: "",
			want:  &dto.ProductFilters{Sort: dto.SortNew, Page: 1, PageSize: 24},
		},
		{
			name:  "all filters",
			query: "q=+боди+&category=Бодики&color=milk&size=86&minPrice=500&maxPrice=3000&sort=price_asc&page=3&pageSize=60",
			want: &dto.ProductFilters{
				SearchQuery: "боди", Category: "Бодики", ColorSlug: "milk", Sizes: []string{"86"},
				MinPrice: int64Ptr(500), MaxPrice: int64Ptr(3000), Sort: dto.SortPriceAsc, Page: 3, PageSize: 60,
			},
		},
		{
			name:  "sizes win over size",
			query: "size=86&sizes=92,+98,,",
			want:  &dto.ProductFilters{Sizes: []string{"92", "98"}, Sort: dto.SortNew, Page: 1, PageSize: 24},
		},
		{
			name:  "unknown sort falls back",
			query: "sort=popular",
			want:  &dto.ProductFilters{Sort: dto.SortNew, Page: 1, PageSize: 24},
		},
		{name: "page zero", query: "page=0", wantErr: true},
		{name: "page not a number", query: "page=abc", wantErr: true},
		{name: "page size too large", query: "pageSize=61", wantErr: true},
		{name: "negative price", query: "minPrice=-1", wantErr: true},
		{name: "fractional price", query: "maxPrice=10.5", wantErr: true},
		{name: "price too long", query: "maxPrice=12345678901", wantErr: true},
		{name: "query too long", query: "q=" + strings.Repeat("я", 81), wantErr: true},
		{name: "category too long", query: "category=" + strings.Repeat("a", 61), wantErr: true},
		{name: "size too long", query: "size=" + strings.Repeat("1", 21), wantErr: true},
		{name: "sort too long", query: "sort=" + strings.Repeat("x", 21), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseFilters(q)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestListProducts(t *testing.T) {
	uc := &fakeUseCase{}
	r := newRouter(uc)

	rec := do(t, r, "/api/products?category=%D0%91%D0%BE%D0%B4%D0%B8%D0%BA%D0%B8&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page dto.ProductPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "Бодики", uc.lastFilters.Category)
}

func TestListProducts_InvalidQuery(t *testing.T) {
	uc := &fakeUseCase{}
	rec := do(t, newRouter(uc), "/api/products?pageSize=100")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrInvalidQuery, errorKind(t, rec))
	assert.Nil(t, uc.lastFilters)
}

func TestListProducts_InternalError(t *testing.T) {
	rec := do(t, newRouter(&fakeUseCase{err: errors.New("db down")}), "/api/products")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrInternal, errorKind(t, rec))
}

func TestGetProduct(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		ucErr    error
		wantCode int
	}{
		{"found", "bodysuit-milk-2", nil, http.StatusOK},
		{"uppercase slug", "Bodysuit", nil, http.StatusNotFound},
		{"underscore slug", "body_suit", nil, http.StatusNotFound},
		{"too long", strings.Repeat("a", 121), nil, http.StatusNotFound},
		{"missing", "missing", catalog.ErrNotFound, http.StatusNotFound},
		{"repository failure", "bodysuit", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.ucErr}
			rec := do(t, newRouter(uc), "/api/product/"+tt.slug)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusNotFound {
				assert.Equal(t, ErrNotFound, errorKind(t, rec))
			}
		})
	}
}

func TestGetProduct_InvalidSlugSkipsLookup(t *testing.T) {
	uc := &fakeUseCase{}
	rec := do(t, newRouter(uc), "/api/product/NOPE")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, uc.lastSlug)
}

func TestGetFilters(t *testing.T) {
	rec := do(t, newRouter(&fakeUseCase{}), "/api/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var f dto.Filters
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&f))
	assert.Equal(t, []string{"Бодики"}, f.Categories)
}

func TestGetFeatured(t *testing.T) {
	rec := do(t, newRouter(&fakeUseCase{}), "/api/products/featured")
	require.Equal(t, http.StatusOK, rec.Code)

	var f dto.Featured
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&f))
	require.Len(t, f.Popular, 1)
	assert.NotNil(t, f.Preview)
}
