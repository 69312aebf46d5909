package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/fekuna/omnipos-storefront/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/jmoiron/sqlx"
)

const productColumns = `p.id, p.slug, p.title, p.category, p.description, p.composition,
	p.certification, p.status, p.popular, p.preview, p.created_at, p.updated_at`

const minActivePrice = `(SELECT MIN(v.price) FROM colors c JOIN variants v ON v.color_id = c.id
	WHERE c.product_id = p.id AND v.status = 'ACTIVE')`

type PGRepository struct {
	DB *sqlx.DB
	sb sq.StatementBuilderType
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{
		DB: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	where, err := buildWhere(f)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := r.sb.Select("count(*)").From("products p").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		return []model.Product{}, 0, nil
	}

	listBuilder := r.sb.Select(productColumns).
		From("products p").
		Where(where).
		OrderBy(orderBy(f.Sort)...)
	if f.PageSize > 0 {
		listBuilder = listBuilder.Limit(uint64(f.PageSize)).Offset(uint64(f.Offset()))
	}

	listQuery, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	if err := r.loadRelations(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1 AND p.status = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, slug, model.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	products := []model.Product{product}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *PGRepository) FindFeatured(ctx context.Context, popularLimit, previewLimit int) ([]model.Product, []model.Product, error) {
	var popular, preview []model.Product

	query := `SELECT ` + productColumns + ` FROM products p
		WHERE p.status = 'ACTIVE' AND p.popular IS NOT NULL ORDER BY p.popular ASC LIMIT $1`
	if err := r.DB.SelectContext(ctx, &popular, query, popularLimit); err != nil {
		return nil, nil, fmt.Errorf("list popular products: %w", err)
	}

	query = `SELECT ` + productColumns + ` FROM products p
		WHERE p.status = 'ACTIVE' AND p.preview IS NOT NULL ORDER BY p.preview ASC LIMIT $1`
	if err := r.DB.SelectContext(ctx, &preview, query, previewLimit); err != nil {
		return nil, nil, fmt.Errorf("list preview products: %w", err)
	}

	if err := r.loadRelations(ctx, popular); err != nil {
		return nil, nil, err
	}
	if err := r.loadRelations(ctx, preview); err != nil {
		return nil, nil, err
	}
	return popular, preview, nil
}

// in-stock, active variants of active products
const facetJoin = `FROM products p
	JOIN colors c ON c.product_id = p.id
	JOIN variants v ON v.color_id = c.id
	WHERE p.status = 'ACTIVE' AND v.status = 'ACTIVE' AND v.stock > 0`

func (r *PGRepository) FindFacets(ctx context.Context) (*dto.Filters, error) {
	out := &dto.Filters{
		Categories: []string{},
		Sizes:      []string{},
		Colors:     []dto.ColorOption{},
	}

	if err := r.DB.SelectContext(ctx, &out.Categories,
		`SELECT DISTINCT p.category `+facetJoin+` AND p.category IS NOT NULL ORDER BY p.category`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var sizes []struct {
		Size     string `db:"size"`
		SizeSort int    `db:"size_sort"`
	}
	if err := r.DB.SelectContext(ctx, &sizes,
		`SELECT v.size, MIN(v.size_sort) AS size_sort `+facetJoin+` GROUP BY v.size ORDER BY size_sort, v.size`); err != nil {
		return nil, fmt.Errorf("list sizes: %w", err)
	}
	for _, s := range sizes {
		out.Sizes = append(out.Sizes, s.Size)
	}

	if err := r.DB.SelectContext(ctx, &out.Colors,
		`SELECT c.slug, MIN(c.name) AS name `+facetJoin+` GROUP BY c.slug ORDER BY name, c.slug`); err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}

	var prices struct {
		Min int64 `db:"min_price"`
		Max int64 `db:"max_price"`
	}
	if err := r.DB.GetContext(ctx, &prices,
		`SELECT COALESCE(MIN(v.price), 0) AS min_price, COALESCE(MAX(v.price), 0) AS max_price `+facetJoin); err != nil {
		return nil, fmt.Errorf("price range: %w", err)
	}
	out.MinPrice = prices.Min
	out.MaxPrice = prices.Max

	return out, nil
}

func (r *PGRepository) FindAllActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.status = 'ACTIVE' ORDER BY p.id`
	if err := r.DB.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// loadRelations fills colors, images and ACTIVE variants in three queries.
func (r *PGRepository) loadRelations(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		byID[products[i].ID] = &products[i]
	}

	var colors []model.Color
	if err := r.selectIn(ctx, &colors, `
		SELECT id, product_id, name, slug, sort_order FROM colors
		WHERE product_id IN (?) ORDER BY sort_order, id`, ids); err != nil {
		return fmt.Errorf("load colors: %w", err)
	}

	var images []model.Image
	if err := r.selectIn(ctx, &images, `
		SELECT i.id, i.color_id, i.url, i.alt, i.sort_order FROM images i
		JOIN colors c ON c.id = i.color_id
		WHERE c.product_id IN (?) ORDER BY i.sort_order, i.id`, ids); err != nil {
		return fmt.Errorf("load images: %w", err)
	}

	var variants []model.Variant
	if err := r.selectIn(ctx, &variants, `
		SELECT v.id, v.color_id, v.size, v.size_sort, v.price, v.stock, v.sku, v.status, v.created_at, v.updated_at
		FROM variants v
		JOIN colors c ON c.id = v.color_id
		WHERE c.product_id IN (?) AND v.status = 'ACTIVE'
		ORDER BY v.size_sort, v.size`, ids); err != nil {
		return fmt.Errorf("load variants: %w", err)
	}

	imagesByColor := make(map[string][]model.Image)
	for _, img := range images {
		imagesByColor[img.ColorID] = append(imagesByColor[img.ColorID], img)
	}
	variantsByColor := make(map[string][]model.Variant)
	for _, v := range variants {
		variantsByColor[v.ColorID] = append(variantsByColor[v.ColorID], v)
	}

	for _, c := range colors {
		c.Images = imagesByColor[c.ID]
		c.Variants = variantsByColor[c.ID]
		p := byID[c.ProductID]
		p.Colors = append(p.Colors, c)
	}
	return nil
}

func (r *PGRepository) selectIn(ctx context.Context, dest any, query string, ids []string) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return r.DB.SelectContext(ctx, dest, r.DB.Rebind(q), args...)
}

func buildWhere(f *dto.ProductFilters) (sq.And, error) {
	where := sq.And{sq.Eq{"p.status": model.StatusActive}}

	if f.Category != "" {
		where = append(where, sq.Eq{"p.category": f.Category})
	}

	// Engine hits are OR-ed with the title match so products added since the
	// last reindex, and partial words, are still found.
	switch {
	case f.ProductIDs != nil && f.SearchQuery != "":
		where = append(where, sq.Or{
			sq.Eq{"p.id": f.ProductIDs},
			sq.ILike{"p.title": "%" + escapeLike(f.SearchQuery) + "%"},
		})
	case f.ProductIDs != nil:
		where = append(where, sq.Eq{"p.id": f.ProductIDs})
	case f.SearchQuery != "":
		where = append(where, sq.ILike{"p.title": "%" + escapeLike(f.SearchQuery) + "%"})
	}

	if f.HasVariantFilter() {
		// Placeholders stay as '?' here; the outer builder renumbers them.
		sub := sq.Select("1").
			From("colors c").
			Join("variants v ON v.color_id = c.id").
			Where("c.product_id = p.id").
			Where(sq.Eq{"v.status": model.StatusActive})
		if f.ColorSlug != "" {
			sub = sub.Where(sq.Eq{"c.slug": f.ColorSlug})
		}
		if len(f.Sizes) > 0 {
			sub = sub.Where(sq.Eq{"v.size": f.Sizes})
		}
		if f.MinPrice != nil {
			sub = sub.Where(sq.GtOrEq{"v.price": *f.MinPrice})
		}
		if f.MaxPrice != nil {
			sub = sub.Where(sq.LtOrEq{"v.price": *f.MaxPrice})
		}

		subSQL, subArgs, err := sub.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build variant filter: %w", err)
		}
		where = append(where, sq.Expr("EXISTS ("+subSQL+")", subArgs...))
	}

	return where, nil
}

func orderBy(sort string) []string {
	switch sort {
	case dto.SortOld:
		return []string{"p.updated_at ASC", "p.id ASC"}
	case dto.SortPriceAsc:
		return []string{minActivePrice + " ASC NULLS LAST", "p.id ASC"}
	case dto.SortPriceDesc:
		return []string{minActivePrice + " DESC NULLS LAST", "p.id ASC"}
	default:
		return []string{"p.updated_at DESC", "p.id ASC"}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
