package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Suffixes of the range parameters generated for date filters
const (
	rangeFromSuffix = "_from"
	rangeToSuffix   = "_to"
)

// ListParams drives search, filtering, sorting and pagination of a list
type ListParams struct {
	Search    string
	Filters   map[string]string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder SortOrder
}

// Normalize clamps paging values into their valid range.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.SortOrder = SortOrder(strings.ToUpper(string(p.SortOrder)))
	return p
}

// Offset returns the row offset of the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// FilterKind decides how a filter value is parsed and compared
type FilterKind int

const (
	FilterUUID FilterKind = iota
	FilterBool
	FilterInt
	FilterText
	FilterDate
)

type filter struct {
	column string
	kind   FilterKind
}

// listSpec describes how one entity is listed. Column expressions come from
// this table only; request values are always bound as arguments.
type listSpec struct {
	from        string
	columns     string
	idColumn    string
	search      []string
	filters     map[string]filter
	sorts       map[string]string
	defaultSort string
}

// queryBuilder accumulates a WHERE clause and its positional arguments
type queryBuilder struct {
	conds []string
	args  []interface{}
}

func (b *queryBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *queryBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// escapeLike escapes LIKE wildcards so search terms match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func (f filter) condition(b *queryBuilder, value string) (string, error) {
	switch f.kind {
	case FilterUUID:
		id, err := uuid.Parse(value)
		if err != nil {
			return "", err
		}
		return f.column + " = " + b.arg(id), nil
	case FilterBool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return "", err
		}
		return f.column + " = " + b.arg(v), nil
	case FilterInt:
		v, err := strconv.Atoi(value)
		if err != nil {
			return "", err
		}
		return f.column + " = " + b.arg(v), nil
	case FilterDate:
		t, dateOnly, err := parseTime(value)
		if err != nil {
			return "", err
		}
		if dateOnly {
			return fmt.Sprintf("(%s >= %s AND %s < %s)", f.column, b.arg(t), f.column, b.arg(t.AddDate(0, 0, 1))), nil
		}
		return f.column + " = " + b.arg(t), nil
	default:
		return f.column + " = " + b.arg(value), nil
	}
}

func (f filter) rangeCondition(b *queryBuilder, value string, upper bool) (string, error) {
	t, dateOnly, err := parseTime(value)
	if err != nil {
		return "", err
	}
	if !upper {
		return f.column + " >= " + b.arg(t), nil
	}
	if dateOnly {
		return f.column + " < " + b.arg(t.AddDate(0, 0, 1)), nil
	}
	return f.column + " <= " + b.arg(t), nil
}

// build renders the WHERE clause for search terms and filters. Every
// whitespace separated search term must match at least one search column.
func (s *listSpec) build(p ListParams) (*queryBuilder, error) {
	b := &queryBuilder{}

	for _, term := range strings.Fields(p.Search) {
		placeholder := b.arg("%" + escapeLike(term) + "%")
		ors := make([]string, len(s.search))
		for i, expr := range s.search {
			ors[i] = fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '') ILIKE %s", expr, placeholder)
		}
		b.conds = append(b.conds, "("+strings.Join(ors, " OR ")+")")
	}

	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := p.Filters[key]
		if value == "" {
			continue
		}

		var cond string
		var err error
		if f, ok := s.filters[key]; ok {
			cond, err = f.condition(b, value)
		} else if f, ok := s.rangeFilter(key, rangeFromSuffix); ok {
			cond, err = f.rangeCondition(b, value, false)
		} else if f, ok := s.rangeFilter(key, rangeToSuffix); ok {
			cond, err = f.rangeCondition(b, value, true)
		} else {
			return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidFilter, key)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilter, key, err)
		}
		b.conds = append(b.conds, cond)
	}

	return b, nil
}

func (s *listSpec) rangeFilter(key, suffix string) (filter, bool) {
	if !strings.HasSuffix(key, suffix) {
		return filter{}, false
	}
	f, ok := s.filters[strings.TrimSuffix(key, suffix)]
	return f, ok && f.kind == FilterDate
}

func (s *listSpec) orderBy(p ListParams) string {
	expr, ok := s.sorts[p.SortBy]
	if !ok {
		return s.defaultSort + ", " + s.idColumn
	}
	order := SortOrderAsc
	if p.SortOrder == SortOrderDesc {
		order = SortOrderDesc
	}
	return fmt.Sprintf("%s %s, %s", expr, order, s.idColumn)
}

// FilterNames returns the filters a list spec accepts, sorted.
func (s *listSpec) FilterNames() []string {
	names := make([]string, 0, len(s.filters))
	for name := range s.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// list counts and fetches one page of rows described by spec.
func list[T any](ctx context.Context, q sqlx.QueryerContext, spec *listSpec, p ListParams) ([]T, int, error) {
	p = p.Normalize()

	b, err := spec.build(p)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM " + spec.from + b.where()
	if err := sqlx.GetContext(ctx, q, &total, countQuery, b.args...); err != nil {
		return nil, 0, mapError(err, "count "+spec.from)
	}

	where := b.where()
	limit := b.arg(p.PageSize)
	offset := b.arg(p.Offset())
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT %s OFFSET %s",
		spec.columns, spec.from, where, spec.orderBy(p), limit, offset)

	items := []T{}
	if err := sqlx.SelectContext(ctx, q, &items, query, b.args...); err != nil {
		return nil, 0, mapError(err, "list "+spec.from)
	}

	return items, total, nil
}

// ListFilters returns the filter names accepted when listing table.
func ListFilters(table string) []string {
	spec, ok := listSpecs[table]
	if !ok {
		return nil
	}
	return spec.FilterNames()
}

var listSpecs = map[string]*listSpec{
	"categories":             &categoryList,
	"subcategories":          &subcategoryList,
	"products":               &productList,
	"product_shipping":       &shippingList,
	"product_images":         &productImageList,
	"product_variants":       &variantList,
	"price_history":          &priceHistoryList,
	"inventory_transactions": &transactionList,
	"product_reviews":        &reviewList,
	"review_images":          &reviewImageList,
	"discounts":              &discountList,
	"discount_history":       &discountHistoryList,
	"coupons":                &couponList,
	"coupon_usages":          &couponUsageList,
	"users":                  &userList,
}

// findByID loads one row of table into T.
func findByID[T any](ctx context.Context, q sqlx.QueryerContext, table string, id uuid.UUID) (*T, error) {
	var item T
	if err := sqlx.GetContext(ctx, q, &item, "SELECT * FROM "+table+" WHERE id = $1", id); err != nil {
		return nil, mapError(err, "find "+table)
	}
	return &item, nil
}

// findByIDForUpdate loads one row and locks it until the transaction ends.
func findByIDForUpdate[T any](ctx context.Context, q sqlx.QueryerContext, table string, id uuid.UUID) (*T, error) {
	var item T
	if err := sqlx.GetContext(ctx, q, &item, "SELECT * FROM "+table+" WHERE id = $1 FOR UPDATE", id); err != nil {
		return nil, mapError(err, "lock "+table)
	}
	return &item, nil
}

func deleteByID(ctx context.Context, q sqlx.ExecerContext, table string, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return mapError(err, "delete from "+table)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// productFileRefs lists the stored images owned by the products matching
// cond: their gallery images and the photos of their reviews. cond binds $1.
const productFileRefs = `
	SELECT pi.image FROM product_images pi
	JOIN products p ON p.id = pi.product_id
	WHERE %[1]s
	UNION ALL
	SELECT ri.image FROM review_images ri
	JOIN product_reviews pr ON pr.id = ri.review_id
	JOIN products p ON p.id = pr.product_id
	WHERE %[1]s
`

// fileRefs runs a file reference query, dropping empty references.
func fileRefs(ctx context.Context, q sqlx.QueryerContext, query string, id uuid.UUID) ([]string, error) {
	var refs []string
	if err := sqlx.SelectContext(ctx, q, &refs, query, id); err != nil {
		return nil, mapError(err, "list stored files")
	}

	out := refs[:0]
	for _, ref := range refs {
		if ref != "" {
			out = append(out, ref)
		}
	}
	return out, nil
}
