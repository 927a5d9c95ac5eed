package common

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type BanStatus string

const (
	BanStatusAll       BanStatus = "all"
	BanStatusBanned    BanStatus = "banned"
	BanStatusNotBanned BanStatus = "notBanned"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PSQL returns a statement builder configured for Postgres placeholders.
func PSQL() squirrel.StatementBuilderType {
	return psql
}

// QueryParams is the canonical descriptor built from the raw listing query
// string. All parsing is permissive: a missing or malformed value falls back
// to its default instead of producing an error.
type QueryParams struct {
	Page        int
	Size        int
	SortField   string
	SortDir     SortDirection
	SearchTerms map[string]string
	BanStatus   BanStatus

	sortColumn string
}

// ParseQueryParams normalizes the raw query values. sortColumns is the closed
// set of permitted sortBy values mapped to their database columns; a sortBy
// outside the set falls back to defaultSort. searchFields names the search
// parameters the resource understands (e.g. searchNameTerm); values for any
// other parameter are ignored.
func ParseQueryParams(values url.Values, defaultSort string, sortColumns map[string]string, searchFields ...string) QueryParams {
	p := QueryParams{
		Page:        DefaultPage,
		Size:        DefaultPageSize,
		SortField:   defaultSort,
		SortDir:     SortDesc,
		SearchTerms: make(map[string]string),
		BanStatus:   BanStatusAll,
	}

	if n, err := strconv.Atoi(values.Get("pageNumber")); err == nil && n > 0 {
		p.Page = n
	}

	if n, err := strconv.Atoi(values.Get("pageSize")); err == nil && n > 0 {
		p.Size = n
	}

	if field := values.Get("sortBy"); field != "" {
		if _, ok := sortColumns[field]; ok {
			p.SortField = field
		}
	}
	p.sortColumn = sortColumns[p.SortField]

	if strings.EqualFold(values.Get("sortDirection"), "asc") {
		p.SortDir = SortAsc
	}

	for _, field := range searchFields {
		if term := values.Get(field); term != "" {
			p.SearchTerms[field] = term
		}
	}

	switch BanStatus(values.Get("banStatus")) {
	case BanStatusBanned:
		p.BanStatus = BanStatusBanned
	case BanStatusNotBanned:
		p.BanStatus = BanStatusNotBanned
	}

	return p
}

// ApplySearch adds an OR of case-insensitive substring matches over the
// declared search columns. searchColumns maps the search parameter name to
// its database column. No search terms means no filter at all.
func (p QueryParams) ApplySearch(b squirrel.SelectBuilder, searchColumns map[string]string) squirrel.SelectBuilder {
	fields := make([]string, 0, len(p.SearchTerms))
	for field := range p.SearchTerms {
		if _, ok := searchColumns[field]; ok {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return b
	}

	// stable argument order across identical requests
	sort.Strings(fields)

	or := make(squirrel.Or, 0, len(fields))
	for _, field := range fields {
		or = append(or, squirrel.ILike{searchColumns[field]: "%" + likeEscaper.Replace(p.SearchTerms[field]) + "%"})
	}

	return b.Where(or)
}

// likeEscaper neutralizes LIKE metacharacters so search terms match as
// literal substrings.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ApplyBanStatus narrows the result set to banned or not-banned rows. The
// default "all" leaves the builder untouched.
func (p QueryParams) ApplyBanStatus(b squirrel.SelectBuilder, column string) squirrel.SelectBuilder {
	switch p.BanStatus {
	case BanStatusBanned:
		return b.Where(squirrel.Eq{column: true})
	case BanStatusNotBanned:
		return b.Where(squirrel.Eq{column: false})
	default:
		return b
	}
}

// ApplyOrder sorts by the resolved sort column with the id column as
// tie-breaker, so repeated queries with identical inputs return rows in the
// same order.
func (p QueryParams) ApplyOrder(b squirrel.SelectBuilder, idColumn string) squirrel.SelectBuilder {
	return b.OrderBy(fmt.Sprintf("%s %s", p.sortColumn, p.SortDir), idColumn+" ASC")
}

// ApplyPaging applies LIMIT/OFFSET derived from page number and size.
func (p QueryParams) ApplyPaging(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	return b.Limit(uint64(p.Size)).Offset(uint64((p.Page - 1) * p.Size))
}

// Page is the listing envelope shared by every paginated endpoint.
type Page[T any] struct {
	PagesCount int `json:"pagesCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Items      []T `json:"items"`
}

// NewPage echoes the requested page and size regardless of how many rows
// matched; a page past the end simply carries no items.
func NewPage[T any](items []T, totalCount int, p QueryParams) *Page[T] {
	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		PagesCount: PagesCount(totalCount, p.Size),
		Page:       p.Page,
		PageSize:   p.Size,
		TotalCount: totalCount,
		Items:      items,
	}
}

// PagesCount computes ceil(totalCount / pageSize).
func PagesCount(totalCount, pageSize int) int {
	if totalCount == 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
