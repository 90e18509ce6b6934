package campground

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Davidxcr/YelpCamp/internal/response"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// sortColumns maps the public sortBy names onto columns of the "c" alias.
var sortColumns = map[string]string{
	"title":     "c.title",
	"price":     "c.price",
	"location":  "c.location",
	"createdAt": "c.created_at",
}

var sortableFields = []string{"title", "price", "location", "createdAt"}

type ListOptions struct {
	Page      int
	Limit     int
	Search    string
	Location  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
}

// Query is the store-agnostic form of a listing request. Where is empty
// when no filter applies.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
	Skip    int
	Take    int
}

// ParseListOptions reads listing parameters through query, usually
// (*fiber.Ctx).Query.
func ParseListOptions(query func(string) string) (ListOptions, error) {
	opts := ListOptions{
		Page:      positiveInt(query("page"), DefaultPage),
		Limit:     positiveInt(query("limit"), DefaultLimit),
		Search:    strings.TrimSpace(query("search")),
		Location:  strings.TrimSpace(query("location")),
		SortBy:    strings.TrimSpace(query("sortBy")),
		SortOrder: strings.ToLower(strings.TrimSpace(query("sortOrder"))),
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}
	if opts.SortBy == "" {
		opts.SortBy = "title"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = "asc"
	}

	var err error
	if opts.MinPrice, err = optionalPrice(query("minPrice"), "minPrice"); err != nil {
		return ListOptions{}, err
	}
	if opts.MaxPrice, err = optionalPrice(query("maxPrice"), "maxPrice"); err != nil {
		return ListOptions{}, err
	}
	if _, ok := sortColumns[opts.SortBy]; !ok {
		return ListOptions{}, response.InvalidInput("Invalid sort field",
			fmt.Sprintf("sortBy must be one of: %s", strings.Join(sortableFields, ", ")))
	}
	if opts.SortOrder != "asc" && opts.SortOrder != "desc" {
		return ListOptions{}, response.InvalidInput("Invalid sort order", "sortOrder must be asc or desc")
	}
	return opts, nil
}

func (o ListOptions) Build() Query {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if o.Search != "" {
		p := next(containsPattern(o.Search))
		conds = append(conds, fmt.Sprintf("(c.title ILIKE %[1]s OR c.description ILIKE %[1]s OR c.location ILIKE %[1]s)", p))
	}
	if o.Location != "" {
		conds = append(conds, "c.location ILIKE "+next(containsPattern(o.Location)))
	}
	if o.MinPrice != nil {
		conds = append(conds, "c.price >= "+next(*o.MinPrice))
	}
	if o.MaxPrice != nil {
		conds = append(conds, "c.price <= "+next(*o.MaxPrice))
	}

	column, ok := sortColumns[o.SortBy]
	if !ok {
		column = sortColumns["title"]
	}
	direction := "ASC"
	if o.SortOrder == "desc" {
		direction = "DESC"
	}

	page, limit := o.Page, o.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	return Query{
		Where:   strings.Join(conds, " AND "),
		Args:    args,
		OrderBy: column + " " + direction + ", c.id ASC",
		Skip:    (page - 1) * limit,
		Take:    limit,
	}
}

// WhereClause renders Where with its keyword, or nothing.
func (q Query) WhereClause() string {
	if q.Where == "" {
		return ""
	}
	return " WHERE " + q.Where
}

type Pagination struct {
	CurrentPage      int  `json:"currentPage"`
	TotalPages       int  `json:"totalPages"`
	TotalCampgrounds int  `json:"totalCampgrounds"`
	HasNextPage      bool `json:"hasNextPage"`
	HasPrevPage      bool `json:"hasPrevPage"`
	Limit            int  `json:"limit"`
}

func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		CurrentPage:      page,
		TotalPages:       totalPages,
		TotalCampgrounds: total,
		HasNextPage:      page < totalPages,
		HasPrevPage:      page > 1,
		Limit:            limit,
	}
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func optionalPrice(raw, name string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, response.InvalidInput("Invalid price filter", name+" must be a number")
	}
	return &v, nil
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s taken literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
