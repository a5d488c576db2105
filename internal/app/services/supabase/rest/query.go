package rest

import (
	"clinic-portal-service/internal/pkg/dto/requests"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query builds PostgREST filter parameters.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{"select": {"*"}}}
}

func (q *Query) Select(columns string) *Query {
	q.values.Set("select", columns)
	return q
}

// Eq adds column=eq.value; empty values are ignored so optional filters can be chained.
func (q *Query) Eq(column, value string) *Query {
	if value != "" {
		q.values.Add(column, "eq."+value)
	}
	return q
}

func (q *Query) In(column string, values ...string) *Query {
	if len(values) > 0 {
		q.values.Add(column, "in.("+strings.Join(values, ",")+")")
	}
	return q
}

func (q *Query) Gte(column string, t *time.Time) *Query {
	if t != nil {
		q.values.Add(column, "gte."+t.UTC().Format(time.RFC3339))
	}
	return q
}

func (q *Query) Lt(column string, t *time.Time) *Query {
	if t != nil {
		q.values.Add(column, "lt."+t.UTC().Format(time.RFC3339))
	}
	return q
}

// ILike adds a case-insensitive substring match.
func (q *Query) ILike(column, value string) *Query {
	if value != "" {
		q.values.Add(column, "ilike.*"+value+"*")
	}
	return q
}

func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.values.Set("order", column+"."+dir)
	return q
}

func (q *Query) Page(p requests.Pagination) *Query {
	if p.PageSize > 0 {
		q.values.Set("limit", strconv.Itoa(p.PageSize))
		q.values.Set("offset", strconv.Itoa(p.Offset()))
	}
	return q
}

func (q *Query) Values() url.Values {
	return q.values
}
