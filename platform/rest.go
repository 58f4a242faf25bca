package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Query builds a request against the platform's row-level query API.
// Filters compose in the service's column=op.value dialect.
type Query struct {
	c      *Client
	table  string
	params url.Values
	single bool
}

// From starts a query against a table of the hosted store.
func (c *Client) From(table string) *Query {
	return &Query{
		c:      c,
		table:  table,
		params: url.Values{},
	}
}

func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

func (q *Query) Gte(column, value string) *Query {
	q.params.Add(column, "gte."+value)
	return q
}

func (q *Query) Lte(column, value string) *Query {
	q.params.Add(column, "lte."+value)
	return q
}

func (q *Query) OrderAsc(column string) *Query {
	q.params.Set("order", column+".asc")
	return q
}

func (q *Query) OrderDesc(column string) *Query {
	q.params.Set("order", column+".desc")
	return q
}

// Single makes the query expect exactly one row, decoded as an
// object instead of a one-element array.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) endpoint() string {
	u := q.c.baseURL + "/rest/v1/" + q.table
	if len(q.params) > 0 {
		u += "?" + q.params.Encode()
	}
	return u
}

func (q *Query) run(ctx context.Context, method string, prefer string, payload any, dest any) error {
	req, err := q.c.newRequest(ctx, method, q.endpoint(), q.c.accessToken(), payload)
	if err != nil {
		return err
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}

	body, err := q.c.do(req, "query on "+q.table+" failed")
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(body, dest)
}

// Get selects the matching rows into dest.
func (q *Query) Get(ctx context.Context, dest any) error {
	q.params.Set("select", "*")
	return q.run(ctx, http.MethodGet, "", nil, dest)
}

// Insert adds a row, decoding the stored representation into dest
// when dest is non-nil.
func (q *Query) Insert(ctx context.Context, row any, dest any) error {
	return q.run(ctx, http.MethodPost, "return=representation", row, dest)
}

// Upsert inserts a row, merging with the existing one on a conflict
// of the given column. Tolerates a server-side trigger racing the
// client to create the row.
func (q *Query) Upsert(ctx context.Context, row any, onConflict string, dest any) error {
	q.params.Set("on_conflict", onConflict)
	return q.run(ctx, http.MethodPost, "resolution=merge-duplicates,return=representation", row, dest)
}

// Update patches the matching rows with fields.
func (q *Query) Update(ctx context.Context, fields any, dest any) error {
	return q.run(ctx, http.MethodPatch, "return=representation", fields, dest)
}
