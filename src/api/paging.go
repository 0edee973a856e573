package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/biznex/bizconsole/src/models"
)

const DefaultPageSize = 20

// PageParams selects one page of a listing. Zero values become page 0, size
// 20, and the endpoint's default sort.
type PageParams struct {
	Page int
	Size int
	Sort string
}

func (p PageParams) query(defaultSort string) url.Values {
	page, size := p.normalized()
	sort := p.Sort
	if sort == "" {
		sort = defaultSort
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sort", sort)
	return q
}

func (p PageParams) normalized() (page, size int) {
	page, size = p.Page, p.Size
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, size
}

// getPage fetches a paged listing. When emptyOnNoContent is set, a 204 yields
// an empty page instead of an error.
func getPage[T any](ctx context.Context, c *Client, req Request, params PageParams, emptyOnNoContent bool) (models.Page[T], error) {
	var page models.Page[T]
	err := c.Do(ctx, req, &page)
	if err != nil {
		if emptyOnNoContent && IsKind(err, KindNoContent) {
			p, s := params.normalized()
			return models.EmptyPage[T](p, s), nil
		}
		return models.Page[T]{}, err
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page, nil
}

func mergeQuery(a, b url.Values) url.Values {
	out := url.Values{}
	for k, vs := range a {
		out[k] = append(out[k], vs...)
	}
	for k, vs := range b {
		out[k] = append(out[k], vs...)
	}
	return out
}
