package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/biznex/bizconsole/src/models"
)

type ProductsService struct {
	c *Client
}

const productsPath = "/api/v1/products"

func (s *ProductsService) List(ctx context.Context, params PageParams) (models.Page[models.Product], error) {
	return getPage[models.Product](ctx, s.c, Request{
		Name:   "List Products",
		Method: http.MethodGet,
		Path:   productsPath,
		Query:  params.query("productId,asc"),
	}, params, false)
}

func (s *ProductsService) SearchByName(ctx context.Context, name string, params PageParams) (models.Page[models.Product], error) {
	return getPage[models.Product](ctx, s.c, Request{
		Name:   "Search Products",
		Method: http.MethodGet,
		Path:   productsPath + "/search",
		Query:  mergeQuery(url.Values{"productName": {name}}, params.query("productId,asc")),
	}, params, true)
}

func (s *ProductsService) ByCategory(ctx context.Context, category string, params PageParams) (models.Page[models.Product], error) {
	return getPage[models.Product](ctx, s.c, Request{
		Name:   "Products By Category",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/category/%s", productsPath, url.PathEscape(category)),
		Query:  params.query("productId,asc"),
	}, params, true)
}

func (s *ProductsService) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.c.Do(ctx, Request{
		Name:   "Get Product",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/%d", productsPath, id),
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductsService) Add(ctx context.Context, product models.Product) (*models.Product, error) {
	var out models.Product
	err := s.c.Do(ctx, Request{
		Name:   "Add Product",
		Method: http.MethodPost,
		Path:   productsPath,
		Body:   product,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductsService) Update(ctx context.Context, id int64, product models.Product) (*models.Product, error) {
	var out models.Product
	err := s.c.Do(ctx, Request{
		Name:   "Update Product",
		Method: http.MethodPut,
		Path:   fmt.Sprintf("%s/%d", productsPath, id),
		Body:   product,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductsService) Delete(ctx context.Context, id int64) error {
	return s.c.Do(ctx, Request{
		Name:   "Delete Product",
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/%d", productsPath, id),
	}, nil)
}
