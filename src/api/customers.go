package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/biznex/bizconsole/src/models"
)

type CustomersService struct {
	c *Client
}

const customersPath = "/api/v1/customers"

func (s *CustomersService) List(ctx context.Context, params PageParams) (models.Page[models.Customer], error) {
	return getPage[models.Customer](ctx, s.c, Request{
		Name:   "List Customers",
		Method: http.MethodGet,
		Path:   customersPath,
		Query:  params.query("customerId,asc"),
	}, params, false)
}

func (s *CustomersService) Search(ctx context.Context, query string, params PageParams) (models.Page[models.Customer], error) {
	return getPage[models.Customer](ctx, s.c, Request{
		Name:   "Search Customers",
		Method: http.MethodGet,
		Path:   customersPath + "/search",
		Query:  mergeQuery(url.Values{"query": {query}}, params.query("customerId,asc")),
	}, params, true)
}

func (s *CustomersService) Credits(ctx context.Context, params PageParams) (models.CreditsPage, error) {
	var page models.CreditsPage
	err := s.c.Do(ctx, Request{
		Name:   "Customer Credits",
		Method: http.MethodGet,
		Path:   customersPath + "/credits",
		Query:  params.query("customerId,asc"),
	}, &page)
	if IsKind(err, KindNoContent) {
		p, sz := params.normalized()
		return models.CreditsPage{Page: models.EmptyPage[models.Customer](p, sz)}, nil
	} else if err != nil {
		return models.CreditsPage{}, err
	}
	if page.Content == nil {
		page.Content = []models.Customer{}
	}
	return page, nil
}

func (s *CustomersService) SearchCredits(ctx context.Context, query string, params PageParams) (models.Page[models.Customer], error) {
	return getPage[models.Customer](ctx, s.c, Request{
		Name:   "Search Customer Credits",
		Method: http.MethodGet,
		Path:   customersPath + "/credits/search",
		Query:  mergeQuery(url.Values{"query": {query}}, params.query("customerId,asc")),
	}, params, true)
}

func (s *CustomersService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.c.Do(ctx, Request{
		Name:   "Get Customer",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/%d", customersPath, id),
	}, &customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomersService) GetByContact(ctx context.Context, contact string) (*models.Customer, error) {
	var customer models.Customer
	err := s.c.Do(ctx, Request{
		Name:   "Get Customer By Contact",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/contact/%s", customersPath, url.PathEscape(contact)),
	}, &customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomersService) Add(ctx context.Context, customer models.Customer) (*models.Customer, error) {
	return s.write(ctx, "Add Customer", http.MethodPost, customer)
}

func (s *CustomersService) Update(ctx context.Context, customer models.Customer) (*models.Customer, error) {
	return s.write(ctx, "Update Customer", http.MethodPut, customer)
}

func (s *CustomersService) write(ctx context.Context, name, method string, customer models.Customer) (*models.Customer, error) {
	var out models.Customer
	err := s.c.Do(ctx, Request{
		Name:   name,
		Method: method,
		Path:   customersPath,
		Body:   customer,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CustomersService) Delete(ctx context.Context, contact string) error {
	return s.c.Do(ctx, Request{
		Name:   "Delete Customer",
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/%s", customersPath, url.PathEscape(contact)),
	}, nil)
}
