package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/biznex/bizconsole/src/models"
)

type BillingService struct {
	c *Client
}

const billingPath = "/api/v1/billing"

func (s *BillingService) Create(ctx context.Context, bill models.Bill) (*models.BillResponse, error) {
	return s.post(ctx, "Create Bill", billingPath, bill)
}

func (s *BillingService) Return(ctx context.Context, bill models.Bill) (*models.BillResponse, error) {
	return s.post(ctx, "Return Bill", billingPath+"/return-bill", bill)
}

func (s *BillingService) Credit(ctx context.Context, bill models.Bill) (*models.BillResponse, error) {
	return s.post(ctx, "Credit Bill", billingPath+"/credit-bill", bill)
}

func (s *BillingService) post(ctx context.Context, name, path string, bill models.Bill) (*models.BillResponse, error) {
	var out models.BillResponse
	err := s.c.Do(ctx, Request{
		Name:   name,
		Method: http.MethodPost,
		Path:   path,
		Body:   bill,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BillingService) Get(ctx context.Context, billNumber string) (*models.BillResponse, error) {
	var out models.BillResponse
	err := s.c.Do(ctx, Request{
		Name:   "Get Bill",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/%s", billingPath, url.PathEscape(billNumber)),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BillingService) List(ctx context.Context, params PageParams) (models.Page[models.BillResponse], error) {
	return getPage[models.BillResponse](ctx, s.c, Request{
		Name:   "List Bills",
		Method: http.MethodGet,
		Path:   billingPath,
		Query:  params.query("billId,asc"),
	}, params, false)
}

func (s *BillingService) Search(ctx context.Context, query string, params PageParams) (models.Page[models.BillResponse], error) {
	return getPage[models.BillResponse](ctx, s.c, Request{
		Name:   "Search Bills",
		Method: http.MethodGet,
		Path:   billingPath + "/search",
		Query:  mergeQuery(url.Values{"query": {query}}, params.query("billDate,desc")),
	}, params, true)
}

func (s *BillingService) ByCustomer(ctx context.Context, contact string, params PageParams) (models.Page[models.BillResponse], error) {
	return getPage[models.BillResponse](ctx, s.c, Request{
		Name:   "Bills By Customer",
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/customer/%s", billingPath, url.PathEscape(contact)),
		Query:  params.query("billId,asc"),
	}, params, true)
}

func (s *BillingService) Delete(ctx context.Context, id int64) error {
	return s.c.Do(ctx, Request{
		Name:   "Delete Bill",
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/%d", billingPath, id),
	}, nil)
}
