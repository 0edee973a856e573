package console

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/biznex/bizconsole/src/api"
	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/templates"
	"github.com/biznex/bizconsole/src/utils"
)

const (
	recentBillsCount = 5
	lowStockCount    = 5
)

type DashboardData struct {
	templates.BaseData
	Stats       []templates.DashboardStat
	RecentBills []templates.Bill
	LowStock    []templates.Product
}

// Dashboard loads its sections in parallel. A section that fails shows its
// error in place and doesn't take the others down with it.
func Dashboard(c *RequestContext) ResponseData {
	var (
		wg sync.WaitGroup

		customers    models.Page[models.Customer]
		customersErr error
		products     models.Page[models.Product]
		productsErr  error
		bills        models.Page[models.BillResponse]
		billsErr     error
		credits      models.CreditsPage
		creditsErr   error
	)

	fetch := func(errp *error, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer utils.RecoverPanicAsError(errp)
			*errp = f()
		}()
	}

	fetch(&customersErr, func() (err error) {
		customers, err = c.API.Customers.List(c, api.PageParams{Size: 1})
		return
	})
	fetch(&productsErr, func() (err error) {
		products, err = c.API.Products.List(c, api.PageParams{Size: 50, Sort: "productQuantity,asc"})
		return
	})
	fetch(&billsErr, func() (err error) {
		bills, err = c.API.Billing.List(c, api.PageParams{Size: recentBillsCount, Sort: "billDate,desc"})
		return
	})
	fetch(&creditsErr, func() (err error) {
		credits, err = c.API.Customers.Credits(c, api.PageParams{Size: 1})
		return
	})
	wg.Wait()

	for _, err := range []error{customersErr, productsErr, billsErr, creditsErr} {
		if isSessionGone(err) || isPasswordChangeRequired(err) {
			return backendFailure(c, err)
		}
	}
	for _, err := range []error{customersErr, productsErr, billsErr, creditsErr} {
		if err != nil {
			c.Logger.Warn().Err(err).Msg("dashboard section failed")
		}
	}

	baseData := getBaseData(c, "Dashboard")
	data := DashboardData{
		BaseData: baseData,
		Stats: []templates.DashboardStat{
			countStat("Customers", customers.TotalElements, baseData.Header.CustomersUrl, customersErr),
			countStat("Products", products.TotalElements, baseData.Header.ProductsUrl, productsErr),
			countStat("Bills", bills.TotalElements, baseData.Header.BillHistoryUrl, billsErr),
			{
				Label: "Outstanding credits",
				Value: templates.FormatMoney(credits.TotalCredits),
				Url:   baseData.Header.CreditsUrl,
				Error: errorText(creditsErr),
			},
		},
	}
	if billsErr == nil {
		data.RecentBills = templates.BillsToTemplate(bills.Content)
	}
	if productsErr == nil {
		for _, p := range templates.ProductsToTemplate(products.Content) {
			if p.LowStock && len(data.LowStock) < lowStockCount {
				data.LowStock = append(data.LowStock, p)
			}
		}
	}

	return renderPage(c, "dashboard.html", data)
}

func countStat(label string, count int64, url string, err error) templates.DashboardStat {
	return templates.DashboardStat{
		Label: label,
		Value: strconv.FormatInt(count, 10),
		Url:   url,
		Error: errorText(err),
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return userMessage(err)
}

type CustomersData struct {
	templates.BaseData
	Search     templates.SearchForm
	Customers  []templates.Customer
	Pagination templates.Pagination
}

func Customers(c *RequestContext) ResponseData {
	query := strings.TrimSpace(c.Req.URL.Query().Get("q"))
	params := api.PageParams{Page: c.PageParam()}

	var result models.Page[models.Customer]
	var err error
	if query == "" {
		result, err = c.API.Customers.List(c, params)
	} else {
		result, err = c.API.Customers.Search(c, query, params)
	}
	if err != nil {
		return backendFailure(c, err)
	}

	return renderPage(c, "customers.html", CustomersData{
		BaseData: getBaseData(c, "Customers"),
		Search: templates.SearchForm{
			Action:      bizurl.BuildCustomers("", 0),
			Query:       query,
			Placeholder: "Search by name, email or contact",
		},
		Customers: templates.CustomersToTemplate(result.Content),
		Pagination: templates.MakePagination(result.Page, result.TotalPages, func(page int) string {
			return bizurl.BuildCustomers(query, page)
		}),
	})
}

type ProductsData struct {
	templates.BaseData
	Category   string
	Search     templates.SearchForm
	Products   []templates.Product
	Pagination templates.Pagination
}

func Products(c *RequestContext) ResponseData {
	query := strings.TrimSpace(c.Req.URL.Query().Get("q"))
	category := strings.TrimSpace(c.Req.URL.Query().Get("category"))
	params := api.PageParams{Page: c.PageParam()}

	var result models.Page[models.Product]
	var err error
	switch {
	case category != "":
		result, err = c.API.Products.ByCategory(c, category, params)
	case query != "":
		result, err = c.API.Products.SearchByName(c, query, params)
	default:
		result, err = c.API.Products.List(c, params)
	}
	if err != nil {
		return backendFailure(c, err)
	}

	search := templates.SearchForm{
		Action:      bizurl.BuildProducts("", "", 0),
		Query:       query,
		Placeholder: "Search by product name",
	}
	if category != "" {
		search.Query = ""
	}

	return renderPage(c, "products.html", ProductsData{
		BaseData: getBaseData(c, "Products"),
		Category: category,
		Search:   search,
		Products: templates.ProductsToTemplate(result.Content),
		Pagination: templates.MakePagination(result.Page, result.TotalPages, func(page int) string {
			return bizurl.BuildProducts(query, category, page)
		}),
	})
}

type CreditsData struct {
	templates.BaseData
	Search         templates.SearchForm
	HasTotals      bool
	TotalCredits   float64
	AverageCredits float64
	Customers      []templates.Customer
	Pagination     templates.Pagination
}

// Credits lists customers with outstanding credit. Totals only come with the
// unfiltered listing.
func Credits(c *RequestContext) ResponseData {
	query := strings.TrimSpace(c.Req.URL.Query().Get("q"))
	params := api.PageParams{Page: c.PageParam()}

	data := CreditsData{
		BaseData: getBaseData(c, "Credits"),
		Search: templates.SearchForm{
			Action:      bizurl.BuildCredits("", 0),
			Query:       query,
			Placeholder: "Search customers with credit",
		},
	}

	var page models.Page[models.Customer]
	if query == "" {
		credits, err := c.API.Customers.Credits(c, params)
		if err != nil {
			return backendFailure(c, err)
		}
		page = credits.Page
		data.HasTotals = true
		data.TotalCredits = credits.TotalCredits
		data.AverageCredits = credits.AverageCredits
	} else {
		var err error
		page, err = c.API.Customers.SearchCredits(c, query, params)
		if err != nil {
			return backendFailure(c, err)
		}
	}

	data.Customers = templates.CustomersToTemplate(page.Content)
	data.Pagination = templates.MakePagination(page.Page, page.TotalPages, func(p int) string {
		return bizurl.BuildCredits(query, p)
	})
	return renderPage(c, "credits.html", data)
}

type BillHistoryData struct {
	templates.BaseData
	CustomerContact string
	Search          templates.SearchForm
	Bills           []templates.Bill
	Pagination      templates.Pagination
}

func BillHistory(c *RequestContext) ResponseData {
	query := strings.TrimSpace(c.Req.URL.Query().Get("q"))
	customer := strings.TrimSpace(c.Req.URL.Query().Get("customer"))
	params := api.PageParams{Page: c.PageParam()}

	var result models.Page[models.BillResponse]
	var err error
	switch {
	case customer != "":
		result, err = c.API.Billing.ByCustomer(c, customer, params)
	case query != "":
		result, err = c.API.Billing.Search(c, query, params)
	default:
		result, err = c.API.Billing.List(c, params)
	}
	if err != nil {
		return backendFailure(c, err)
	}

	search := templates.SearchForm{
		Action:      bizurl.BuildBillHistory("", "", 0),
		Query:       query,
		Placeholder: "Search bills",
	}
	if customer != "" {
		search.Query = ""
	}

	return renderPage(c, "bill_history.html", BillHistoryData{
		BaseData:        getBaseData(c, "Bill history"),
		CustomerContact: customer,
		Search:          search,
		Bills:           templates.BillsToTemplate(result.Content),
		Pagination: templates.MakePagination(result.Page, result.TotalPages, func(page int) string {
			return bizurl.BuildBillHistory(query, customer, page)
		}),
	})
}

type BillingData struct {
	templates.BaseData
	LookupUrl string
	Number    string
	Bill      *templates.Bill
}

// Billing looks up a single bill by number.
func Billing(c *RequestContext) ResponseData {
	number := strings.TrimSpace(c.Req.URL.Query().Get("number"))
	data := BillingData{
		BaseData:  getBaseData(c, "Billing"),
		LookupUrl: bizurl.BuildBilling(""),
		Number:    number,
	}

	if number != "" {
		bill, err := c.API.Billing.Get(c, number)
		if err != nil {
			if isSessionGone(err) || isPasswordChangeRequired(err) {
				return backendFailure(c, err)
			}
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.Kind == api.KindRequest {
				data.AddImmediateNotice("failure", apiErr.Message)
			} else {
				return backendFailure(c, err)
			}
		} else {
			b := templates.BillToTemplate(bill)
			data.Bill = &b
		}
	}

	return renderPage(c, "billing.html", data)
}
