package templates

import (
	"time"

	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/utils"
)

const LowStockThreshold = 10

func SessionToTemplate(s *models.Session) *User {
	if s == nil {
		return nil
	}
	var expiresAt time.Time
	if s.ExpireAt != 0 {
		expiresAt = s.ExpiresAt()
	}
	return &User{
		Username:           s.Username,
		Role:               string(s.UserRole),
		IsAdmin:            s.UserRole == models.RoleAdmin,
		MustChangePassword: s.MustChangePassword,
		ExpiresAt:          expiresAt,
	}
}

func CustomerToTemplate(c *models.Customer) Customer {
	return Customer{
		ID:         c.CustomerID,
		Name:       c.CustomerName,
		Email:      c.CustomerEmail,
		Contact:    c.CustomerContact,
		Address:    c.CustomerAddress,
		Registered: c.CustomerRegistrationDate,
		Credits:    c.CustomerCredits,
		BillsUrl:   bizurl.BuildBillHistory("", c.CustomerContact, 0),
	}
}

func CustomersToTemplate(cs []models.Customer) []Customer {
	result := make([]Customer, len(cs))
	for i := range cs {
		result[i] = CustomerToTemplate(&cs[i])
	}
	return result
}

func ProductToTemplate(p *models.Product) Product {
	return Product{
		ID:          p.ProductID,
		Name:        p.ProductName,
		Description: p.ProductDescription,
		Code:        p.ProductCode,
		Category:    p.ProductCategory,
		Price:       p.PricePerItem,
		Quantity:    p.ProductQuantity,
		LowStock:    p.ProductQuantity < LowStockThreshold,
		CategoryUrl: bizurl.BuildProducts("", p.ProductCategory, 0),
	}
}

func ProductsToTemplate(ps []models.Product) []Product {
	result := make([]Product, len(ps))
	for i := range ps {
		result[i] = ProductToTemplate(&ps[i])
	}
	return result
}

func BillToTemplate(b *models.BillResponse) Bill {
	items := make([]BillItem, len(b.BillItems))
	for i, item := range b.BillItems {
		items[i] = BillItem{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			PricePerUnit:    item.BillItemPricePerUnit,
			Quantity:        item.BillItemQuantity,
			DiscountPerUnit: item.DiscountPerUnit,
			Total:           item.TotalPrice,
		}
	}
	return Bill{
		Number:         b.BillNumber,
		OriginalNumber: b.OriginalBillNumber,
		Date:           b.BillDate,
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		CustomerPhone:  b.CustomerPhone,
		Type:           string(b.BillType),
		Status:         string(b.BillStatus),
		PaymentMethod:  string(b.PaymentMethod),
		Total:          b.TotalAmount,
		Discount:       b.TotalDiscount,
		IsReturn:       b.IsReturn(),
		Url:            bizurl.BuildBilling(b.BillNumber),
		Items:          items,
	}
}

func BillsToTemplate(bs []models.BillResponse) []Bill {
	result := make([]Bill, len(bs))
	for i := range bs {
		result[i] = BillToTemplate(&bs[i])
	}
	return result
}

func UsersToTemplate(us []models.User) []AdminUser {
	result := make([]AdminUser, len(us))
	for i, u := range us {
		result[i] = AdminUser{
			Username: u.Username,
			Email:    u.UserEmail,
			Role:     string(u.Role()),
			Contact:  u.UserContact,
			IsAdmin:  u.Role() == models.RoleAdmin,
		}
	}
	return result
}

// MakePagination builds page links. Pages are zero-based on the backend and
// one-based for people, so Current and Total are one-based here while
// buildUrl receives the backend page number.
func MakePagination(page, totalPages int, buildUrl func(page int) string) Pagination {
	totalPages = utils.OrDefault(totalPages, 1)
	page = utils.IntClamp(0, page, totalPages-1)

	p := Pagination{
		Current: page + 1,
		Total:   totalPages,
	}
	if page > 0 {
		p.FirstUrl = buildUrl(0)
		p.PreviousUrl = buildUrl(page - 1)
	}
	if page < totalPages-1 {
		p.NextUrl = buildUrl(page + 1)
		p.LastUrl = buildUrl(totalPages - 1)
	}
	return p
}
