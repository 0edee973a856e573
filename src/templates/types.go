package templates

import (
	"html/template"
	"time"
)

type BaseData struct {
	Title       string
	BodyClasses []string
	Notices     []Notice

	CurrentUrl  string
	LoginUrl    string
	LogoutUrl   string
	EventsWsUrl string

	User   *User
	Header Header
}

func (bd *BaseData) AddImmediateNotice(class, content string) {
	bd.Notices = append(bd.Notices, Notice{
		Class:   class,
		Content: template.HTML(template.HTMLEscapeString(content)),
	})
}

type Notice struct {
	Content template.HTML
	Class   string
}

type Header struct {
	DashboardUrl   string
	CustomersUrl   string
	ProductsUrl    string
	BillingUrl     string
	CreditsUrl     string
	BillHistoryUrl string

	// Admin only.
	RegisterUrl   string
	AdminUsersUrl string
}

type User struct {
	Username           string
	Role               string
	IsAdmin            bool
	MustChangePassword bool
	ExpiresAt          time.Time
}

type Customer struct {
	ID         int64
	Name       string
	Email      string
	Contact    string
	Address    string
	Registered string
	Credits    float64
	BillsUrl   string
}

type Product struct {
	ID          int64
	Name        string
	Description string
	Code        string
	Category    string
	Price       float64
	Quantity    int
	LowStock    bool
	CategoryUrl string
}

type Bill struct {
	Number         string
	OriginalNumber string
	Date           string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Type           string
	Status         string
	PaymentMethod  string
	Total          float64
	Discount       float64
	IsReturn       bool
	Url            string
	Items          []BillItem
}

type BillItem struct {
	ProductID       int64
	ProductName     string
	PricePerUnit    float64
	Quantity        int
	DiscountPerUnit float64
	Total           float64
}

type AdminUser struct {
	Username string
	Email    string
	Role     string
	Contact  string
	IsAdmin  bool
}

type Pagination struct {
	Current int
	Total   int

	FirstUrl    string
	LastUrl     string
	PreviousUrl string
	NextUrl     string
}

type DashboardStat struct {
	Label string
	Value string
	Url   string
	Error string
}

type SearchForm struct {
	Action      string
	Query       string
	Placeholder string
	Hidden      map[string]string
}
