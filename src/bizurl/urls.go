package bizurl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Route paths. The guard and the CLI compare against these.
const (
	PathLogin         = "/login"
	PathLogout        = "/logout"
	PathFirstTime     = "/first-time"
	PathForcePassword = "/force-password"
	PathRegister      = "/register"
	PathDashboard     = "/dashboard"
	PathCustomers     = "/customers"
	PathProducts      = "/products"
	PathBilling       = "/billing"
	PathCredits       = "/credits"
	PathBillHistory   = "/bill-history"
	PathAdminUsers    = "/admin/users"
	PathEvents        = "/events"
)

var RegexRoot = regexp.MustCompile("^/$")

var RegexLogin = regexp.MustCompile("^/login$")

func BuildLogin() string {
	return Url(PathLogin, nil)
}

var RegexLogout = regexp.MustCompile("^/logout$")

func BuildLogout() string {
	return Url(PathLogout, nil)
}

var RegexFirstTime = regexp.MustCompile("^/first-time$")

func BuildFirstTime() string {
	return Url(PathFirstTime, nil)
}

var RegexForcePassword = regexp.MustCompile("^/force-password$")

func BuildForcePassword() string {
	return Url(PathForcePassword, nil)
}

var RegexRegister = regexp.MustCompile("^/register$")

func BuildRegister() string {
	return Url(PathRegister, nil)
}

var RegexDashboard = regexp.MustCompile("^/dashboard$")

func BuildDashboard() string {
	return Url(PathDashboard, nil)
}

/*
* Paged listings
 */

func pageQuery(page int, query []Q) []Q {
	if page < 0 {
		panic(fmt.Errorf("page must be zero or greater, got %d", page))
	}
	if page > 0 {
		query = append(query, Q{"page", strconv.Itoa(page)})
	}
	return query
}

var RegexCustomers = regexp.MustCompile("^/customers$")

func BuildCustomers(search string, page int) string {
	return Url(PathCustomers, pageQuery(page, []Q{{"q", search}}))
}

var RegexProducts = regexp.MustCompile("^/products$")

func BuildProducts(search, category string, page int) string {
	return Url(PathProducts, pageQuery(page, []Q{{"q", search}, {"category", category}}))
}

var RegexBilling = regexp.MustCompile("^/billing$")

// BuildBilling links to the bill lookup page, optionally pre-filled with a
// bill number.
func BuildBilling(billNumber string) string {
	return Url(PathBilling, []Q{{"number", billNumber}})
}

var RegexCredits = regexp.MustCompile("^/credits$")

func BuildCredits(search string, page int) string {
	return Url(PathCredits, pageQuery(page, []Q{{"q", search}}))
}

var RegexBillHistory = regexp.MustCompile("^/bill-history$")

func BuildBillHistory(search, customerContact string, page int) string {
	return Url(PathBillHistory, pageQuery(page, []Q{{"q", search}, {"customer", customerContact}}))
}

var RegexAdminUsers = regexp.MustCompile("^/admin/users$")

func BuildAdminUsers() string {
	return Url(PathAdminUsers, nil)
}

var RegexEvents = regexp.MustCompile("^/events$")

// BuildEvents returns the websocket url for the live event stream.
func BuildEvents() string {
	u := Url(PathEvents, nil)
	if rest, ok := strings.CutPrefix(u, "https://"); ok {
		return "wss://" + rest
	}
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "ws://" + rest
	}
	return u
}

var RegexPublic = regexp.MustCompile("^/public/.+$")

func BuildPublic(filepath string) string {
	return Url("/public/"+trim(filepath), nil)
}
