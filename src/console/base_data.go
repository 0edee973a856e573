package console

import (
	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/templates"
)

func getBaseData(c *RequestContext, title string) templates.BaseData {
	baseData := templates.BaseData{
		Title:       title,
		Notices:     getNoticesFromCookie(c),
		CurrentUrl:  c.FullUrl(),
		LoginUrl:    bizurl.BuildLogin(),
		LogoutUrl:   bizurl.BuildLogout(),
		EventsWsUrl: bizurl.BuildEvents(),
	}

	if c.State != nil {
		snap := c.State.Snapshot()
		if snap.IsAuthenticated() && !snap.IsExpired() {
			baseData.User = templates.SessionToTemplate(snap.User)
		}
	}

	baseData.Header = templates.Header{
		DashboardUrl:   bizurl.BuildDashboard(),
		CustomersUrl:   bizurl.BuildCustomers("", 0),
		ProductsUrl:    bizurl.BuildProducts("", "", 0),
		BillingUrl:     bizurl.BuildBilling(""),
		CreditsUrl:     bizurl.BuildCredits("", 0),
		BillHistoryUrl: bizurl.BuildBillHistory("", "", 0),
	}
	if baseData.User != nil && baseData.User.IsAdmin {
		baseData.Header.RegisterUrl = bizurl.BuildRegister()
		baseData.Header.AdminUsersUrl = bizurl.BuildAdminUsers()
	}

	return baseData
}
