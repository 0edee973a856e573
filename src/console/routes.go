package console

import (
	"net/http"
	"regexp"

	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/config"
	"github.com/biznex/bizconsole/src/guard"
	"github.com/biznex/bizconsole/src/templates"
	"github.com/rs/cors"
)

var regexAnything = regexp.MustCompile("^")

// NewConsoleRoutes builds the console's handler. streams may be nil, in which
// case /events refuses upgrades.
func NewConsoleRoutes(app *App, streams *eventStreams) http.Handler {
	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			func(h Handler) Handler {
				return func(c *RequestContext) ResponseData {
					c.State = app.State
					c.Auth = app.Auth
					c.API = app.API
					c.Bus = app.Bus
					c.streams = streams
					return h(c)
				}
			},
			requestLogger,
			panicCatcherMiddleware,
			logContextErrorsMiddleware,
			storeNoticesInCookieMiddleware,
		},
	}

	routes.GET(bizurl.RegexPublic, ServePublic)
	routes.GET(bizurl.RegexEvents, EventStream)

	routes.GET(bizurl.RegexLogin, LoginPage)
	routes.POST(bizurl.RegexLogin, Login)
	routes.AnyMethod(bizurl.RegexLogout, Logout)
	routes.GET(bizurl.RegexFirstTime, FirstTimePage)
	routes.POST(bizurl.RegexFirstTime, FirstTimeSubmit)

	// Public in the sense that a pending password change doesn't bounce it,
	// but the change itself needs a signed-in session.
	forcePassword := routes.WithMiddleware(guarded(guard.ForcePassword))
	forcePassword.GET(bizurl.RegexForcePassword, ForcePasswordPage)
	forcePassword.POST(bizurl.RegexForcePassword, ForcePasswordSubmit)

	protected := func(target guard.Target) RouteBuilder {
		return routes.WithMiddleware(guarded(target))
	}

	dashboard := protected(guard.Dashboard)
	dashboard.GET(bizurl.RegexDashboard, Dashboard)

	customers := protected(guard.Customers)
	customers.GET(bizurl.RegexCustomers, Customers)

	products := protected(guard.Products)
	products.GET(bizurl.RegexProducts, Products)

	billing := protected(guard.Billing)
	billing.GET(bizurl.RegexBilling, Billing)

	credits := protected(guard.Credits)
	credits.GET(bizurl.RegexCredits, Credits)

	billHistory := protected(guard.BillHistory)
	billHistory.GET(bizurl.RegexBillHistory, BillHistory)

	register := protected(guard.Register)
	register.GET(bizurl.RegexRegister, RegisterPage)
	register.POST(bizurl.RegexRegister, RegisterSubmit)

	adminUsers := protected(guard.AdminUsers)
	adminUsers.GET(bizurl.RegexAdminUsers, AdminUsers)

	routes.AnyMethod(bizurl.RegexRoot, toDashboard)
	routes.AnyMethod(regexAnything, toDashboard)

	return cors.New(cors.Options{
		AllowedOrigins:   config.Config.Console.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodHead},
		AllowCredentials: true,
	}).Handler(router)
}

func toDashboard(c *RequestContext) ResponseData {
	return c.RedirectRoute(bizurl.PathDashboard)
}

func ServePublic(c *RequestContext) ResponseData {
	var res ResponseData
	switch c.Req.URL.Path {
	case "/public/style.css":
		res.Header().Set("Content-Type", "text/css; charset=utf-8")
		res.MustWriteTemplate("style.css", nil)
		return res
	default:
		return FourOhFour(c)
	}
}

func renderPage(c *RequestContext, name string, data any) ResponseData {
	var res ResponseData
	err := res.WriteTemplate(name, data)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	return res
}

// backendFailure turns a failed backend call into a response. A rejected
// token has already cleared the session, so the user goes back to login.
func backendFailure(c *RequestContext, err error) ResponseData {
	if isSessionGone(err) {
		res := c.RedirectRoute(bizurl.PathLogin)
		res.AddFutureNotice("failure", "Your session has ended. Please sign in again.")
		return res
	}
	if isPasswordChangeRequired(err) {
		return c.RedirectRoute(bizurl.PathForcePassword)
	}
	if isForbidden(err) {
		c.Logger.Info().Str("path", c.Req.URL.Path).Msg("backend denied access")
		return notAuthorized(c, "this page", "", userMessage(err))
	}
	return c.ErrorResponse(http.StatusBadGateway, err)
}

func failureNotice(bd *templates.BaseData, err error) {
	bd.AddImmediateNotice("failure", userMessage(err))
}
