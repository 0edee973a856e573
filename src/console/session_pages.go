package console

import (
	"net/http"
	"strings"

	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/templates"
)

type LoginPageData struct {
	templates.BaseData
	SubmitUrl    string
	FirstTimeUrl string
	Username     string
}

func loginPageData(c *RequestContext, username string) LoginPageData {
	return LoginPageData{
		BaseData:     getBaseData(c, "Sign in"),
		SubmitUrl:    bizurl.BuildLogin(),
		FirstTimeUrl: bizurl.BuildFirstTime(),
		Username:     username,
	}
}

func LoginPage(c *RequestContext) ResponseData {
	snap := c.State.Snapshot()
	if !snap.Loading && snap.IsAuthenticated() && !snap.IsExpired() {
		return toDashboard(c)
	}

	firstTime, err := c.Auth.CheckFirstTime(c)
	if err != nil {
		c.Logger.Warn().Err(err).Msg("first-time check failed")
	} else if firstTime {
		return c.RedirectRoute(bizurl.PathFirstTime)
	}

	return renderPage(c, "login.html", loginPageData(c, ""))
}

func Login(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.ErrorResponse(http.StatusBadRequest, NewSafeError(err, "request must contain form data"))
	}

	username := strings.TrimSpace(form.Get("username"))
	password := form.Get("password")

	next, err := c.Auth.Login(c, username, password)
	if err != nil {
		c.Logger.Info().Err(err).Str("username", username).Msg("login failed")
		data := loginPageData(c, username)
		failureNotice(&data.BaseData, err)
		return renderPage(c, "login.html", data)
	}

	return c.RedirectRoute(next)
}

func Logout(c *RequestContext) ResponseData {
	if err := c.Auth.Logout(c); err != nil {
		c.Logger.Error().Err(err).Msg("failed to clear session on logout")
	}

	res := c.RedirectRoute(bizurl.PathLogin)
	res.AddFutureNotice("success", "You have been signed out.")
	return res
}

type FirstTimePageData struct {
	templates.BaseData
	SubmitUrl string
	Username  string
	Email     string
}

func FirstTimePage(c *RequestContext) ResponseData {
	firstTime, err := c.Auth.CheckFirstTime(c)
	if err != nil {
		return c.ErrorResponse(http.StatusBadGateway, err)
	}
	if !firstTime {
		return c.RedirectRoute(bizurl.PathLogin)
	}

	return renderPage(c, "first_time.html", FirstTimePageData{
		BaseData:  getBaseData(c, "First-time setup"),
		SubmitUrl: bizurl.BuildFirstTime(),
	})
}

func FirstTimeSubmit(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.ErrorResponse(http.StatusBadRequest, NewSafeError(err, "request must contain form data"))
	}

	reg := models.Registration{
		Username:     strings.TrimSpace(form.Get("username")),
		UserEmail:    strings.TrimSpace(form.Get("email")),
		UserPassword: form.Get("password"),
	}

	err = c.Auth.BootstrapAdmin(c, reg, form.Get("confirm"))
	if err != nil {
		c.Logger.Info().Err(err).Str("username", reg.Username).Msg("admin setup failed")
		data := FirstTimePageData{
			BaseData:  getBaseData(c, "First-time setup"),
			SubmitUrl: bizurl.BuildFirstTime(),
			Username:  reg.Username,
			Email:     reg.UserEmail,
		}
		failureNotice(&data.BaseData, err)
		return renderPage(c, "first_time.html", data)
	}

	c.Logger.Info().Str("username", reg.Username).Msg("created first admin account")
	res := c.RedirectRoute(bizurl.PathLogin)
	res.AddFutureNotice("success", "Admin account created. Sign in to continue.")
	return res
}

type ForcePasswordPageData struct {
	templates.BaseData
	SubmitUrl string
}

func ForcePasswordPage(c *RequestContext) ResponseData {
	return renderPage(c, "force_password.html", ForcePasswordPageData{
		BaseData:  getBaseData(c, "Change password"),
		SubmitUrl: bizurl.BuildForcePassword(),
	})
}

func ForcePasswordSubmit(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.ErrorResponse(http.StatusBadRequest, NewSafeError(err, "request must contain form data"))
	}

	username := ""
	if user := c.State.User(); user != nil {
		username = user.Username
	}

	err = c.Auth.ChangePasswordFirstLogin(c, form.Get("password"), form.Get("confirm"))
	if err != nil {
		if isSessionGone(err) {
			return backendFailure(c, err)
		}
		data := ForcePasswordPageData{
			BaseData:  getBaseData(c, "Change password"),
			SubmitUrl: bizurl.BuildForcePassword(),
		}
		failureNotice(&data.BaseData, err)
		return renderPage(c, "force_password.html", data)
	}

	c.Logger.Info().Str("username", username).Msg("changed password after forced reset")
	res := c.RedirectRoute(bizurl.PathLogin)
	res.AddFutureNotice("success", "Password changed. Sign in with your new password.")
	return res
}
