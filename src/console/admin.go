package console

import (
	"net/http"
	"strings"

	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/templates"
)

type AdminUsersData struct {
	templates.BaseData
	Users []templates.AdminUser
}

func AdminUsers(c *RequestContext) ResponseData {
	users, err := c.API.Users.List(c)
	if err != nil {
		return backendFailure(c, err)
	}

	return renderPage(c, "admin_users.html", AdminUsersData{
		BaseData: getBaseData(c, "Users"),
		Users:    templates.UsersToTemplate(users),
	})
}

type RegisterForm struct {
	Username    string
	UserEmail   string
	UserContact string
	UserRole    string
}

type RegisterData struct {
	templates.BaseData
	SubmitUrl string
	Form      RegisterForm
	Roles     []string
}

var registerRoles = []string{string(models.RoleUser), string(models.RoleAdmin)}

func RegisterPage(c *RequestContext) ResponseData {
	return renderPage(c, "register.html", RegisterData{
		BaseData:  getBaseData(c, "Register user"),
		SubmitUrl: bizurl.BuildRegister(),
		Form:      RegisterForm{UserRole: string(models.RoleUser)},
		Roles:     registerRoles,
	})
}

func RegisterSubmit(c *RequestContext) ResponseData {
	form, err := c.GetFormValues()
	if err != nil {
		return c.ErrorResponse(http.StatusBadRequest, NewSafeError(err, "request must contain form data"))
	}

	reg := models.Registration{
		Username:     strings.TrimSpace(form.Get("username")),
		UserEmail:    strings.TrimSpace(form.Get("email")),
		UserPassword: form.Get("password"),
		UserRole:     models.ParseRole(form.Get("role")),
		UserContact:  strings.TrimSpace(form.Get("contact")),
	}

	user, err := c.Auth.Register(c, reg, form.Get("confirm"))
	if err != nil {
		if isSessionGone(err) || isPasswordChangeRequired(err) {
			return backendFailure(c, err)
		}
		data := RegisterData{
			BaseData:  getBaseData(c, "Register user"),
			SubmitUrl: bizurl.BuildRegister(),
			Form: RegisterForm{
				Username:    reg.Username,
				UserEmail:   reg.UserEmail,
				UserContact: reg.UserContact,
				UserRole:    string(reg.UserRole),
			},
			Roles: registerRoles,
		}
		failureNotice(&data.BaseData, err)
		return renderPage(c, "register.html", data)
	}

	username := reg.Username
	if user != nil && user.Username != "" {
		username = user.Username
	}
	c.Logger.Info().Str("username", username).Str("role", string(reg.UserRole)).Msg("registered user")

	res := c.RedirectRoute(bizurl.PathAdminUsers)
	res.AddFutureNotice("success", "Registered "+username+".")
	return res
}
