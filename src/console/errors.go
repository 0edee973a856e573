package console

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/biznex/bizconsole/src/api"
	"github.com/biznex/bizconsole/src/auth"
	"github.com/biznex/bizconsole/src/templates"
)

func FourOhFour(c *RequestContext) ResponseData {
	var res ResponseData
	res.StatusCode = http.StatusNotFound

	if c.Req.Header["Accept"] != nil && strings.Contains(c.Req.Header["Accept"][0], "text/html") {
		templateData := struct {
			templates.BaseData
			Wanted string
		}{
			BaseData: getBaseData(c, "Page not found"),
			Wanted:   c.FullUrl(),
		}
		res.MustWriteTemplate("404.html", templateData)
	} else {
		res.Write([]byte("Not Found"))
	}
	return res
}

// A SafeError can be used to wrap another error and explicitly provide
// an error message that is safe to show to a user. This allows the original
// error to easily be logged without leaking internals onto the page.
type SafeError struct {
	Wrapped error
	Msg     string
}

func NewSafeError(err error, msg string, args ...interface{}) error {
	return &SafeError{
		Wrapped: err,
		Msg:     fmt.Sprintf(msg, args...),
	}
}

func (s *SafeError) Error() string {
	return s.Msg
}

func (s *SafeError) Unwrap() error {
	return s.Wrapped
}

// Validation failures from the session flows read fine as they are.
var userFacingAuthErrors = []error{
	auth.ErrMissingCredentials,
	auth.ErrNoAccessToken,
	auth.ErrPasswordTooShort,
	auth.ErrPasswordMismatch,
}

// userMessage picks what to tell the user about err.
func userMessage(err error) string {
	var safe *SafeError
	if errors.As(err, &safe) {
		return safe.Msg
	}
	for _, known := range userFacingAuthErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return api.Message(err)
}

func safeMessage(errs ...error) string {
	for _, err := range errs {
		if err != nil {
			return userMessage(err)
		}
	}
	return api.GenericFailureMessage
}

func isSessionGone(err error) bool {
	return api.IsKind(err, api.KindUnauthenticated)
}

func isForbidden(err error) bool {
	return api.IsKind(err, api.KindForbidden)
}

func isPasswordChangeRequired(err error) bool {
	return api.IsKind(err, api.KindPasswordChangeRequired)
}
