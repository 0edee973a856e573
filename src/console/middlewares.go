package console

import (
	"net/http"
	"time"

	"github.com/biznex/bizconsole/src/guard"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/oops"
	"github.com/biznex/bizconsole/src/templates"
	"github.com/google/uuid"
)

func panicCatcherMiddleware(h Handler) Handler {
	return func(c *RequestContext) (res ResponseData) {
		defer func() {
			if recovered := recover(); recovered != nil {
				maybeError, ok := recovered.(*error)
				var err error
				if ok {
					err = *maybeError
				} else {
					err = oops.New(nil, "Recovered from panic with value: %v", recovered)
				}
				res = c.ErrorResponse(http.StatusInternalServerError, err)
			}
		}()

		return h(c)
	}
}

// requestLogger gives every request its own sub-logger and logs the outcome.
func requestLogger(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		logger := logging.With().
			Str("requestId", uuid.NewString()).
			Str("method", c.Req.Method).
			Str("path", c.Req.URL.Path).
			Logger()
		c.Logger = &logger
		c.ctx = logging.AttachLoggerToContext(c.Logger, c.ctx)

		start := time.Now()
		res := h(c)
		c.Logger.Debug().
			Int("status", res.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("served request")
		return res
	}
}

// guarded runs guard.Check for target before the handler. Loading renders a
// page that refreshes itself, a redirect goes wherever the guard says, and a
// role mismatch is rendered in place with a 403.
func guarded(target guard.Target) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			decision := guard.Check(c.State, target)
			switch decision.Outcome {
			case guard.OutcomeLoading:
				var res ResponseData
				res.Header().Set("Cache-Control", "no-store")
				res.MustWriteTemplate("loading.html", getBaseData(c, "Loading"))
				return res
			case guard.OutcomeRedirect:
				return c.RedirectRoute(decision.Route)
			case guard.OutcomeNotAuthorized:
				c.Logger.Info().
					Str("target", target.Name).
					Str("required", string(target.Role)).
					Msg("blocked by role")
				return notAuthorized(c, target.Name, string(target.Role), "")
			}
			return h(c)
		}
	}
}

type notAuthorizedData struct {
	templates.BaseData
	TargetName   string
	RequiredRole string
	Message      string
}

// notAuthorized renders the denial view in place with a 403. message, when
// set, is the backend's reason and replaces the role explanation.
func notAuthorized(c *RequestContext, targetName, requiredRole, message string) ResponseData {
	res := ResponseData{StatusCode: http.StatusForbidden}
	res.MustWriteTemplate("not_authorized.html", notAuthorizedData{
		BaseData:     getBaseData(c, "Not authorized"),
		TargetName:   targetName,
		RequiredRole: requiredRole,
		Message:      message,
	})
	return res
}

func logContextErrors(c *RequestContext, errs ...error) {
	for _, err := range errs {
		c.Logger.Error().Timestamp().Stack().Str("Requested", c.FullUrl()).Err(err).Msg("error occurred during request")
	}
}

func logContextErrorsMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		res := h(c)
		logContextErrors(c, res.Errors...)
		return res
	}
}
