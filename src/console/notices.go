package console

import (
	"errors"
	"html"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/biznex/bizconsole/src/config"
	"github.com/biznex/bizconsole/src/templates"
)

const NoticesCookieName = "biz_notices"

func templateText(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

func getNoticesFromCookie(c *RequestContext) []templates.Notice {
	cookie, err := c.Req.Cookie(NoticesCookieName)
	if err != nil {
		if !errors.Is(err, http.ErrNoCookie) {
			c.Logger.Warn().Err(err).Msg("failed to get notices cookie")
		}
		return nil
	}
	return deserializeNoticesFromCookie(cookie.Value)
}

func storeNoticesInCookie(c *RequestContext, res *ResponseData) {
	serialized := serializeNoticesForCookie(c, res.FutureNotices)
	if serialized != "" {
		noticesCookie := http.Cookie{
			Name:     NoticesCookieName,
			Value:    serialized,
			Path:     "/",
			Expires:  time.Now().Add(time.Minute * 5),
			Secure:   config.Config.Env == config.Live,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		res.SetCookie(&noticesCookie)
	} else if !(res.StatusCode >= 300 && res.StatusCode < 400) {
		// Don't clear on redirect; the next page shows them.
		noticesCookie := http.Cookie{
			Name:   NoticesCookieName,
			Path:   "/",
			MaxAge: -1,
		}
		res.SetCookie(&noticesCookie)
	}
}

// Cookie values can't hold arbitrary bytes, so notices are stored as
// class|content pairs separated by "!", with the content query-escaped.
// Only plain text goes in; it is escaped again when read back.
func serializeNoticesForCookie(c *RequestContext, notices []templates.Notice) string {
	var builder strings.Builder
	maxSize := 1024
	size := 0
	for i, notice := range notices {
		encoded := cookieEscape(html.UnescapeString(string(notice.Content)))
		sizeIncrease := len(notice.Class) + len(encoded) + 1
		if i != 0 {
			sizeIncrease += 1
		}
		if size+sizeIncrease > maxSize {
			c.Logger.Warn().Interface("Notices", notices).Msg("Notices too big for cookie")
			break
		}

		if i != 0 {
			builder.WriteString("!")
		}
		builder.WriteString(notice.Class)
		builder.WriteString("|")
		builder.WriteString(encoded)

		size += sizeIncrease
	}
	return builder.String()
}

func deserializeNoticesFromCookie(cookieVal string) []templates.Notice {
	var result []templates.Notice
	notices := strings.Split(cookieVal, "!")
	for _, notice := range notices {
		class, content, ok := strings.Cut(notice, "|")
		if !ok {
			continue
		}
		result = append(result, templates.Notice{
			Class:   class,
			Content: templateText(cookieUnescape(content)),
		})
	}
	return result
}

func cookieEscape(s string) string {
	return url.QueryEscape(s)
}

func cookieUnescape(s string) string {
	unescaped, err := url.QueryUnescape(s)
	if err != nil {
		return ""
	}
	return unescaped
}

func storeNoticesInCookieMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		res := h(c)
		storeNoticesInCookie(c, &res)
		return res
	}
}
