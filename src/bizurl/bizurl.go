package bizurl

import (
	"net/url"
	"strings"

	"github.com/biznex/bizconsole/src/config"
)

type Q struct {
	Name  string
	Value string
}

var baseUrl string

func init() {
	SetGlobalBaseUrl(config.Config.Console.BaseUrl)
}

func SetGlobalBaseUrl(fullBaseUrl string) {
	baseUrl = strings.TrimRight(fullBaseUrl, "/")
}

func Url(path string, query []Q) string {
	result := baseUrl + "/" + trim(path)
	if q := encodeQuery(query); q != "" {
		result += "?" + q
	}
	return result
}

// Path builds a site-relative url, for redirects that must stay on whatever
// host the browser used.
func Path(path string, query []Q) string {
	result := "/" + trim(path)
	if q := encodeQuery(query); q != "" {
		result += "?" + q
	}
	return result
}

func trim(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path[1:]
	}
	return path
}

func encodeQuery(query []Q) string {
	result := url.Values{}
	for _, q := range query {
		if q.Value == "" {
			continue
		}
		result.Set(q.Name, q.Value)
	}
	return result.Encode()
}
