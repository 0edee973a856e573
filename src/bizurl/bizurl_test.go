package bizurl

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/biznex/bizconsole/src/config"
	"github.com/stretchr/testify/assert"
)

func TestUrl(t *testing.T) {
	defer SetGlobalBaseUrl(config.Config.Console.BaseUrl)
	SetGlobalBaseUrl("http://biz.test/")

	t.Run("no query", func(t *testing.T) {
		assert.Equal(t, "http://biz.test/test/foo", Url("/test/foo", nil))
	})
	t.Run("yes query", func(t *testing.T) {
		result := Url("/test/foo", []Q{{"bar", "baz"}, {"zig??", "zig & zag!!"}})
		assert.Equal(t, "http://biz.test/test/foo?bar=baz&zig%3F%3F=zig+%26+zag%21%21", result)
	})
	t.Run("empty query values are dropped", func(t *testing.T) {
		assert.Equal(t, "http://biz.test/customers", BuildCustomers("", 0))
	})
	t.Run("relative path", func(t *testing.T) {
		assert.Equal(t, "/login", Path(PathLogin, nil))
		assert.Equal(t, "/customers?q=ann", Path(PathCustomers, []Q{{"q", "ann"}}))
	})
}

func TestSessionRoutes(t *testing.T) {
	AssertRegexMatch(t, BuildLogin(), RegexLogin, nil)
	AssertRegexMatch(t, BuildLogout(), RegexLogout, nil)
	AssertRegexMatch(t, BuildFirstTime(), RegexFirstTime, nil)
	AssertRegexMatch(t, BuildForcePassword(), RegexForcePassword, nil)
	AssertRegexMatch(t, BuildRegister(), RegexRegister, nil)
	AssertRegexMatch(t, BuildDashboard(), RegexDashboard, nil)
	AssertRegexMatch(t, BuildAdminUsers(), RegexAdminUsers, nil)
}

func TestListings(t *testing.T) {
	AssertRegexMatch(t, BuildCustomers("ann", 2), RegexCustomers, nil)
	AssertQuery(t, BuildCustomers("ann", 2), map[string]string{"q": "ann", "page": "2"})

	AssertRegexMatch(t, BuildProducts("", "tools", 0), RegexProducts, nil)
	AssertQuery(t, BuildProducts("", "tools", 0), map[string]string{"category": "tools"})

	AssertRegexMatch(t, BuildCredits("", 1), RegexCredits, nil)
	AssertRegexMatch(t, BuildBillHistory("INV", "555", 3), RegexBillHistory, nil)
	AssertQuery(t, BuildBillHistory("INV", "555", 3), map[string]string{"q": "INV", "customer": "555", "page": "3"})

	AssertRegexMatch(t, BuildBilling("INV-0001"), RegexBilling, nil)
	AssertQuery(t, BuildBilling("INV-0001"), map[string]string{"number": "INV-0001"})

	assert.Panics(t, func() { BuildCustomers("", -1) })
}

func TestEvents(t *testing.T) {
	defer SetGlobalBaseUrl(config.Config.Console.BaseUrl)

	SetGlobalBaseUrl("http://localhost:3000")
	assert.Equal(t, "ws://localhost:3000/events", BuildEvents())
	SetGlobalBaseUrl("https://biz.example")
	assert.Equal(t, "wss://biz.example/events", BuildEvents())
	AssertRegexMatch(t, BuildEvents(), RegexEvents, nil)
}

func TestPublic(t *testing.T) {
	AssertRegexMatch(t, BuildPublic("/style.css"), RegexPublic, nil)
}

func AssertQuery(t *testing.T, fullUrl string, expected map[string]string) {
	parsed, err := url.Parse(fullUrl)
	if !assert.Nilf(t, err, "Full url could not be parsed: %s", fullUrl) {
		return
	}
	q := parsed.Query()
	assert.Len(t, q, len(expected))
	for name, value := range expected {
		assert.Equalf(t, value, q.Get(name), "Query mismatch for [%s]", name)
	}
}

func AssertRegexMatch(t *testing.T, fullUrl string, regex *regexp.Regexp, paramsToVerify map[string]string) {
	parsed, err := url.Parse(fullUrl)
	ok := assert.Nilf(t, err, "Full url could not be parsed: %s", fullUrl)
	if !ok {
		return
	}

	requestPath := parsed.Path
	if len(requestPath) == 0 {
		requestPath = "/"
	}
	match := regex.FindStringSubmatch(requestPath)
	assert.NotNilf(t, match, "Url did not match regex: [%s] vs [%s]", requestPath, regex.String())

	if paramsToVerify != nil {
		subexpNames := regex.SubexpNames()
		for i, matchedValue := range match {
			paramName := subexpNames[i]
			expectedValue, ok := paramsToVerify[paramName]
			if ok {
				assert.Equalf(t, expectedValue, matchedValue, "Param mismatch for [%s]", paramName)
				delete(paramsToVerify, paramName)
			}
		}
		if len(paramsToVerify) > 0 {
			unmatchedParams := make([]string, 0, len(paramsToVerify))
			for paramName := range paramsToVerify {
				unmatchedParams = append(unmatchedParams, paramName)
			}
			assert.Fail(t, "Expected match groups not found", unmatchedParams)
		}
	}
}
