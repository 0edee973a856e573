package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/oops"
	"github.com/biznex/bizconsole/src/utils"
)

const (
	Dayish   = time.Hour * 24
	Weekish  = Dayish * 7
	Monthish = Dayish * 30
	Yearish  = Dayish * 365
)

//go:embed src
var embeddedTemplateFs embed.FS
var embeddedTemplates map[string]*template.Template

func getTemplatesFromFS(templateFS fs.ReadDirFS) (map[string]*template.Template, map[string]error) {
	templates := make(map[string]*template.Template)
	errs := make(map[string]error)

	files := utils.Must1(templateFS.ReadDir("src"))
	for _, f := range files {
		if hasSuffix(f.Name(), ".html") {
			t := template.New(f.Name())
			t = t.Funcs(sprig.FuncMap())
			t = t.Funcs(BizTemplateFuncs)
			t, err := t.ParseFS(templateFS,
				"src/layouts/*",
				"src/include/*",
				"src/"+f.Name(),
			)
			if err != nil {
				errs[f.Name()] = err
				continue
			}

			templates[f.Name()] = t
		} else if hasSuffix(f.Name(), ".css", ".js") {
			t := template.New(f.Name())
			t = t.Funcs(sprig.FuncMap())
			t = t.Funcs(BizTemplateFuncs)
			t, err := t.ParseFS(templateFS, "src/"+f.Name())
			if err != nil {
				errs[f.Name()] = err
				continue
			}

			templates[f.Name()] = t
		}
	}

	return templates, errs
}

// Init parses every embedded template. A broken template is a programming
// error, so this panics after logging every failure.
func Init() {
	var errs map[string]error
	type errEntry struct {
		name string
		err  error
	}

	embeddedTemplates, errs = getTemplatesFromFS(embeddedTemplateFs)
	if len(errs) > 0 {
		var errsList []errEntry
		for filename, err := range errs {
			errsList = append(errsList, errEntry{filename, err})
		}
		sort.Slice(errsList, func(i, j int) bool {
			return strings.Compare(errsList[i].name, errsList[j].name) < 0
		})
		for _, err := range errsList {
			logging.Error().Str("filename", err.name).Err(err.err).Msg("Failed to parse template")
		}
		panic("Failed to parse templates; see above")
	}
}

func GetTemplate(name string) *template.Template {
	if embeddedTemplates == nil {
		Init()
	}
	template, hasTemplate := embeddedTemplates[name]
	if !hasTemplate {
		panic(oops.New(nil, "Template not found: %s", name))
	}
	return template
}

func Render(w io.Writer, name string, data any) error {
	err := GetTemplate(name).Execute(w, data)
	if err != nil {
		return oops.New(err, "failed to render template %s", name)
	}
	return nil
}

func hasSuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

var BizTemplateFuncs = template.FuncMap{
	"add": func(a int, b ...int) int {
		for _, num := range b {
			a += num
		}
		return a
	},
	"money": FormatMoney,
	"absolutedate": func(t time.Time) string {
		return t.UTC().Format("January 2, 2006, 3:04pm")
	},
	"rfc3339": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"relativedate": func(t time.Time) string {
		return relativeDate(time.Now(), t)
	},
	"static": func(filepath string) string {
		return bizurl.BuildPublic(filepath)
	},
	"timehtml": func(formatted string, t time.Time) template.HTML {
		iso := t.UTC().Format(time.RFC3339)
		return template.HTML(fmt.Sprintf(`<time datetime="%s">%s</time>`, iso, template.HTMLEscapeString(formatted)))
	},
	"lastidx": func(idx int, l int) bool {
		return idx == l-1
	},
	"isodd": func(num int) bool {
		return num%2 == 1
	},
}

func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s₹%.2f", sign, amount)
}

// relativeDate describes t relative to now, in the past or the future.
func relativeDate(now, t time.Time) string {
	str := func(primary int, primaryName string, secondary int, secondaryName string) string {
		result := fmt.Sprintf("%d %s", primary, primaryName)
		if primary != 1 {
			result += "s"
		}
		if secondary > 0 {
			result += fmt.Sprintf(", %d %s", secondary, secondaryName)
			if secondary != 1 {
				result += "s"
			}
		}
		return result
	}

	delta := now.Sub(t)
	future := delta < 0
	if future {
		delta = -delta
	}

	// Months and years are approximate.
	var desc string
	if delta < time.Minute {
		desc = "less than a minute"
	} else if delta < time.Hour {
		desc = str(int(delta.Minutes()), "minute", 0, "")
	} else if delta < Dayish {
		desc = str(int(delta/time.Hour), "hour", int((delta%time.Hour)/time.Minute), "minute")
	} else if delta < Weekish {
		desc = str(int(delta/Dayish), "day", int((delta%Dayish)/time.Hour), "hour")
	} else if delta < Monthish {
		desc = str(int(delta/Weekish), "week", int((delta%Weekish)/Dayish), "day")
	} else if delta < Yearish {
		desc = str(int(delta/Monthish), "month", int((delta%Monthish)/Weekish), "week")
	} else {
		desc = str(int(delta/Yearish), "year", int((delta%Yearish)/Monthish), "month")
	}
	if future {
		return "in " + desc
	}
	return desc + " ago"
}
