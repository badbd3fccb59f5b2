package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims what can be trimmed and reports everything a
// user could get wrong before it bites at 3am on the Nth scrape cycle.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Scrape.URL = strings.TrimSpace(out.Scrape.URL)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Scrape.URL == "" {
		res.addErr("scrape.url is required")
	} else {
		u, err := url.Parse(out.Scrape.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("scrape.url must be an absolute http(s) URL")
		} else if u.Scheme != "http" && u.Scheme != "https" {
			res.addErr("scrape.url must use http or https, got %q", u.Scheme)
		}
	}

	if out.Scrape.IntervalMinutes <= 0 {
		res.addErr("scrape.interval_minutes must be > 0")
	} else if out.Scrape.IntervalMinutes < 5 {
		res.addWarn("scrape.interval_minutes is very low (%d); the source site may not appreciate it.", out.Scrape.IntervalMinutes)
	}

	if out.Scrape.RenderTimeoutSeconds <= 0 {
		res.addErr("scrape.render_timeout_seconds must be > 0")
	} else if out.Scrape.RenderTimeoutSeconds > 300 {
		res.addWarn("scrape.render_timeout_seconds is very high (%d); a stuck render blocks the whole cycle.", out.Scrape.RenderTimeoutSeconds)
	}

	return out, res
}
