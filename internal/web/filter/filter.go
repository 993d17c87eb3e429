// Package filter builds navigation links that change one query parameter of
// the current page while keeping the rest.
package filter

import (
	"net/url"

	"questrack/internal/question/model"
	"questrack/internal/web/style"
)

const (
	ParamStatus     = "status"
	ParamDifficulty = "difficulty"
	ParamTopic      = "topic"
	ParamPage       = "page"
)

// Link is one status filter option.
type Link struct {
	Value  string
	Label  string
	Href   string
	Active bool
	Style  style.Style
}

// WithParam returns "?" plus current with key set to value. current is not modified.
func WithParam(current url.Values, key, value string) string {
	next := clone(current)
	next.Set(key, value)
	return "?" + next.Encode()
}

// StatusLinks returns one link per status. Each link overwrites status and
// resets page to 1. Active is an exact match on the current status value.
func StatusLinks(current url.Values) []Link {
	active := current.Get(ParamStatus)
	links := make([]Link, 0, len(model.Statuses))
	for _, st := range model.Statuses {
		value := string(st)
		next := clone(current)
		next.Set(ParamStatus, value)
		next.Set(ParamPage, "1")
		links = append(links, Link{
			Value:  value,
			Label:  style.Label(value),
			Href:   "?" + next.Encode(),
			Active: value == active,
			Style:  style.StatusStyle(value),
		})
	}
	return links
}

// FilterApplied reports whether any narrowing parameter is present. The page
// number alone does not count.
func FilterApplied(current url.Values) bool {
	for _, key := range []string{ParamStatus, ParamDifficulty, ParamTopic} {
		if current.Get(key) != "" {
			return true
		}
	}
	return false
}

func clone(values url.Values) url.Values {
	out := make(url.Values, len(values)+2)
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
