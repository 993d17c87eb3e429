package filter

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query %q: %v", raw, err)
	}
	return values
}

func TestStatusLinksPreserveParamsAndResetPage(t *testing.T) {
	current := mustParse(t, "status=TODO&page=3&difficulty=HARD&topic=graph")

	links := StatusLinks(current)
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	wantOrder := []string{"TODO", "SOLVED", "ATTEMPTED"}
	for i, link := range links {
		if link.Value != wantOrder[i] {
			t.Fatalf("link %d: unexpected value %q", i, link.Value)
		}
		parsed := mustParse(t, link.Href[1:])
		if link.Href[0] != '?' {
			t.Fatalf("href must be a relative query: %q", link.Href)
		}
		if parsed.Get("status") != link.Value || parsed.Get("page") != "1" {
			t.Fatalf("unexpected href %q", link.Href)
		}
		if parsed.Get("difficulty") != "HARD" || parsed.Get("topic") != "graph" {
			t.Fatalf("other params not preserved: %q", link.Href)
		}
	}
	if current.Get("page") != "3" || current.Get("status") != "TODO" {
		t.Fatalf("current values were mutated: %v", current)
	}
}

func TestStatusLinksActive(t *testing.T) {
	cases := []struct {
		query      string
		wantActive string
	}{
		{query: "status=SOLVED", wantActive: "SOLVED"},
		{query: "status=solved", wantActive: ""},
		{query: "status=UNKNOWN", wantActive: ""},
		{query: "", wantActive: ""},
	}
	for _, tc := range cases {
		active := 0
		for _, link := range StatusLinks(mustParse(t, tc.query)) {
			if link.Active {
				active++
				if link.Value != tc.wantActive {
					t.Fatalf("query %q: unexpected active link %q", tc.query, link.Value)
				}
			}
		}
		want := 0
		if tc.wantActive != "" {
			want = 1
		}
		if active != want {
			t.Fatalf("query %q: %d active links, want %d", tc.query, active, want)
		}
	}
}

func TestStatusLinksKeepRepeatedParams(t *testing.T) {
	links := StatusLinks(mustParse(t, "tag=a&tag=b"))
	parsed := mustParse(t, links[0].Href[1:])
	if got := parsed["tag"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("repeated params not preserved: %v", got)
	}
}

func TestWithParam(t *testing.T) {
	current := mustParse(t, "status=TODO&page=1")
	href := WithParam(current, "page", "2")
	if href != "?page=2&status=TODO" {
		t.Fatalf("unexpected href %q", href)
	}
	if current.Get("page") != "1" {
		t.Fatalf("current values were mutated")
	}
}

func TestFilterApplied(t *testing.T) {
	cases := map[string]bool{
		"":                  false,
		"page=2":            false,
		"status=":           false,
		"status=TODO":       true,
		"difficulty=EASY":   true,
		"topic=arrays&page": true,
	}
	for query, want := range cases {
		if got := FilterApplied(mustParse(t, query)); got != want {
			t.Fatalf("FilterApplied(%q) = %v, want %v", query, got, want)
		}
	}
}
