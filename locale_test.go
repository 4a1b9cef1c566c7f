package vette

import (
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
)

func TestNewLocale(t *testing.T) {
	var tests = []struct {
		lang    string
		expect  string
		charset string
	}{
		{"en", "en", "us-ascii"},
		{"ja", "ja", "utf-8"},
		{"xx", "en", "us-ascii"},
		{"", "en", "us-ascii"},
	}

	for _, v := range tests {
		loc := NewLocale(v.lang)
		if loc.Lang != v.expect {
			t.Errorf("lang %q: expected %s, got %s", v.lang, v.expect, loc.Lang)
		}
		if loc.Charset != v.charset {
			t.Errorf("lang %q: expected charset %s, got %s", v.lang, v.charset, loc.Charset)
		}
	}
}

func TestLocaleRender(t *testing.T) {
	loc := NewLocale("en")
	got, err := loc.Render("postheld-subject", pongo2.Context{"listname": "dev"})
	if err != nil {
		t.Fatalf("Render error: %s", err)
	}
	expect := "Your message to dev awaits moderator approval"
	if got != expect {
		t.Errorf("expected %q, got %q", expect, got)
	}
}

func TestLocaleFallback(t *testing.T) {
	ja := NewLocale("ja")

	// Key present in ja.
	if got := ja.Text("no-subject"); got != "(無題)" {
		t.Errorf("expected ja text, got %q", got)
	}

	// Key absent in ja falls back to en.
	if got := ja.Text("postauth-subject"); !strings.Contains(got, "requires approval") {
		t.Errorf("expected en fallback, got %q", got)
	}

	// Unknown key falls back to itself.
	if got := ja.Text("nope-missing"); got != "nope-missing" {
		t.Errorf("expected key fallback, got %q", got)
	}
}

func TestLocaleRenderNoEscape(t *testing.T) {
	// Mail text must come out raw, not HTML escaped.
	loc := NewLocale("en")
	got, err := loc.Render("postauth-subject", pongo2.Context{
		"listname": "dev",
		"sender":   `"Bob" <bob@example.test>`,
	})
	if err != nil {
		t.Fatalf("Render error: %s", err)
	}
	if !strings.Contains(got, `"Bob" <bob@example.test>`) {
		t.Errorf("expected raw sender in %q", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("aaa bbb ccc ddd", 7)
	expect := "aaa bbb\nccc ddd"
	if got != expect {
		t.Errorf("expected %q, got %q", expect, got)
	}

	got = wrapText("one para\n\ntwo para", 70)
	expect = "one para\n\ntwo para"
	if got != expect {
		t.Errorf("expected %q, got %q", expect, got)
	}
}
