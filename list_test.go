package vette

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListAddresses(t *testing.T) {
	l := testList()
	var tests = []struct {
		got    string
		expect string
	}{
		{l.PostingAddress(), "dev@example.test"},
		{l.OwnerAddress(), "dev-owner@example.test"},
		{l.BouncesAddress(), "dev-bounces@example.test"},
		{l.RequestAddress(), "dev-request@example.test"},
		{l.AdminAlias(), "dev-admin"},
	}

	for _, v := range tests {
		if v.got != v.expect {
			t.Errorf("expected %s, got %s", v.expect, v.got)
		}
	}
}

func TestScriptURL(t *testing.T) {
	l := testList()
	expect := "http://example.test/vette/admindb/dev"
	if got := l.ScriptURL("admindb"); got != expect {
		t.Errorf("expected %s, got %s", expect, got)
	}

	l.WebBaseURL = "https://lists.example.test/"
	expect = "https://lists.example.test/confirm/dev"
	if got := l.ScriptURL("confirm"); got != expect {
		t.Errorf("expected %s, got %s", expect, got)
	}
}

func TestMemberLookup(t *testing.T) {
	l := testList()
	l.Members = []*Member{{Address: "Alice@Example.test", PreferredLanguage: "ja"}}

	m := l.Member("alice@example.test")
	if m == nil {
		t.Fatal("expected member match to be case-insensitive")
	}
	if m.PreferredLanguage != "ja" {
		t.Errorf("expected ja, got %s", m.PreferredLanguage)
	}

	if l.Member("nobody@example.test") != nil {
		t.Error("expected nil for non-member")
	}
}

func TestBounceRules(t *testing.T) {
	l := testList()
	l.BounceMatchingHeaders = `
# comment line
X-Spam-Flag: yes
broken line without pattern
X-Mailer: [broken regexp
From: .*@spam\.example\.
`
	rules := l.bounceRules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 usable rules, got %d", len(rules))
	}
	if rules[0].header != "X-Spam-Flag" || rules[1].header != "From" {
		t.Errorf("unexpected rule headers: %s, %s", rules[0].header, rules[1].header)
	}
}

func TestSetLimitsSilentIgnore(t *testing.T) {
	l := testList()
	l.MaxMessageSize = 40
	l.MaxRecipients = 10

	l.SetMaxMessageSize("garbage")
	l.SetMaxRecipients("-3")
	if l.MaxMessageSize != 40 || l.MaxRecipients != 10 {
		t.Errorf("malformed input should keep prior values, got %d and %d",
			l.MaxMessageSize, l.MaxRecipients)
	}

	l.SetMaxMessageSize(" 80 ")
	if l.MaxMessageSize != 80 {
		t.Errorf("expected 80, got %d", l.MaxMessageSize)
	}
}

func TestLoadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	config := `{
		"name": "dev",
		"host": "example.test",
		"preferred_language": "en",
		"admin_immed_notify": true,
		"members": [{"address": "alice@example.test", "moderated": true}]
	}`
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatalf("WriteFile error: %s", err)
	}

	l, err := LoadList(path)
	if err != nil {
		t.Fatalf("LoadList error: %s", err)
	}
	if l.Name != "dev" || !l.AdminImmedNotify {
		t.Errorf("unexpected config: %+v", l)
	}
	if m := l.Member("alice@example.test"); m == nil || !m.Moderated {
		t.Error("expected moderated member alice")
	}

	if _, err := LoadList(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
