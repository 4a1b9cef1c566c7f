package vette

import (
	"encoding/json"
	"fmt"
	"net/textproto"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Member is a list subscriber as far as the hold flow cares: the
// notification language and the per-member moderation bit.
type Member struct {
	Address           string `json:"address"`
	PreferredLanguage string `json:"preferred_language"`
	Moderated         bool   `json:"moderated"`
}

// List is the read-only slice of mailing-list configuration consumed by
// the hold flow. The list itself is owned elsewhere; nothing here is
// written back.
type List struct {
	Name              string `json:"name"`
	Host              string `json:"host"`
	WebBaseURL        string `json:"web_base_url"`
	PreferredLanguage string `json:"preferred_language"`

	AdminImmedNotify      bool `json:"admin_immed_notify"`
	RespondToPostRequests bool `json:"respond_to_post_requests"`

	// BounceMatchingHeaders uses one "Header: regexp" rule per line,
	// "#" starts a comment. Matching is case-insensitive.
	BounceMatchingHeaders string `json:"bounce_matching_headers"`

	MemberPostingOnly  bool     `json:"member_posting_only"`
	RestrictedPosting  bool     `json:"restricted_posting"`
	AllowedPosters     []string `json:"allowed_posters"`
	ForbiddenPosters   []string `json:"forbidden_posters"`
	NewsModerated      bool     `json:"news_moderated"`
	RequireExplicitDst bool     `json:"require_explicit_destination"`
	AdministriviaCheck bool     `json:"administrivia_check"`
	MaxRecipients      int      `json:"max_recipients"`
	MaxMessageSize     int      `json:"max_message_size"` // KB, 0 means no limit

	Moderators []string  `json:"moderators"`
	Members    []*Member `json:"members"`
}

func LoadList(path string) (*List, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("list config read error: %w", err)
	}
	var l List
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("list config parse error: %w", err)
	}
	if l.Name == "" || l.Host == "" {
		return nil, fmt.Errorf("list config requires name and host")
	}
	return &l, nil
}

func (l *List) PostingAddress() string { return l.Name + "@" + l.Host }
func (l *List) OwnerAddress() string   { return l.Name + "-owner@" + l.Host }
func (l *List) BouncesAddress() string { return l.Name + "-bounces@" + l.Host }
func (l *List) RequestAddress() string { return l.Name + "-request@" + l.Host }

// AdminAlias is the legacy <listname>-admin local part. Some MTA alias
// setups rewrite the envelope sender to it before delivery, so a header
// sender equal to this alias cannot be trusted.
func (l *List) AdminAlias() string { return l.Name + "-admin" }

// ScriptURL builds the web URL for a named script (listinfo, admindb,
// confirm) on this list.
func (l *List) ScriptURL(name string) string {
	base := strings.TrimRight(l.WebBaseURL, "/")
	if base == "" {
		base = "http://" + l.Host + "/vette"
	}
	return base + "/" + name + "/" + l.Name
}

// Member looks a subscriber up by address, case-insensitively. Returns
// nil for non-members.
func (l *List) Member(addr string) *Member {
	addr = strings.ToLower(addr)
	for _, m := range l.Members {
		if strings.ToLower(m.Address) == addr {
			return m
		}
	}
	return nil
}

// SetMaxMessageSize updates the size limit from form-style text input.
// Malformed values keep the prior limit.
func (l *List) SetMaxMessageSize(v string) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return
	}
	l.MaxMessageSize = n
}

// SetMaxRecipients updates the recipient ceiling from form-style text
// input. Malformed values keep the prior ceiling.
func (l *List) SetMaxRecipients(v string) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return
	}
	l.MaxRecipients = n
}

type bounceRule struct {
	header  string
	pattern *regexp.Regexp
}

// bounceRules parses BounceMatchingHeaders. Unparsable lines and bad
// regexps are skipped.
func (l *List) bounceRules() []bounceRule {
	var rules []bounceRule
	for _, line := range strings.Split(l.BounceMatchingHeaders, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, ":")
		if i < 1 {
			continue
		}
		pat, err := regexp.Compile("(?i)" + strings.TrimSpace(line[i+1:]))
		if err != nil {
			continue
		}
		rules = append(rules, bounceRule{
			header:  strings.TrimSpace(line[:i]),
			pattern: pat,
		})
	}
	return rules
}

// HasMatchingBounceHeader reports whether any configured header rule
// matches the message.
func (l *List) HasMatchingBounceHeader(m *Message) bool {
	for _, rule := range l.bounceRules() {
		for _, v := range m.Header[textproto.CanonicalMIMEHeaderKey(rule.header)] {
			if rule.pattern.MatchString(v) {
				return true
			}
		}
	}
	return false
}
