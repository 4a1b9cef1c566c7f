package vette

import (
	"regexp"
	"strings"
)

// Rule examines one hold criterion. It returns the reason to hold the
// message under, or ok=false for no violation. Rules only classify;
// notification and persistence happen downstream.
type Rule interface {
	Name() string
	Check(l *List, m *Message, meta *Metadata) (Reason, bool)
}

// Ruleset runs rules in order; the first match wins and later rules
// never run.
type Ruleset []Rule

func (rs Ruleset) Match(l *List, m *Message, meta *Metadata) (Reason, bool) {
	for _, r := range rs {
		if reason, ok := r.Check(l, m, meta); ok {
			return reason, true
		}
	}
	return Reason{}, false
}

func DefaultRuleset() Ruleset {
	return Ruleset{
		&ForbiddenRule{},
		&ModeratedMemberRule{},
		&RestrictedRule{},
		&NonMemberRule{},
		&NewsModeratedRule{},
		&MaxRecipientsRule{},
		&ImplicitDestinationRule{},
		&AdministriviaRule{},
		&SizeRule{},
		&SuspiciousHeadersRule{},
	}
}

// effectiveSender is the sender a rule should judge: the metadata
// override when set, else the message header sender.
func effectiveSender(m *Message, meta *Metadata) string {
	if meta.Sender != "" {
		return meta.Sender
	}
	return m.HeaderSender()
}

func containsAddress(addrs []string, addr string) bool {
	addr = strings.ToLower(addr)
	for _, a := range addrs {
		if strings.ToLower(a) == addr {
			return true
		}
	}
	return false
}

// ForbiddenRule holds posts from explicitly forbidden senders.
type ForbiddenRule struct{}

func (r *ForbiddenRule) Name() string { return "forbidden" }

func (r *ForbiddenRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if containsAddress(l.ForbiddenPosters, effectiveSender(m, meta)) {
		return Reason{Code: ForbiddenPoster}, true
	}
	return Reason{}, false
}

// ModeratedMemberRule holds posts from members whose moderation bit is
// set.
type ModeratedMemberRule struct{}

func (r *ModeratedMemberRule) Name() string { return "moderated-member" }

func (r *ModeratedMemberRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	member := l.Member(effectiveSender(m, meta))
	if member != nil && member.Moderated {
		return Reason{Code: ModeratedPost}, true
	}
	return Reason{}, false
}

// RestrictedRule holds posts to a restricted list unless the sender is
// explicitly allowed.
type RestrictedRule struct{}

func (r *RestrictedRule) Name() string { return "restricted" }

func (r *RestrictedRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if !l.RestrictedPosting {
		return Reason{}, false
	}
	if containsAddress(l.AllowedPosters, effectiveSender(m, meta)) {
		return Reason{}, false
	}
	return Reason{Code: NotExplicitlyAllowed}, true
}

// NonMemberRule holds posts from non-members on members-only lists.
type NonMemberRule struct{}

func (r *NonMemberRule) Name() string { return "non-member" }

func (r *NonMemberRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if l.MemberPostingOnly && l.Member(effectiveSender(m, meta)) == nil {
		return Reason{Code: NonMemberPost}, true
	}
	return Reason{}, false
}

// NewsModeratedRule holds posts gatewayed from a moderated newsgroup.
type NewsModeratedRule struct{}

func (r *NewsModeratedRule) Name() string { return "news-moderated" }

func (r *NewsModeratedRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if meta.FromUsenet && l.NewsModerated {
		return Reason{Code: ModeratedNewsgroup}, true
	}
	return Reason{}, false
}

// MaxRecipientsRule holds posts with too many explicit recipients.
type MaxRecipientsRule struct{}

func (r *MaxRecipientsRule) Name() string { return "max-recipients" }

func (r *MaxRecipientsRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if l.MaxRecipients > 0 && len(m.Recipients()) > l.MaxRecipients {
		return Reason{Code: TooManyRecipients}, true
	}
	return Reason{}, false
}

// ImplicitDestinationRule holds posts that do not name the list in To:
// or Cc:.
type ImplicitDestinationRule struct{}

func (r *ImplicitDestinationRule) Name() string { return "implicit-destination" }

func (r *ImplicitDestinationRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if !l.RequireExplicitDst {
		return Reason{}, false
	}
	if containsAddress(m.Recipients(), l.PostingAddress()) {
		return Reason{}, false
	}
	return Reason{Code: ImplicitDestination}, true
}

// administriviaRegexp matches subscribe/unsubscribe/help style command
// words at the start of a line.
var administriviaRegexp = regexp.MustCompile(`(?i)^\s*(subscribe|unsubscribe|help|info|lists|options|password|confirm|who|remove)\b`)

const administriviaBodyLines = 5

// AdministriviaRule holds short posts that look like mis-addressed
// list-management commands.
type AdministriviaRule struct{}

func (r *AdministriviaRule) Name() string { return "administrivia" }

func (r *AdministriviaRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if !l.AdministriviaCheck {
		return Reason{}, false
	}
	if administriviaRegexp.MatchString(m.Get("Subject")) {
		return Reason{Code: Administrivia}, true
	}
	lines := strings.Split(strings.TrimSpace(string(m.Body)), "\n")
	if len(lines) > administriviaBodyLines {
		return Reason{}, false
	}
	for _, line := range lines {
		if administriviaRegexp.MatchString(line) {
			return Reason{Code: Administrivia}, true
		}
	}
	return Reason{}, false
}

// SizeRule holds posts whose body exceeds the configured KB limit.
type SizeRule struct{}

func (r *SizeRule) Name() string { return "size" }

func (r *SizeRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if l.MaxMessageSize > 0 && len(m.Body) > l.MaxMessageSize*1024 {
		return Reason{Code: MessageTooBig, Size: len(m.Body), Limit: l.MaxMessageSize}, true
	}
	return Reason{}, false
}

// SuspiciousHeadersRule holds posts matching the list's bounce header
// rules, when header matching is enabled.
type SuspiciousHeadersRule struct{}

func (r *SuspiciousHeadersRule) Name() string { return "suspicious-headers" }

func (r *SuspiciousHeadersRule) Check(l *List, m *Message, meta *Metadata) (Reason, bool) {
	if l.BounceMatchingHeaders == "" {
		return Reason{}, false
	}
	if l.HasMatchingBounceHeader(m) {
		return Reason{Code: SuspiciousHeaders}, true
	}
	return Reason{}, false
}
