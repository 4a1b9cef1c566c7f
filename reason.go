package vette

import (
	"github.com/flosch/pongo2/v6"
)

// ReasonCode identifies why a post was held.
type ReasonCode int

const (
	ForbiddenPoster ReasonCode = iota
	ModeratedPost
	NonMemberPost
	NotExplicitlyAllowed
	TooManyRecipients
	ImplicitDestination
	Administrivia
	SuspiciousHeaders
	MessageTooBig
	ModeratedNewsgroup
)

var reasonKeys = map[ReasonCode]string{
	ForbiddenPoster:      "forbidden",
	ModeratedPost:        "moderated",
	NonMemberPost:        "nonmember",
	NotExplicitlyAllowed: "notallowed",
	TooManyRecipients:    "toomanyrcpts",
	ImplicitDestination:  "implicitdest",
	Administrivia:        "administrivia",
	SuspiciousHeaders:    "suspicious",
	MessageTooBig:        "toobig",
	ModeratedNewsgroup:   "modnewsgroup",
}

// Reason is one selected hold reason. Size and Limit carry the
// parameters of MessageTooBig; they are zero otherwise. Text and
// rejection notices are rendered from the reason at notification time,
// never cached, so each rendering happens in the right language.
type Reason struct {
	Code  ReasonCode
	Size  int // body size in bytes, MessageTooBig only
	Limit int // configured limit in KB, MessageTooBig only
}

func (r Reason) String() string {
	return reasonKeys[r.Code]
}

// Text renders the short hold reason in the given locale.
func (r Reason) Text(loc *Locale) (string, error) {
	return loc.Render("reason-"+reasonKeys[r.Code], pongo2.Context{
		"size":  r.Size,
		"limit": r.Limit,
	})
}

// RejectionNotice renders the notice sent back on a moderator reject,
// with list-specific substitutions.
func (r Reason) RejectionNotice(l *List, loc *Locale) (string, error) {
	return loc.Render("rejection-"+reasonKeys[r.Code], pongo2.Context{
		"size":         r.Size,
		"limit":        r.Limit,
		"listinfo_url": l.ScriptURL("listinfo"),
		"request":      l.RequestAddress(),
	})
}
