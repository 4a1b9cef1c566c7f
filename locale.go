package vette

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
)

func init() {
	// Every template here renders plain mail text, never HTML.
	pongo2.SetAutoescape(false)
}

// Locale is an explicit localization context. Text rendering always
// receives one; there is no ambient active-language state to switch
// and restore.
type Locale struct {
	Lang    string
	Charset string
	catalog map[string]string
}

// NewLocale returns the locale for a language tag, falling back to
// English for unknown tags.
func NewLocale(lang string) *Locale {
	c, ok := catalogs[lang]
	if !ok {
		lang = "en"
		c = catalogs["en"]
	}
	return &Locale{Lang: lang, Charset: charsets[lang], catalog: c}
}

// Text returns the catalog entry for key, falling back to the English
// catalog, then to the key itself.
func (l *Locale) Text(key string) string {
	if s, ok := l.catalog[key]; ok {
		return s
	}
	if s, ok := catalogs["en"][key]; ok {
		return s
	}
	return key
}

// Render renders the catalog template for key with the given context.
func (l *Locale) Render(key string, ctx pongo2.Context) (string, error) {
	tpl, err := pongo2.FromString(l.Text(key))
	if err != nil {
		return "", fmt.Errorf("template parse error (%s): %w", key, err)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("template render error (%s): %w", key, err)
	}
	return out, nil
}

var charsets = map[string]string{
	"en": "us-ascii",
	"ja": "utf-8",
}

// wrapText re-folds text to at most width columns, preserving blank
// lines between paragraphs.
func wrapText(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		var lines []string
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
		out = append(out, strings.Join(lines, "\n"))
	}
	return strings.Join(out, "\n\n")
}

var catalogs = map[string]map[string]string{
	"en": {
		"no-subject": "(no subject)",

		"reason-forbidden":     "Sender is explicitly forbidden",
		"reason-moderated":     "Post to moderated list",
		"reason-nonmember":     "Post by non-member to a members-only list",
		"reason-notallowed":    "Posting to a restricted list by sender requires approval",
		"reason-toomanyrcpts":  "Too many recipients to the message",
		"reason-implicitdest":  "Message has implicit destination",
		"reason-administrivia": "Message may contain administrivia",
		"reason-suspicious":    "Message has a suspicious header",
		"reason-toobig":        "Message body is too big: {{ size }} bytes with a limit of {{ limit }} KB",
		"reason-modnewsgroup":  "Posting to a moderated newsgroup",

		"rejection-forbidden":     "You are forbidden from posting messages to this list.",
		"rejection-moderated":     "Your message was deemed inappropriate by the moderator.",
		"rejection-nonmember":     "Non-members are not allowed to post messages to this list.",
		"rejection-notallowed":    "This list is restricted; your message was not approved.",
		"rejection-toomanyrcpts":  "Please trim the recipient list; it is too long.",
		"rejection-implicitdest":  "Blind carbon copies or other implicit destinations are not allowed. Try reposting your message by explicitly including the list address in the To: or Cc: fields.",
		"rejection-administrivia": "Please do *not* post administrative requests to the mailing list. If you wish to subscribe, visit {{ listinfo_url }} or send a message with the word `help' in it to the request address, {{ request }}, for further instructions.",
		"rejection-suspicious":    "Your message had a suspicious header.",
		"rejection-toobig":        "Your message was too big; please trim it to less than {{ limit }} KB in size.",
		"rejection-modnewsgroup":  "Your message was deemed inappropriate by the moderator.",

		"postheld-subject": "Your message to {{ listname }} awaits moderator approval",
		"postheld-body": `Your mail to '{{ listname }}' with the subject

    {{ subject }}

Is being held until the list moderator can review it for approval.

The reason it is being held:

    {{ reason }}

Either the message will get posted to the list, or you will receive
notification of the moderator's decision. If you would like to cancel
this posting, please visit the following URL:

    {{ confirmurl }}
`,

		"postauth-subject": "{{ listname }} post from {{ sender }} requires approval",
		"postauth-body": `As list administrator, your authorization is requested for the
following mailing list posting:

    List:    {{ listname }}@{{ hostname }}
    From:    {{ sender }}
    Subject: {{ subject }}
    Reason:  {{ reason }}

At your convenience, visit:

    {{ admindb_url }}

to approve or deny the request.
`,

		"moderator-instructions": "If you reply to this message, keeping the Subject: header intact, the held message will be discarded. Do this if the message is spam. If you reply to this message and include an Approved: header with the list password in it, the message will be approved for posting to the list. The Approved: header can also appear in the first line of the body of the reply.",
	},

	"ja": {
		"no-subject": "(無題)",

		"reason-forbidden":     "送信者は投稿を禁止されています",
		"reason-moderated":     "発言制限中のリストへの投稿",
		"reason-nonmember":     "会員限定リストへの非会員の投稿",
		"reason-suspicious":    "メッセージに疑わしいヘッダがあります",
		"reason-toobig":        "メッセージ本文が大きすぎます: 制限 {{ limit }} KB のところ {{ size }} バイト",
		"reason-administrivia": "管理コマンドを含むメッセージの可能性があります",

		"rejection-moderated": "モデレータにより不適切と判断されました。",
		"rejection-nonmember": "非会員はこのリストに投稿できません。",

		"postheld-subject": "{{ listname }} へのメッセージはモデレータの承認待ちです",
	},
}
