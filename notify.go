package vette

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"time"

	"github.com/flosch/pongo2/v6"
)

const notifyWrapWidth = 70

// Notifier composes and delivers hold notifications. Each notification
// is rendered in an explicitly supplied locale; composing the moderator
// notice never touches the locale the sender notice used.
type Notifier struct {
	Mailer Mailer
}

// SendHeldNotice acknowledges the original sender. It appears to come
// from the list's bounces address so bounce processing applies to it.
func (n *Notifier) SendHeldNotice(l *List, sender string, loc *Locale, ctx pongo2.Context) error {
	subject, err := loc.Render("postheld-subject", ctx)
	if err != nil {
		return err
	}
	body, err := loc.Render("postheld-body", ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writeHeader(&buf, "From", l.BouncesAddress())
	writeHeader(&buf, "To", sender)
	writeHeader(&buf, "Subject", encodeHeader(subject))
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", fmt.Sprintf("text/plain; charset=%q", loc.Charset))
	buf.WriteString(crlf)
	buf.WriteString(body)

	return n.Mailer.Send(l.BouncesAddress(), []string{sender}, buf.Bytes())
}

// SendModeratorNotice alerts the owners and moderators with a
// three-part multipart: the admin summary, the held message verbatim,
// and a control message whose reply routes back through the request
// address carrying the confirmation token. It appears to come from the
// owner address, which needs no bounce processing.
func (n *Notifier) SendModeratorNotice(l *List, m *Message, loc *Locale, ctx pongo2.Context, token string) error {
	subject, err := loc.Render("postauth-subject", ctx)
	if err != nil {
		return err
	}
	summary, err := loc.Render("postauth-body", ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	writeHeader(&buf, "From", l.OwnerAddress())
	writeHeader(&buf, "To", l.OwnerAddress())
	writeHeader(&buf, "Subject", encodeHeader(subject))
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", mw.Boundary()))
	buf.WriteString(crlf)

	pw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("text/plain; charset=%q", loc.Charset)},
	})
	if err != nil {
		return fmt.Errorf("multipart error: %w", err)
	}
	if _, err := pw.Write([]byte(summary)); err != nil {
		return fmt.Errorf("multipart error: %w", err)
	}

	pw, err = mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"message/rfc822"},
	})
	if err != nil {
		return fmt.Errorf("multipart error: %w", err)
	}
	if _, err := pw.Write(m.Raw); err != nil {
		return fmt.Errorf("multipart error: %w", err)
	}

	pw, err = mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"message/rfc822"},
	})
	if err != nil {
		return fmt.Errorf("multipart error: %w", err)
	}
	if _, err := pw.Write(n.controlMessage(l, loc, token)); err != nil {
		return fmt.Errorf("multipart error: %w", err)
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("multipart error: %w", err)
	}

	to := append([]string{l.OwnerAddress()}, l.Moderators...)
	return n.Mailer.Send(l.OwnerAddress(), to, buf.Bytes())
}

// controlMessage builds the pre-addressed discard/approve message. A
// bare reply discards the held post; a reply with an Approved: header
// (or an Approved: first body line) approves it.
func (n *Notifier) controlMessage(l *List, loc *Locale, token string) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, "Subject", "confirm "+token)
	writeHeader(&buf, "Sender", l.RequestAddress())
	writeHeader(&buf, "From", l.RequestAddress())
	writeHeader(&buf, "Date", time.Now().Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", NewToken(), l.Host))
	buf.WriteString(crlf)
	buf.WriteString(wrapText(loc.Text("moderator-instructions"), notifyWrapWidth))
	buf.WriteString("\n")
	return buf.Bytes()
}

const crlf = "\r\n"

func writeHeader(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, "%s: %s%s", name, value, crlf)
}

// encodeHeader RFC 2047 encodes a header value when it is not plain
// ASCII.
func encodeHeader(s string) string {
	return mime.QEncoding.Encode("utf-8", s)
}
