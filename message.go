package vette

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Message is an inbound post. Raw keeps the message verbatim for the
// moderator attachment; EnvelopeSender is the transport-level MAIL FROM
// and may differ from the header sender.
type Message struct {
	Raw            []byte
	Header         mail.Header
	Body           []byte
	EnvelopeSender string
}

func ReadMessage(r io.Reader) (*Message, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("message read error: %w", err)
	}
	m, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("message parse error: %w", err)
	}
	body, err := io.ReadAll(m.Body)
	if err != nil {
		return nil, fmt.Errorf("message body read error: %w", err)
	}
	return &Message{Raw: raw, Header: m.Header, Body: body}, nil
}

func (m *Message) Get(name string) string {
	return m.Header.Get(name)
}

// HeaderSender returns the address from Sender:, falling back to From:.
// Empty when neither parses.
func (m *Message) HeaderSender() string {
	for _, name := range []string{"Sender", "From"} {
		v := m.Get(name)
		if v == "" {
			continue
		}
		addr, err := mail.ParseAddress(v)
		if err != nil {
			continue
		}
		return addr.Address
	}
	return ""
}

// MessageID returns the Message-ID header or "n/a" when absent.
func (m *Message) MessageID() string {
	if id := m.Get("Message-Id"); id != "" {
		return id
	}
	return "n/a"
}

// Ackp reports whether an automatic acknowledgment may be sent for this
// message. Suppressed when X-Ack is anything but "yes" and Precedence
// marks the message as bulk mail.
func (m *Message) Ackp() bool {
	ack := strings.ToLower(m.Get("X-Ack"))
	precedence := strings.ToLower(m.Get("Precedence"))
	if ack != "yes" && (precedence == "bulk" || precedence == "junk" || precedence == "list") {
		return false
	}
	return true
}

// SubjectOneline returns the Subject header decoded to a single display
// line. ok is false when the header is absent or blank; decode failures
// degrade to the raw header text.
func (m *Message) SubjectOneline() (string, bool) {
	subject := m.Get("Subject")
	if strings.TrimSpace(subject) == "" {
		return "", false
	}
	dec := mime.WordDecoder{CharsetReader: charsetReader}
	decoded, err := dec.DecodeHeader(subject)
	if err != nil {
		decoded = subject
	}
	return strings.Join(strings.Fields(decoded), " "), true
}

// Recipients returns every address named in To: and Cc:. Unparsable
// header values are ignored.
func (m *Message) Recipients() []string {
	var out []string
	for _, name := range []string{"To", "Cc"} {
		v := m.Get(name)
		if v == "" {
			continue
		}
		addrs, err := mail.ParseAddressList(v)
		if err != nil {
			continue
		}
		for _, a := range addrs {
			out = append(out, a.Address)
		}
	}
	return out
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown charset: %s", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

func localPart(addr string) string {
	if i := strings.LastIndex(addr, "@"); i != -1 {
		return addr[:i]
	}
	return addr
}
