package vette

import (
	"fmt"
	"log"
	"time"

	"github.com/flosch/pongo2/v6"
)

// Outcome is the result of running a message through the hold rules.
// Held outcomes carry the selected reason and the confirmation token;
// the caller is responsible for aborting delivery when Held is true.
type Outcome struct {
	Held   bool
	Reason Reason
	Token  string
}

// Holder ties the rule evaluators to the pending store, the
// notification dispatcher and the audit hooks.
type Holder struct {
	Rules     Ruleset
	Pendings  PendingStore
	Registrar Registrar
	Notifier  *Notifier
	Responder Responder
	Hooks     []Hook
}

// Process runs every hold rule against the message. A message already
// approved by a trusted prior stage passes through untouched, with no
// rule evaluated and nothing persisted.
func (h *Holder) Process(l *List, m *Message, meta *Metadata) (Outcome, error) {
	if meta.Approved {
		return Outcome{}, nil
	}
	reason, ok := h.Rules.Match(l, m, meta)
	if !ok {
		return Outcome{}, nil
	}
	return h.HoldForApproval(l, m, meta, reason)
}

// HoldForApproval durably records the held message and the pending
// confirmation, sends the sender and moderator notices as configured,
// and logs the hold. Store and transport failures propagate: the
// caller must treat the hold attempt as failed, not as a silent drop.
func (h *Holder) HoldForApproval(l *List, m *Message, meta *Metadata, reason Reason) (Outcome, error) {
	sender := effectiveSender(m, meta)
	// An MTA alias of the form "owner-foo: bar" makes some MTAs rewrite
	// the envelope sender before delivery, leaving <listname>-admin as
	// the header sender. Fall back to the envelope sender then.
	if sender == "" || localPart(sender) == l.AdminAlias() {
		sender = m.EnvelopeSender
	}

	listLoc := NewLocale(l.PreferredLanguage)

	subject, ok := m.SubjectOneline()
	if !ok {
		subject = listLoc.Text("no-subject")
	}

	// Reason and rejection texts are rendered here, in the list's
	// language, not reused from classification time.
	reasonText, err := reason.Text(listLoc)
	if err != nil {
		return Outcome{}, err
	}
	reasonText = wrapText(reasonText, notifyWrapWidth)
	rejection, err := reason.RejectionNotice(l, listLoc)
	if err != nil {
		return Outcome{}, err
	}
	meta.RejectionNotice = wrapText(rejection, notifyWrapWidth)

	id, err := h.Registrar.HoldMessage(l, m, meta, reasonText)
	if err != nil {
		return Outcome{}, fmt.Errorf("hold registration error: %w", err)
	}
	token, err := h.Pendings.Add(Pending{Kind: PendKindHeldMessage, HeldID: id})
	if err != nil {
		return Outcome{}, fmt.Errorf("pending store error: %w", err)
	}

	ctx := pongo2.Context{
		"listname":    l.Name,
		"hostname":    l.Host,
		"reason":      reasonText,
		"sender":      sender,
		"subject":     subject,
		"admindb_url": l.ScriptURL("admindb"),
	}

	// The sender notice goes out in the member's language when the
	// sender is subscribed, else in the list's.
	lang := l.PreferredLanguage
	if member := l.Member(sender); member != nil && member.PreferredLanguage != "" {
		lang = member.PreferredLanguage
	}
	if meta.Lang != "" {
		lang = meta.Lang
	}

	if !meta.FromUsenet && m.Ackp() && l.RespondToPostRequests &&
		h.Responder.AllowSender(l, sender, lang) {
		senderLoc := NewLocale(lang)
		senderCtx := pongo2.Context{"confirmurl": l.ScriptURL("confirm") + "/" + token}
		senderCtx.Update(ctx)
		senderCtx["reason"], err = reason.Text(senderLoc)
		if err != nil {
			return Outcome{}, err
		}
		if err := h.Notifier.SendHeldNotice(l, sender, senderLoc, senderCtx); err != nil {
			return Outcome{}, fmt.Errorf("sender notice error: %w", err)
		}
	}

	if l.AdminImmedNotify {
		if err := h.Notifier.SendModeratorNotice(l, m, listLoc, ctx, token); err != nil {
			return Outcome{}, fmt.Errorf("moderator notice error: %w", err)
		}
	}

	log.Printf("%s post from %s held, message-id=%s: %s", l.Name, sender, m.MessageID(), reasonText)
	now := time.Now()
	for _, hook := range h.Hooks {
		hook.AfterHold(&AfterHoldData{
			OccurredAt: now,
			List:       l.Name,
			Sender:     sender,
			MessageID:  m.MessageID(),
			Reason:     reasonText,
			Token:      token,
		})
	}

	return Outcome{Held: true, Reason: reason, Token: token}, nil
}
