package vette

import (
	"strings"
	"testing"
)

func TestReasonText(t *testing.T) {
	loc := NewLocale("en")
	codes := []ReasonCode{
		ForbiddenPoster, ModeratedPost, NonMemberPost, NotExplicitlyAllowed,
		TooManyRecipients, ImplicitDestination, Administrivia,
		SuspiciousHeaders, MessageTooBig, ModeratedNewsgroup,
	}

	for _, code := range codes {
		got, err := Reason{Code: code}.Text(loc)
		if err != nil {
			t.Fatalf("Text error for %s: %s", Reason{Code: code}, err)
		}
		if got == "" {
			t.Errorf("empty reason text for %s", Reason{Code: code})
		}
	}
}

func TestModeratedPostText(t *testing.T) {
	got, err := Reason{Code: ModeratedPost}.Text(NewLocale("en"))
	if err != nil {
		t.Fatalf("Text error: %s", err)
	}
	expect := "Post to moderated list"
	if got != expect {
		t.Errorf("expected %s, got %s", expect, got)
	}
}

func TestMessageTooBigParams(t *testing.T) {
	r := Reason{Code: MessageTooBig, Size: 4096, Limit: 2}
	loc := NewLocale("en")

	got, err := r.Text(loc)
	if err != nil {
		t.Fatalf("Text error: %s", err)
	}
	if !strings.Contains(got, "4096") || !strings.Contains(got, "2") {
		t.Errorf("expected size and limit in %q", got)
	}

	rejection, err := r.RejectionNotice(testList(), loc)
	if err != nil {
		t.Fatalf("RejectionNotice error: %s", err)
	}
	if !strings.Contains(rejection, "2 KB") {
		t.Errorf("expected limit in %q", rejection)
	}

	// Rendering happens per call, not at construction: a different
	// locale re-renders with the same parameters.
	ja, err := r.Text(NewLocale("ja"))
	if err != nil {
		t.Fatalf("Text error: %s", err)
	}
	if !strings.Contains(ja, "4096") {
		t.Errorf("expected size in %q", ja)
	}
	if ja == got {
		t.Error("ja rendering should differ from en")
	}
}

func TestAdministriviaRejectionNotice(t *testing.T) {
	l := testList()
	got, err := Reason{Code: Administrivia}.RejectionNotice(l, NewLocale("en"))
	if err != nil {
		t.Fatalf("RejectionNotice error: %s", err)
	}
	if !strings.Contains(got, l.ScriptURL("listinfo")) {
		t.Errorf("expected listinfo url in %q", got)
	}
	if !strings.Contains(got, l.RequestAddress()) {
		t.Errorf("expected request address in %q", got)
	}
}

func TestReasonString(t *testing.T) {
	var tests = []struct {
		reason Reason
		expect string
	}{
		{Reason{Code: ModeratedPost}, "moderated"},
		{Reason{Code: SuspiciousHeaders}, "suspicious"},
		{Reason{Code: MessageTooBig}, "toobig"},
	}

	for _, v := range tests {
		if got := v.reason.String(); got != v.expect {
			t.Errorf("expected %s, got %s", v.expect, got)
		}
	}
}
