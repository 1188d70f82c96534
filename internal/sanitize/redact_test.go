package sanitize

import (
	"strings"
	"testing"
)

func TestRedactEmail(t *testing.T) {
	got := Redact("contact me at jane.doe+ads@example.co.uk please")
	if strings.Contains(got, "jane.doe") || strings.Contains(got, "example.co.uk") {
		t.Errorf("email not redacted: %q", got)
	}
	if !strings.Contains(got, "[email]") {
		t.Errorf("missing placeholder: %q", got)
	}
}

func TestRedactPhone(t *testing.T) {
	cases := []string{
		"call me at (555) 123-4567",
		"my number is 555-123-4567",
		"reach me on +1 555 123 4567",
	}
	for _, in := range cases {
		got := Redact(in)
		if !strings.Contains(got, "[phone]") {
			t.Errorf("phone not redacted in %q: got %q", in, got)
		}
	}
}

func TestRedactCardNumber(t *testing.T) {
	got := Redact("charged on card 4111111111111111 twice")
	if strings.Contains(got, "4111111111111111") {
		t.Errorf("card number not redacted: %q", got)
	}
}

func TestRedactBearerToken(t *testing.T) {
	got := Redact("the error shows Bearer nb-AAoDnr1JKoVz6WZgjucG")
	if strings.Contains(got, "nb-AAoDnr1JKoVz6WZgjucG") {
		t.Errorf("token not redacted: %q", got)
	}
}

func TestRedactLeavesTimestampsAlone(t *testing.T) {
	line := "[2025-03-01 09:15:02] user: I was charged twice"
	if got := Redact(line); got != line {
		t.Errorf("timestamp mangled: %q", got)
	}
}

func TestRedactIdempotent(t *testing.T) {
	in := "email jane@example.com phone 555-123-4567"
	once := Redact(in)
	twice := Redact(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}
