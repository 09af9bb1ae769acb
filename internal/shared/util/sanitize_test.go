package util

import (
	"strings"
	"testing"
)

func TestSanitizeFreeTextStripsHTML(t *testing.T) {
	got := SanitizeFreeText(`We use <script>alert("x")</script> a <b>mix</b> of tools`)
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Fatalf("tags survived: %q", got)
	}
	if !strings.Contains(got, "mix") {
		t.Fatalf("content lost: %q", got)
	}
}

func TestSanitizeFreeTextDropsEmoji(t *testing.T) {
	got := SanitizeFreeText("Our CRM is great \U0001F600\U0001F525 really!")
	if got != "Our CRM is great really!" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestSanitizeFreeTextCollapsesWhitespace(t *testing.T) {
	got := SanitizeFreeText("too   many\n\n  spaces\t here")
	if got != "too many spaces here" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestSanitizeFreeTextCaps(t *testing.T) {
	got := SanitizeFreeText(strings.Repeat("a", 600))
	if len(got) != 500 {
		t.Fatalf("expected 500 chars, got %d", len(got))
	}
}

func TestSanitizeBusinessNameCaps(t *testing.T) {
	got := SanitizeBusinessName(strings.Repeat("b", 150))
	if len(got) != 100 {
		t.Fatalf("expected 100 chars, got %d", len(got))
	}
	if SanitizeBusinessName("  Joe's Plumbing & Heating  ") != "Joe's Plumbing & Heating" {
		t.Fatalf("trimming failed")
	}
}

func TestHashKeyStableAndCaseSensitive(t *testing.T) {
	a := HashKey("user@example.com")
	b := HashKey("user@example.com")
	c := HashKey("User@example.com")
	if a != b {
		t.Fatalf("hash not stable")
	}
	if a == c {
		t.Fatalf("hash should be case sensitive")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
