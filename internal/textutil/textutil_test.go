package textutil_test

import (
	"strings"
	"testing"

	"github.com/xodimov/relaybot/internal/textutil"
)

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"angle brackets", "<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"ampersand", "a & b", "a &amp; b"},
		{"mixed", "1 < 2 && 3 > 2", "1 &lt; 2 &amp;&amp; 3 &gt; 2"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := textutil.EscapeHTML(tc.input); got != tc.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSplitMessageShortText(t *testing.T) {
	t.Parallel()

	parts := textutil.SplitMessage("short text", 100)
	if len(parts) != 1 || parts[0] != "short text" {
		t.Errorf("expected single unchanged chunk, got %v", parts)
	}
}

func TestSplitMessagePrefersLineBoundaries(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("aaaa\n", 10) // 50 chars total
	parts := textutil.SplitMessage(strings.TrimSuffix(text, "\n"), 25)

	if len(parts) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(parts))
	}
	for i, part := range parts {
		if len(part) > 25 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(part))
		}
		for _, line := range strings.Split(part, "\n") {
			if line != "aaaa" {
				t.Errorf("chunk %d broke a line: %q", i, part)
			}
		}
	}
}

func TestSplitMessageBreaksOverlongLineOnWords(t *testing.T) {
	t.Parallel()

	text := strings.TrimSpace(strings.Repeat("word ", 20)) // one long line
	parts := textutil.SplitMessage(text, 25)

	if len(parts) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(parts))
	}
	for i, part := range parts {
		if len(part) > 25 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(part))
		}
		if strings.Contains(part, "wo rd") || strings.HasPrefix(part, "ord") {
			t.Errorf("chunk %d split mid-word: %q", i, part)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tc := range tests {
		if got := textutil.FormatFileSize(tc.size); got != tc.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds int
		want    string
	}{
		{-5, "00:00"},
		{0, "00:00"},
		{42, "00:42"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
	}

	for _, tc := range tests {
		if got := textutil.FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
