// Package textutil provides small text formatting helpers shared by the
// Telegram handlers: HTML escaping, long-message splitting, and human
// readable size/duration formatting.
package textutil

import (
	"fmt"
	"strings"
)

// MaxMessageLength is the ceiling used when splitting outbound messages.
// Telegram rejects messages over 4096 characters; we stay under it to leave
// room for formatting.
const MaxMessageLength = 4000

// EscapeHTML escapes the characters Telegram's HTML parse mode treats as
// markup.
func EscapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}

// SplitMessage splits text into chunks no longer than maxLen, preferring
// line boundaries and falling back to word boundaries for overlong lines.
// A non-positive maxLen uses MaxMessageLength.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}
	appendChunk := func(chunk string) {
		switch {
		case current.Len() == 0:
			current.WriteString(chunk)
		case current.Len()+1+len(chunk) <= maxLen:
			current.WriteByte('\n')
			current.WriteString(chunk)
		default:
			flush()
			current.WriteString(chunk)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if len(line) <= maxLen {
			appendChunk(line)
			continue
		}

		// Overlong line: break on words.
		var segment strings.Builder
		for _, word := range strings.Fields(line) {
			switch {
			case segment.Len() == 0:
				segment.WriteString(word)
			case segment.Len()+1+len(word) <= maxLen:
				segment.WriteByte(' ')
				segment.WriteString(word)
			default:
				appendChunk(segment.String())
				segment.Reset()
				segment.WriteString(word)
			}
		}
		if segment.Len() > 0 {
			appendChunk(segment.String())
		}
	}
	flush()

	return parts
}

// FormatFileSize renders a byte count as B/KB/MB/GB with one decimal above
// the kilobyte range.
func FormatFileSize(size int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case size < kb:
		return fmt.Sprintf("%d B", size)
	case size < mb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	case size < gb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/gb)
	}
}

// FormatDuration renders a duration in seconds as MM:SS, or HH:MM:SS from
// one hour up.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "00:00"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
