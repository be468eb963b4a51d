package logtail

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Attr is one key=value pair of a record.
type Attr struct {
	Key   string
	Value string
}

// Entry is a parsed slog text record.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []Attr
	Raw     string
}

// Attr returns the value of key, if present.
func (e Entry) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Parse decodes one line written by slog.TextHandler:
//
//	time=2026-03-01T10:00:00.000Z level=WARN msg="sync failed" id=7 op=delete
//
// Lines that are not key=value records become an INFO entry whose message is
// the whole line.
func Parse(line string) Entry {
	e := Entry{Level: slog.LevelInfo, Raw: line}
	pairs, ok := splitPairs(line)
	if !ok {
		e.Message = strings.TrimSpace(line)
		return e
	}
	for _, p := range pairs {
		switch p.Key {
		case slog.TimeKey:
			if t, err := time.Parse(time.RFC3339Nano, p.Value); err == nil {
				e.Time = t
			}
		case slog.LevelKey:
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(p.Value)); err == nil {
				e.Level = lvl
			}
		case slog.MessageKey:
			e.Message = p.Value
		default:
			e.Attrs = append(e.Attrs, p)
		}
	}
	return e
}

// Tail reads the last maxLines of path, parses them and keeps entries at or
// above minLevel.
func Tail(path string, maxLines int, minLevel slog.Level) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	return Filter(ParseLines(lines), minLevel), nil
}

// ParseLines parses every non-blank line.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Parse(line))
	}
	return out
}

// Filter keeps entries whose level is at least minLevel.
func Filter(entries []Entry, minLevel slog.Level) []Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.Level >= minLevel {
			out = append(out, e)
		}
	}
	return out
}

func splitPairs(line string) ([]Attr, bool) {
	var pairs []Attr
	s := strings.TrimSpace(line)
	for s != "" {
		eq := strings.IndexByte(s, '=')
		if eq <= 0 || strings.ContainsAny(s[:eq], " \t\"") {
			return nil, false
		}
		key := s[:eq]
		s = s[eq+1:]

		var value string
		if strings.HasPrefix(s, `"`) {
			end := closingQuote(s)
			if end < 0 {
				return nil, false
			}
			unquoted, err := strconv.Unquote(s[:end+1])
			if err != nil {
				return nil, false
			}
			value = unquoted
			s = s[end+1:]
		} else {
			sp := strings.IndexByte(s, ' ')
			if sp < 0 {
				sp = len(s)
			}
			value = s[:sp]
			s = s[sp:]
		}
		pairs = append(pairs, Attr{Key: key, Value: value})
		s = strings.TrimLeft(s, " ")
	}
	return pairs, len(pairs) > 0
}

// closingQuote returns the index of the quote ending the string that starts
// at s[0], skipping escaped quotes.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
