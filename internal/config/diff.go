package config

import (
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Diff describes how current differs from previous, one YAML line per entry,
// or returns "" when they are equal.
func Diff(previous, current *Config) string {
	prev, err := previous.Marshal()
	if err != nil {
		return ""
	}
	curr, err := current.Marshal()
	if err != nil {
		return ""
	}
	return DiffSerialized(prev, curr)
}

// DiffSerialized returns a line diff between two serialized configuration payloads.
func DiffSerialized(previous, current []byte) string {
	return cmp.Diff(splitLines(previous), splitLines(current))
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
