// Package codegen generates record types for the tables of a diagram.
package codegen

import (
	"strings"
	"unicode"
)

// Helper functions

func sanitizeName(s string) string {
	if s == "" {
		return "unnamed"
	}
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '.' {
			result.WriteRune('_')
		}
	}
	name := result.String()
	if name == "" {
		return "unnamed"
	}
	// Ensure starts with letter
	if unicode.IsDigit(rune(name[0])) {
		name = "_" + name
	}
	return name
}

// goInitialisms are written in upper case inside Go identifiers.
var goInitialisms = map[string]bool{
	"id": true, "url": true, "uuid": true, "ip": true, "api": true, "json": true, "sql": true,
}

func toPascalCase(s string) string {
	words := splitWords(s)
	var result strings.Builder
	for _, word := range words {
		if len(word) > 0 {
			result.WriteString(strings.ToUpper(word[:1]))
			if len(word) > 1 {
				result.WriteString(strings.ToLower(word[1:]))
			}
		}
	}
	name := result.String()
	if name == "" {
		return "Unknown"
	}
	return name
}

// toGoName is toPascalCase with Go initialisms kept upper case.
func toGoName(s string) string {
	words := splitWords(s)
	var result strings.Builder
	for _, word := range words {
		if goInitialisms[strings.ToLower(word)] {
			result.WriteString(strings.ToUpper(word))
			continue
		}
		result.WriteString(toPascalCase(word))
	}
	name := result.String()
	if name == "" {
		return "Unknown"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "X" + name
	}
	return name
}

func toSnakeCase(s string) string {
	words := splitWords(s)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return strings.Join(words, "_")
}

// splitWords breaks on separators and on lower-to-upper case changes,
// so "userID" and "user_id" both give ["user", "ID"/"id"].
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}
