package models

import "strings"

// isASCIIDigit checks if a rune is an ASCII digit (0-9)
func isASCIIDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isASCIIAlphanumeric checks if a rune is an ASCII letter or digit
func isASCIIAlphanumeric(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isASCIIDigit(ch)
}

// escapeString escapes the delimiter and backslash characters of s.
func escapeString(s string, delimiter rune) string {
	var result strings.Builder
	for _, ch := range s {
		if ch == delimiter || ch == '\\' {
			result.WriteRune('\\')
		}
		result.WriteRune(ch)
	}
	return result.String()
}

func isAllDigitsOrUnderscore(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch != '_' && !isASCIIDigit(ch) {
			return false
		}
	}
	return true
}

// needsEscaping reports whether s cannot be written as a bare identifier.
// Strings made only of digits and underscores would be read back as numbers.
func needsEscaping(s string) bool {
	if s == "" {
		return true
	}
	for _, ch := range s {
		if !isASCIIAlphanumeric(ch) && ch != '_' {
			return true
		}
	}
	return isAllDigitsOrUnderscore(s)
}

// EscapeIdent renders name as a SurrealQL identifier, wrapping it in
// backticks when it is not a plain identifier.
func EscapeIdent(name string) string {
	if !needsEscaping(name) {
		return name
	}
	return "`" + escapeString(name, '`') + "`"
}

// QuoteString renders s as a SurrealQL string literal. Single quotes are used
// unless s itself contains one.
func QuoteString(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') {
		quote = '"'
	}
	return string(quote) + escapeString(s, quote) + string(quote)
}

// escapeKey renders an object key, quoting it when it is not a plain identifier.
func escapeKey(key string) string {
	if key != "" && !strings.ContainsFunc(key, func(ch rune) bool {
		return !isASCIIAlphanumeric(ch) && ch != '_'
	}) {
		return key
	}
	return QuoteString(key)
}
