package db

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// words splits an identifier on separators, keeping existing camel case
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// pascalCase converts order_items to OrderItems
func pascalCase(s string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// camelCase converts company_id to companyId. A leading all-caps word is
// lowered entirely (ID -> id).
func camelCase(s string) string {
	parts := words(s)
	if len(parts) == 0 {
		return ""
	}

	// Casers keep state between calls and are not shared
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	if isUpper(parts[0]) {
		b.WriteString(cases.Lower(language.Und).String(parts[0]))
	} else {
		b.WriteString(lowerFirst(parts[0]))
	}
	for _, w := range parts[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func isUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func pluralize(s string) string {
	return inflection.Plural(s)
}

// modelName converts a table name to a singular PascalCase model name
func modelName(table string) string {
	name := pascalCase(inflection.Singular(table))
	if name == "" {
		return pascalCase(table)
	}
	return name
}

// uniqueModelName returns the model name for table, falling back to the
// unsingularized name and then a numeric suffix when it is already taken
func uniqueModelName(table string, taken map[string]bool) string {
	candidates := []string{modelName(table), pascalCase(table)}
	for _, c := range candidates {
		if c != "" && !taken[c] {
			taken[c] = true
			return c
		}
	}
	base := candidates[0]
	if base == "" {
		base = "Model"
	}
	for i := 2; ; i++ {
		c := fmt.Sprintf("%s%d", base, i)
		if !taken[c] {
			taken[c] = true
			return c
		}
	}
}
