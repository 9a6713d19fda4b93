// Package rsyntax renders Go values as R source text.
package rsyntax

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// String returns s as a double-quoted R string literal.
func String(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}

// Bool returns TRUE or FALSE.
func Bool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Int returns the decimal form of i.
func Int(i int) string {
	return strconv.Itoa(i)
}

// Float returns the shortest form of f which R reads back as the same double.
func Float(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Decimal returns d without trailing zeros, exactly as entered.
func Decimal(d decimal.Decimal) string {
	return d.String()
}

// StringVector returns a c(...) literal of quoted strings.
func StringVector(values []string) string {
	if len(values) == 0 {
		return "character(0)"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = String(v)
	}
	return vector(quoted)
}

// IntVector returns a c(...) literal of integers.
func IntVector(values []int) string {
	if len(values) == 0 {
		return "integer(0)"
	}
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = Int(v)
	}
	return vector(items)
}

// FloatVector returns a c(...) literal of doubles.
func FloatVector(values []float64) string {
	if len(values) == 0 {
		return "numeric(0)"
	}
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = Float(v)
	}
	return vector(items)
}

func vector(items []string) string {
	return "c(" + strings.Join(items, ", ") + ")"
}
