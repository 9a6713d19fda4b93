package rsyntax

import (
	"strings"
)

// Arg is one argument of a function call. Unnamed arguments are positional.
type Arg struct {
	Name  string
	Value string
}

// Named is a shorthand for a named argument.
func Named(name, value string) Arg {
	return Arg{Name: name, Value: value}
}

// Positional is a shorthand for an unnamed argument.
func Positional(value string) Arg {
	return Arg{Value: value}
}

// Call renders fn(arg, name=value, ...).
func Call(fn string, args ...Arg) string {
	rendered := make([]string, 0, len(args))
	for _, arg := range args {
		if arg.Name == "" {
			rendered = append(rendered, arg.Value)
			continue
		}
		rendered = append(rendered, arg.Name+"="+arg.Value)
	}
	return fn + "(" + strings.Join(rendered, ", ") + ")"
}

// Assign wraps expr in an assignment to the trimmed name.
// A blank name leaves expr untouched.
func Assign(name, expr string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return expr
	}
	return name + " <- " + expr
}

// Member renders accessor$component. Components which are not syntactic
// names are back-quoted.
func Member(accessor, component string) string {
	if !IsValidIdentifier(component) {
		component = "`" + strings.Replace(component, "`", "\\`", -1) + "`"
	}
	return accessor + "$" + component
}

// Element renders accessor[["key"]].
func Element(accessor, key string) string {
	return accessor + "[[" + String(key) + "]]"
}

// Formula renders ~a+b for the given terms, or an empty string when there
// are none.
func Formula(terms []string) string {
	cleaned := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term != "" {
			cleaned = append(cleaned, term)
		}
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "~" + strings.Join(cleaned, "+")
}
