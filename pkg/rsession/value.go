package rsession

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Kind is the storage type of a Value.
type Kind int

// Kinds of values the interpreter can return.
const (
	Null Kind = iota
	Logical
	Integer
	Double
	String
	// Other is any value which has no primitive vector form (lists, S3
	// objects such as madata). Only its class is transferred.
	Other
)

var kindNames = map[Kind]string{
	Null:    "null",
	Logical: "logical",
	Integer: "integer",
	Double:  "double",
	String:  "character",
	Other:   "other",
}

func (k Kind) String() string {
	return kindNames[k]
}

// NAInteger is how R stores a missing integer.
const NAInteger = math.MinInt32

// Value is a vector returned by the interpreter. Matrices arrive flattened in
// column-major order.
type Value struct {
	kind     Kind
	class    string
	logicals []bool
	ints     []int
	doubles  []float64
	strings  []string
	na       []bool
}

// NullValue is R's NULL.
func NullValue() *Value {
	return &Value{kind: Null, class: "NULL"}
}

// NewOther is a value of the given class with no transferable content.
func NewOther(class string) *Value {
	return &Value{kind: Other, class: class}
}

// NewLogicals is a logical vector.
func NewLogicals(values ...bool) *Value {
	return &Value{kind: Logical, class: "logical", logicals: values, na: make([]bool, len(values))}
}

// NewInts is an integer vector. NAInteger entries are missing.
func NewInts(values ...int) *Value {
	na := make([]bool, len(values))
	for i, v := range values {
		na[i] = v == NAInteger
	}
	return &Value{kind: Integer, class: "integer", ints: values, na: na}
}

// NewDoubles is a numeric vector. NaN entries are treated as missing.
func NewDoubles(values ...float64) *Value {
	na := make([]bool, len(values))
	for i, v := range values {
		na[i] = math.IsNaN(v)
	}
	return &Value{kind: Double, class: "numeric", doubles: values, na: na}
}

// NewStrings is a character vector without missing entries.
func NewStrings(values ...string) *Value {
	return &Value{kind: String, class: "character", strings: values, na: make([]bool, len(values))}
}

// Kind returns the storage type.
func (v *Value) Kind() Kind {
	return v.kind
}

// Class returns the first element of R's class attribute.
func (v *Value) Class() string {
	return v.class
}

// IsNull reports whether the value is NULL.
func (v *Value) IsNull() bool {
	return v.kind == Null
}

// Len returns the vector length. NULL and Other have length zero.
func (v *Value) Len() int {
	switch v.kind {
	case Logical:
		return len(v.logicals)
	case Integer:
		return len(v.ints)
	case Double:
		return len(v.doubles)
	case String:
		return len(v.strings)
	}
	return 0
}

// IsNA reports whether element i is missing.
func (v *Value) IsNA(i int) bool {
	if i < 0 || i >= len(v.na) {
		return false
	}
	return v.na[i]
}

func (v *Value) String() string {
	return fmt.Sprintf("%s[%s, %d]", v.class, v.kind, v.Len())
}

func (v *Value) mismatch(expected string) error {
	return errors.Errorf("expected %s but interpreter returned %s", expected, v)
}

func (v *Value) scalar(expected string) error {
	if v.Len() == 0 {
		return v.mismatch(expected)
	}
	if v.na[0] {
		return errors.Errorf("expected %s but interpreter returned NA", expected)
	}
	return nil
}

// AsInt returns the first element of an integer or logical vector.
// Doubles are refused; see AsIntTruncated.
func (v *Value) AsInt() (int, error) {
	switch v.kind {
	case Integer:
		if err := v.scalar("integer"); err != nil {
			return 0, err
		}
		return v.ints[0], nil
	case Logical:
		if err := v.scalar("integer"); err != nil {
			return 0, err
		}
		if v.logicals[0] {
			return 1, nil
		}
		return 0, nil
	}
	return 0, v.mismatch("integer")
}

// AsIntTruncated returns the first element of any numeric vector, truncating
// doubles toward zero.
func (v *Value) AsIntTruncated() (int, error) {
	if v.kind == Double {
		d, err := v.AsDouble()
		if err != nil {
			return 0, err
		}
		return int(d), nil
	}
	return v.AsInt()
}

// AsDouble returns the first element of a numeric vector.
func (v *Value) AsDouble() (float64, error) {
	switch v.kind {
	case Double:
		if err := v.scalar("double"); err != nil {
			return 0, err
		}
		return v.doubles[0], nil
	case Integer:
		i, err := v.AsInt()
		return float64(i), err
	}
	return 0, v.mismatch("double")
}

// AsString returns the first element of a character vector.
func (v *Value) AsString() (string, error) {
	if v.kind != String {
		return "", v.mismatch("character")
	}
	if err := v.scalar("character"); err != nil {
		return "", err
	}
	return v.strings[0], nil
}

// AsBool returns the first element of a logical vector.
func (v *Value) AsBool() (bool, error) {
	if v.kind != Logical {
		return false, v.mismatch("logical")
	}
	if err := v.scalar("logical"); err != nil {
		return false, err
	}
	return v.logicals[0], nil
}

// AsInts returns a copy of an integer or logical vector. NULL is empty.
// Missing entries are NAInteger.
func (v *Value) AsInts() ([]int, error) {
	switch v.kind {
	case Null:
		return []int{}, nil
	case Integer:
		return append([]int{}, v.ints...), nil
	case Logical:
		out := make([]int, len(v.logicals))
		for i, b := range v.logicals {
			switch {
			case v.na[i]:
				out[i] = NAInteger
			case b:
				out[i] = 1
			}
		}
		return out, nil
	}
	return nil, v.mismatch("integer vector")
}

// AsDoubles returns a copy of a numeric vector. NULL is empty. Missing
// entries are NaN.
func (v *Value) AsDoubles() ([]float64, error) {
	switch v.kind {
	case Null:
		return []float64{}, nil
	case Double:
		return append([]float64{}, v.doubles...), nil
	case Integer:
		out := make([]float64, len(v.ints))
		for i, n := range v.ints {
			if v.na[i] {
				out[i] = math.NaN()
				continue
			}
			out[i] = float64(n)
		}
		return out, nil
	}
	return nil, v.mismatch("numeric vector")
}

// AsStrings returns a copy of a character vector. Numeric vectors are
// formatted, which is what probe identifiers read as numbers need. NULL is
// empty and missing entries are "NA".
func (v *Value) AsStrings() ([]string, error) {
	switch v.kind {
	case Null:
		return []string{}, nil
	case String:
		out := make([]string, len(v.strings))
		for i, s := range v.strings {
			if v.na[i] {
				s = "NA"
			}
			out[i] = s
		}
		return out, nil
	case Integer:
		out := make([]string, len(v.ints))
		for i, n := range v.ints {
			if v.na[i] {
				out[i] = "NA"
				continue
			}
			out[i] = strconv.Itoa(n)
		}
		return out, nil
	case Double:
		out := make([]string, len(v.doubles))
		for i, d := range v.doubles {
			if v.na[i] {
				out[i] = "NA"
				continue
			}
			out[i] = strconv.FormatFloat(d, 'g', -1, 64)
		}
		return out, nil
	}
	return nil, v.mismatch("character vector")
}
