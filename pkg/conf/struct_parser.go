package conf

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/camelcase"
	"github.com/pkg/errors"
)

// Struct tags understood by Process. Only help is required; a field with no
// tags at all is not exposed.
const (
	helpTag             = "help"
	defaultTag          = "default"
	defaultFromFieldTag = "defaultFromField"
	nameTag             = "name"
	requiredTag         = "required"
	// typeTag narrows a string field; "file" makes it a FileFlag.
	typeTag = "type"

	// prefixFieldName is an unexported string field prepended to every flag name.
	prefixFieldName = "flagPrefix"
)

var (
	durationType    = reflect.TypeOf(time.Duration(0))
	stringSliceType = reflect.TypeOf([]string(nil))
	allTags         = []string{helpTag, defaultTag, defaultFromFieldTag, nameTag, requiredTag, typeTag}
)

// Process registers a flag for every tagged field of the struct data points
// to and fills the fields with the flag values. Before ParseEnv or ParseFlags
// the fields get their defaults, so callers register first, parse and then
// process again.
func Process(data interface{}) error {
	pointer := reflect.ValueOf(data)
	if pointer.Kind() != reflect.Ptr || pointer.Elem().Kind() != reflect.Struct {
		return errors.Errorf("argument needs to be a pointer to struct, got %T", data)
	}

	value := pointer.Elem()
	prefix := stringField(value, prefixFieldName)
	for i := 0; i < value.NumField(); i++ {
		structField := value.Type().Field(i)
		field := value.Field(i)
		// Unexported and embedded struct fields are skipped.
		if !field.CanSet() || (structField.Anonymous && field.Kind() == reflect.Struct) {
			continue
		}

		spec, err := parseTags(value, structField, prefix)
		if err != nil {
			return err
		}
		if spec == nil {
			continue
		}
		if err := spec.bind(field); err != nil {
			return err
		}
	}
	return nil
}

// stringField returns the named string field of value, or "" when there is none.
func stringField(value reflect.Value, name string) string {
	field := value.FieldByName(name)
	if field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}

// nameFromFieldName turns a Go field name into a flag name: "SomeName1"
// becomes "some_name_1".
func nameFromFieldName(name string) string {
	var words []string
	for _, word := range camelcase.Split(name) {
		if word != "_" {
			words = append(words, strings.ToLower(word))
		}
	}
	return strings.Join(words, "_")
}

// fieldSpec is the flag described by the tags of one field.
type fieldSpec struct {
	name         string
	help         string
	defaultValue string
	required     bool
	isFile       bool
}

// parseTags returns nil when the field carries no tags.
func parseTags(owner reflect.Value, field reflect.StructField, prefix string) (*fieldSpec, error) {
	tags := field.Tag
	help := tags.Get(helpTag)
	if help == "" {
		for _, tag := range allTags {
			if tags.Get(tag) != "" {
				return nil, errors.Errorf("field %s has tags but no help", field.Name)
			}
		}
		return nil, nil
	}

	name := tags.Get(nameTag)
	if name == "" {
		name = field.Name
	}
	defaultValue := tags.Get(defaultTag)
	if defaultValue == "" {
		defaultValue = stringField(owner, tags.Get(defaultFromFieldTag))
	}

	return &fieldSpec{
		name:         nameFromFieldName(prefix + name),
		help:         help,
		defaultValue: defaultValue,
		required:     tags.Get(requiredTag) == "true",
		isFile:       tags.Get(typeTag) == "file",
	}, nil
}

// bind registers the flag and stores its current value in field. Nil
// pointers are allocated.
func (s *fieldSpec) bind(field reflect.Value) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}

	var clause *cliAndEnvFlag
	switch {
	case field.Kind() == reflect.String && s.isFile:
		flag := NewFileFlag(s.name, s.help, s.defaultValue)
		field.SetString(flag.Value())
		clause = flag.cliAndEnvFlag

	case field.Kind() == reflect.String:
		flag := NewStringFlag(s.name, s.help, s.defaultValue)
		field.SetString(flag.Value())
		clause = flag.cliAndEnvFlag

	case field.Type() == durationType:
		var value time.Duration
		if s.defaultValue != "" {
			var err error
			if value, err = time.ParseDuration(s.defaultValue); err != nil {
				return errors.Wrap(err, "wrong default value for Duration type flag")
			}
		}
		flag := NewDurationFlag(s.name, s.help, value)
		field.SetInt(int64(flag.Value()))
		clause = flag.cliAndEnvFlag

	case isInt(field.Kind()):
		var value int
		if s.defaultValue != "" {
			var err error
			if value, err = strconv.Atoi(s.defaultValue); err != nil {
				return errors.Wrap(err, "wrong default value for Int type flag")
			}
		}
		flag := NewIntFlag(s.name, s.help, value)
		field.SetInt(int64(flag.Value()))
		clause = flag.cliAndEnvFlag

	case field.Kind() == reflect.Bool:
		var value bool
		if s.defaultValue != "" {
			var err error
			if value, err = strconv.ParseBool(s.defaultValue); err != nil {
				return errors.Wrap(err, "wrong default value for Bool type flag")
			}
		}
		flag := NewBoolFlag(s.name, s.help, value)
		field.SetBool(flag.Value())
		clause = flag.cliAndEnvFlag

	case field.Kind() == reflect.Slice:
		if field.Type() != stringSliceType {
			return errors.Errorf("%s type not supported for a slice flag", field.Type())
		}
		var defaults StringListVar
		if s.defaultValue != "" {
			if err := defaults.Set(s.defaultValue); err != nil {
				return errors.Wrap(err, "wrong default value for String Slice type flag")
			}
		}
		flag := NewSliceFlag(s.name, s.help, defaults...)
		field.Set(reflect.ValueOf(flag.Value()))
		clause = flag.cliAndEnvFlag

	default:
		return errors.Errorf("%s type not supported for a flag", field.Type())
	}

	if s.required {
		clause.Required()
	}
	return nil
}

func isInt(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
