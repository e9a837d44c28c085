package conf

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/camelcase"
	"github.com/pkg/errors"
)

const (
	// Tag for specifying the help description of the field. [Required]
	helpTag = "help"
	// Tag for specifying default value for field. [Optional]
	defaultTag = "default"
	// Tag for overriding the name of the field. [Optional]
	nameTag = "name"
	// Special field name indicating prefix for all flags in struct.
	prefixFieldName = "flagPrefix"
)

// Process exposes every tagged field of the given struct pointer as a flag
// and fills the field with the flag value. Before flags are parsed fields
// get their default values.
func Process(data interface{}) error {
	value := reflect.ValueOf(data)
	if value.Kind() != reflect.Ptr {
		return errors.Errorf("argument needs to be a pointer to struct, got %s", value.Kind())
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return errors.Errorf("argument needs to be a pointer to struct, got %s", value.Kind())
	}

	typeOfData := value.Type()
	prefix := ""
	if prefixField := value.FieldByName(prefixFieldName); prefixField.IsValid() && prefixField.Kind() == reflect.String {
		prefix = prefixField.String()
	}

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}
		// Embedded structs are not processed.
		if typeOfData.Field(i).Anonymous && field.Kind() == reflect.Struct {
			continue
		}

		err := processField(prefix, field, typeOfData.Field(i))
		if err != nil {
			return errors.Wrapf(err, "field %q", typeOfData.Field(i).Name)
		}
	}
	return nil
}

// nameFromFieldName turns SomeName into some_name.
func nameFromFieldName(name string) string {
	words := []string{}
	for _, word := range camelcase.Split(name) {
		if word == "_" {
			continue
		}
		words = append(words, strings.ToLower(word))
	}
	return strings.Join(words, "_")
}

func processField(prefix string, field reflect.Value, fieldStruct reflect.StructField) error {
	help := fieldStruct.Tag.Get(helpTag)
	if help == "" {
		if fieldStruct.Tag.Get(nameTag) != "" || fieldStruct.Tag.Get(defaultTag) != "" {
			return errors.New("required help tag is missing")
		}
		// Untagged fields are left alone.
		return nil
	}

	name := fieldStruct.Tag.Get(nameTag)
	if name == "" {
		name = fieldStruct.Name
	}
	name = nameFromFieldName(prefix + name)
	defaultValue := fieldStruct.Tag.Get(defaultTag)

	switch field.Kind() {
	case reflect.String:
		field.SetString(NewStringFlag(name, help, defaultValue).Value())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			var durationDefault time.Duration
			if defaultValue != "" {
				var err error
				durationDefault, err = time.ParseDuration(defaultValue)
				if err != nil {
					return errors.Wrap(err, "wrong default value for duration flag")
				}
			}
			field.SetInt(int64(NewDurationFlag(name, help, durationDefault).Value()))
			return nil
		}

		var intDefault int
		if defaultValue != "" {
			var err error
			intDefault, err = strconv.Atoi(defaultValue)
			if err != nil {
				return errors.Wrap(err, "wrong default value for int flag")
			}
		}
		field.SetInt(int64(NewIntFlag(name, help, intDefault).Value()))
	case reflect.Bool:
		var boolDefault bool
		if defaultValue != "" {
			var err error
			boolDefault, err = strconv.ParseBool(defaultValue)
			if err != nil {
				return errors.Wrap(err, "wrong default value for bool flag")
			}
		}
		field.SetBool(NewBoolFlag(name, help, boolDefault).Value())
	case reflect.Slice:
		if field.Type() != reflect.TypeOf([]string(nil)) {
			return errors.Errorf("%s type not supported for a slice flag", field.Type())
		}
		var sliceDefault StringListValue
		if defaultValue != "" {
			_ = sliceDefault.Set(defaultValue)
		}
		values := NewSliceFlag(name, help, sliceDefault...).Value()
		field.Set(reflect.ValueOf(append([]string{}, values...)))
	default:
		return errors.Errorf("%s type not supported for a flag", field.Type())
	}
	return nil
}
