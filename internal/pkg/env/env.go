// Package env maps environment variables onto configuration structs.
package env

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
)

// OverrideStruct sets every field tagged `env:"NAME"` from the environment
// variable NAME when it is set. Nested structs and pointers to structs are
// walked recursively; nil struct pointers are allocated.
func OverrideStruct(v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("env: OverrideStruct expects a non-nil pointer to a struct, got %T", v)
	}

	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("env: OverrideStruct expects a pointer to a struct, got %T", v)
	}

	return overrideFields(val)
}

func overrideFields(val reflect.Value) error {
	typ := val.Type()

	for i := range typ.NumField() {
		field := typ.Field(i)
		fieldValue := val.Field(i)

		if !field.IsExported() {
			continue
		}

		switch {
		case fieldValue.Kind() == reflect.Struct:
			if err := overrideFields(fieldValue); err != nil {
				return fmt.Errorf("%s: %w", field.Name, err)
			}
			continue
		case fieldValue.Kind() == reflect.Ptr && fieldValue.Type().Elem().Kind() == reflect.Struct:
			if fieldValue.IsNil() {
				fieldValue.Set(reflect.New(fieldValue.Type().Elem()))
			}
			if err := overrideFields(fieldValue.Elem()); err != nil {
				return fmt.Errorf("%s: %w", field.Name, err)
			}
			continue
		}

		envVarName := field.Tag.Get("env")
		if envVarName == "" {
			continue
		}

		envVarValue, ok := os.LookupEnv(envVarName)
		if !ok {
			continue
		}

		if err := setField(fieldValue, envVarValue); err != nil {
			return fmt.Errorf("env: field %s from %s: %w", field.Name, envVarName, err)
		}
		slog.Debug("Config overridden from environment.", "env", envVarName, "field", field.Name)
	}

	return nil
}

func setField(fieldValue reflect.Value, s string) error {
	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, fieldValue.Type().Bits())
		if err != nil {
			return err
		}
		fieldValue.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, fieldValue.Type().Bits())
		if err != nil {
			return err
		}
		fieldValue.SetUint(u)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fieldValue.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", fieldValue.Kind())
	}
	return nil
}

// Env returns the value of the environment variable named by the key.
// If the variable is not present in the environment, it returns the provided fallback value.
func Env(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
