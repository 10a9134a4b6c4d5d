package models

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Literaler is implemented by values that know their own SurrealQL literal form.
type Literaler interface {
	SurrealQL() string
}

// FormatLiteral renders v as a SurrealQL literal suitable for interpolation
// into statement text.
//
// Strings are quoted, numbers and booleans are bare, floats carry the f suffix,
// times become datetime literals and durations use SurrealQL units. Slices
// render as arrays and string-keyed maps as objects with sorted keys. Structs
// render as objects keyed by their json field names, each field rendered by
// FormatLiteral.
func FormatLiteral(v any) (string, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "NULL", nil
	}

	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case Literaler:
		return val.SurrealQL(), nil
	case string:
		return QuoteString(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.FormatInt(int64(val), 10), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float32:
		return formatFloat(float64(val)), nil
	case float64:
		return formatFloat(val), nil
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return val.String(), nil
		}
		f, err := val.Float64()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		return formatFloat(f), nil
	case time.Time:
		return "d'" + val.UTC().Format(time.RFC3339Nano) + "'", nil
	case time.Duration:
		return Duration(val).String(), nil
	case []byte:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}

	return formatReflect(reflect.ValueOf(v))
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64) + "f"
}

func formatReflect(rv reflect.Value) (string, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "NULL", nil
		}
		return FormatLiteral(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]string, rv.Len())
		for i := range items {
			item, err := FormatLiteral(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			items[i] = item
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return "", fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
		}
		fields := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = iter.Value().Interface()
		}
		return formatObject(fields)
	case reflect.Struct:
		return formatStruct(rv)
	// Named scalar types, e.g. type Status string.
	case reflect.String:
		return FormatLiteral(rv.String())
	case reflect.Bool:
		return FormatLiteral(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FormatLiteral(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FormatLiteral(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return FormatLiteral(rv.Float())
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedValue, rv.Kind())
}

func formatObject(fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "{}", nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		lit, err := FormatLiteral(fields[k])
		if err != nil {
			return "", fmt.Errorf("field %s: %w", k, err)
		}
		parts[i] = escapeKey(k) + ": " + lit
	}
	return "{ " + strings.Join(parts, ", ") + " }", nil
}

// formatStruct renders the exported fields as an object. json struct tags
// decide field names and omitted fields; exported embedded structs are
// flattened.
// Types with their own MarshalJSON go through their JSON encoding.
func formatStruct(rv reflect.Value) (string, error) {
	if rv.Type().Implements(jsonMarshaler) {
		return formatJSON(rv.Interface())
	}

	fields := make(map[string]any)
	collectFields(rv, fields)
	return formatObject(fields)
}

var jsonMarshaler = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

func collectFields(rv reflect.Value, fields map[string]any) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)

		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			collectFields(fv, fields)
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.Contains(","+opts+",", ",omitempty,") && fv.IsZero() {
			continue
		}
		fields[name] = fv.Interface()
	}
}

func formatJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	return FormatLiteral(decoded)
}
