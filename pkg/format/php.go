package format

import (
	"bytes"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxPHPDepth bounds nesting so cyclic pointers fail instead of recursing forever.
const maxPHPDepth = 128

// phpIntKey matches strings PHP stores as integer array keys.
var phpIntKey = regexp.MustCompile(`^(0|-?[1-9][0-9]*)$`)

// PHP encodes results in the PHP serialize() format.
//
// Sequences become list arrays, maps and structs become associative
// arrays. Map keys are emitted in sorted order; keys that PHP would treat
// as integers are emitted as integers. Struct fields follow their json
// tag names.
type PHP struct{}

// Name implements Encoder.
func (PHP) Name() string { return "php" }

// ContentType implements Encoder.
func (PHP) ContentType() string { return "text/plain" }

// Encode implements Encoder.
func (PHP) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := phpValue(&buf, reflect.ValueOf(v), 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

func phpValue(buf *bytes.Buffer, v reflect.Value, depth int) error {
	if depth > maxPHPDepth {
		return fmt.Errorf("php: value nested deeper than %d levels", maxPHPDepth)
	}
	if !v.IsValid() {
		buf.WriteString("N;")
		return nil
	}

	if v.Type().Implements(textMarshalerType) && !(v.Kind() == reflect.Ptr && v.IsNil()) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return err
		}
		phpString(buf, string(text))
		return nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			buf.WriteString("N;")
			return nil
		}
		return phpValue(buf, v.Elem(), depth+1)

	case reflect.Bool:
		if v.Bool() {
			buf.WriteString("b:1;")
		} else {
			buf.WriteString("b:0;")
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fmt.Fprintf(buf, "i:%d;", v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			fmt.Fprintf(buf, "d:%s;", phpFloat(float64(u)))
		} else {
			fmt.Fprintf(buf, "i:%d;", u)
		}

	case reflect.Float32, reflect.Float64:
		fmt.Fprintf(buf, "d:%s;", phpFloat(v.Float()))

	case reflect.String:
		phpString(buf, v.String())

	case reflect.Slice:
		if v.IsNil() {
			buf.WriteString("N;")
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			phpString(buf, string(v.Bytes()))
			return nil
		}
		return phpList(buf, v, depth)

	case reflect.Array:
		return phpList(buf, v, depth)

	case reflect.Map:
		if v.IsNil() {
			buf.WriteString("N;")
			return nil
		}
		return phpMap(buf, v, depth)

	case reflect.Struct:
		return phpStruct(buf, v, depth)

	default:
		return fmt.Errorf("php: unsupported type %s", v.Type())
	}
	return nil
}

func phpString(buf *bytes.Buffer, s string) {
	fmt.Fprintf(buf, "s:%d:\"%s\";", len(s), s)
}

// phpFloat formats f the way PHP prints doubles in serialize().
func phpFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}

	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-4 && abs < 1e15) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	if n >= 0 {
		return fmt.Sprintf("%sE+%d", mantissa, n)
	}
	return fmt.Sprintf("%sE%d", mantissa, n)
}

func phpList(buf *bytes.Buffer, v reflect.Value, depth int) error {
	n := v.Len()
	fmt.Fprintf(buf, "a:%d:{", n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(buf, "i:%d;", i)
		if err := phpValue(buf, v.Index(i), depth+1); err != nil {
			return err
		}
	}
	buf.WriteString("}")
	return nil
}

type phpEntry struct {
	key   string
	isInt bool
	ikey  int64
	value reflect.Value
}

func phpMap(buf *bytes.Buffer, v reflect.Value, depth int) error {
	entries := make([]phpEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		e, err := phpKey(iter.Key())
		if err != nil {
			return err
		}
		e.value = iter.Value()
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.isInt && b.isInt {
			return a.ikey < b.ikey
		}
		if a.isInt != b.isInt {
			return a.isInt
		}
		return a.key < b.key
	})

	fmt.Fprintf(buf, "a:%d:{", len(entries))
	for _, e := range entries {
		writePHPKey(buf, e)
		if err := phpValue(buf, e.value, depth+1); err != nil {
			return err
		}
	}
	buf.WriteString("}")
	return nil
}

func phpKey(k reflect.Value) (phpEntry, error) {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		s := k.String()
		if phpIntKey.MatchString(s) {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return phpEntry{key: s, isInt: true, ikey: n}, nil
			}
		}
		return phpEntry{key: s}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := k.Int()
		return phpEntry{key: strconv.FormatInt(n, 10), isInt: true, ikey: n}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := k.Uint()
		if u > math.MaxInt64 {
			return phpEntry{key: strconv.FormatUint(u, 10)}, nil
		}
		return phpEntry{key: strconv.FormatUint(u, 10), isInt: true, ikey: int64(u)}, nil
	case reflect.Bool:
		if k.Bool() {
			return phpEntry{key: "1", isInt: true, ikey: 1}, nil
		}
		return phpEntry{key: "0", isInt: true, ikey: 0}, nil
	default:
		return phpEntry{}, fmt.Errorf("php: unsupported map key type %s", k.Type())
	}
}

func writePHPKey(buf *bytes.Buffer, e phpEntry) {
	if e.isInt {
		fmt.Fprintf(buf, "i:%d;", e.ikey)
		return
	}
	phpString(buf, e.key)
}

func phpStruct(buf *bytes.Buffer, v reflect.Value, depth int) error {
	t := v.Type()
	var entries []phpEntry
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonFieldName(f)
		if skip {
			continue
		}
		fv := v.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		entries = append(entries, phpEntry{key: name, value: fv})
	}

	fmt.Fprintf(buf, "a:%d:{", len(entries))
	for _, e := range entries {
		phpString(buf, e.key)
		if err := phpValue(buf, e.value, depth+1); err != nil {
			return err
		}
	}
	buf.WriteString("}")
	return nil
}

// jsonFieldName reports the key a struct field is encoded under.
func jsonFieldName(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
