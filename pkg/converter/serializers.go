package converter

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm/schema"
)

// RegisterDefaults registers every converter in this package under its
// canonical serializer name. Safe to call once at startup; GORM keeps the
// registry globally.
func RegisterDefaults() {
	schema.RegisterSerializer("gzipjson", GzipJSONSerializer{})
	schema.RegisterSerializer("trimstring", TrimStringSerializer{})
	schema.RegisterSerializer("unixtime", UnixTimeSerializer{})
}

// GzipJSONSerializer stores a field as gzip-compressed JSON.
type GzipJSONSerializer struct{}

// Scan implements schema.SerializerInterface.
func (GzipJSONSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	fieldValue := reflect.New(field.FieldType)

	if dbValue != nil {
		var compressed []byte
		switch v := dbValue.(type) {
		case []byte:
			compressed = v
		case string:
			compressed = []byte(v)
		default:
			return fmt.Errorf("converter: gzipjson: unsupported column value %#v", dbValue)
		}

		if len(compressed) > 0 {
			reader, err := gzip.NewReader(bytes.NewReader(compressed))
			if err != nil {
				return fmt.Errorf("converter: gzipjson: %w", err)
			}
			raw, err := io.ReadAll(reader)
			if err != nil {
				return fmt.Errorf("converter: gzipjson: %w", err)
			}
			if err := reader.Close(); err != nil {
				return fmt.Errorf("converter: gzipjson: %w", err)
			}
			if err := json.Unmarshal(raw, fieldValue.Interface()); err != nil {
				return fmt.Errorf("converter: gzipjson: %w", err)
			}
		}
	}

	field.ReflectValueOf(ctx, dst).Set(fieldValue.Elem())
	return nil
}

// Value implements schema.SerializerValuerInterface.
func (GzipJSONSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	raw, err := json.Marshal(fieldValue)
	if err != nil {
		return nil, fmt.Errorf("converter: gzipjson: %w", err)
	}

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(raw); err != nil {
		return nil, fmt.Errorf("converter: gzipjson: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("converter: gzipjson: %w", err)
	}
	return buf.Bytes(), nil
}

// TrimStringSerializer trims surrounding whitespace from string fields in
// both directions, normalizing values that arrive from forms or legacy rows.
type TrimStringSerializer struct{}

// Scan implements schema.SerializerInterface.
func (TrimStringSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var value string
	switch v := dbValue.(type) {
	case nil:
	case string:
		value = v
	case []byte:
		value = string(v)
	default:
		return fmt.Errorf("converter: trimstring: unsupported column value %#v", dbValue)
	}

	field.ReflectValueOf(ctx, dst).SetString(strings.TrimSpace(value))
	return nil
}

// Value implements schema.SerializerValuerInterface.
func (TrimStringSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	s, ok := fieldValue.(string)
	if !ok {
		return nil, fmt.Errorf("converter: trimstring: field %s is not a string", field.Name)
	}
	return strings.TrimSpace(s), nil
}

// UnixTimeSerializer stores time.Time fields as epoch seconds in an integer
// column. Values come back normalized to UTC.
type UnixTimeSerializer struct{}

// Scan implements schema.SerializerInterface.
func (UnixTimeSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	fieldValue := reflect.New(field.FieldType)

	if dbValue != nil {
		var seconds int64
		switch v := dbValue.(type) {
		case int64:
			seconds = v
		case int:
			seconds = int64(v)
		case []byte:
			parsed, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return fmt.Errorf("converter: unixtime: %w", err)
			}
			seconds = parsed
		case string:
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("converter: unixtime: %w", err)
			}
			seconds = parsed
		default:
			return fmt.Errorf("converter: unixtime: unsupported column value %#v", dbValue)
		}

		t := time.Unix(seconds, 0).UTC()
		switch fieldValue.Elem().Interface().(type) {
		case time.Time:
			fieldValue.Elem().Set(reflect.ValueOf(t))
		case *time.Time:
			fieldValue.Elem().Set(reflect.ValueOf(&t))
		default:
			return fmt.Errorf("converter: unixtime: field %s is not a time.Time", field.Name)
		}
	}

	field.ReflectValueOf(ctx, dst).Set(fieldValue.Elem())
	return nil
}

// Value implements schema.SerializerValuerInterface.
func (UnixTimeSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch v := fieldValue.(type) {
	case time.Time:
		return v.Unix(), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Unix(), nil
	default:
		return nil, fmt.Errorf("converter: unixtime: field %s is not a time.Time", field.Name)
	}
}
