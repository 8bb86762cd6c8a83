package routectl

import (
	"encoding"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// PathValues reads the named path parameters in one pass. Generated adapters
// bind all Path parameters of a route through a single call.
func PathValues(c RequestContext, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		v := c.Param(name)
		if v == "" {
			return nil, ErrBadRequest(fmt.Sprintf("missing path parameter %q", name), nil)
		}
		values[i] = v
	}
	return values, nil
}

// ParseString returns the parameter as-is
func ParseString(raw string) (string, error) {
	return raw, nil
}

// ParseInt parses a string parameter to int
func ParseInt(raw string) (int, error) {
	return strconv.Atoi(raw)
}

// ParseInt8 parses a string parameter to int8
func ParseInt8(raw string) (int8, error) {
	v, err := strconv.ParseInt(raw, 10, 8)
	return int8(v), err
}

// ParseInt16 parses a string parameter to int16
func ParseInt16(raw string) (int16, error) {
	v, err := strconv.ParseInt(raw, 10, 16)
	return int16(v), err
}

// ParseInt32 parses a string parameter to int32
func ParseInt32(raw string) (int32, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	return int32(v), err
}

// ParseInt64 parses a string parameter to int64
func ParseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// ParseUint parses a string parameter to uint
func ParseUint(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 0)
	return uint(v), err
}

// ParseUint8 parses a string parameter to uint8
func ParseUint8(raw string) (uint8, error) {
	v, err := strconv.ParseUint(raw, 10, 8)
	return uint8(v), err
}

// ParseUint16 parses a string parameter to uint16
func ParseUint16(raw string) (uint16, error) {
	v, err := strconv.ParseUint(raw, 10, 16)
	return uint16(v), err
}

// ParseUint32 parses a string parameter to uint32
func ParseUint32(raw string) (uint32, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	return uint32(v), err
}

// ParseUint64 parses a string parameter to uint64
func ParseUint64(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// ParseFloat32 parses a string parameter to float32
func ParseFloat32(raw string) (float32, error) {
	v, err := strconv.ParseFloat(raw, 32)
	return float32(v), err
}

// ParseFloat64 parses a string parameter to float64
func ParseFloat64(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

// ParseBool parses a string parameter to bool
func ParseBool(raw string) (bool, error) {
	return strconv.ParseBool(raw)
}

// ParseUUID parses a string parameter to uuid.UUID
func ParseUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// ParseText decodes a parameter into any type whose pointer implements
// encoding.TextUnmarshaler.
func ParseText[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](raw string) (T, error) {
	var v T
	err := PT(&v).UnmarshalText([]byte(raw))
	return v, err
}
