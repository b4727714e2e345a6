/*
 * Copyright 2024 Hrana SDK Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package hrana

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ValueKind identifies which case of Value is populated.
type ValueKind int

const (
	KindInteger ValueKind = iota
	KindReal
	KindBoolean
	KindText
	KindDatetime
	KindBlob
	KindNull
)

var valueKindNames = [...]string{
	KindInteger:  "integer",
	KindReal:     "real",
	KindBoolean:  "boolean",
	KindText:     "text",
	KindDatetime: "datetime",
	KindBlob:     "blob",
	KindNull:     "null",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindNames) {
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
	return valueKindNames[k]
}

// Value is a single scalar, either bound as a statement argument or read
// back from a result cell.
//
// The set of implementations is closed: Integer, Real, Boolean, Text,
// Datetime, Blob and Null.
type Value interface {
	// Kind reports which case of the union this value is.
	Kind() ValueKind

	isValue()
}

// Integer is a signed 64-bit integer value.
type Integer int64

// Real is a 64-bit floating point value.
type Real float64

// Boolean is a boolean value. It travels on the wire as integer 0 or 1.
type Boolean bool

// Text is a UTF-8 string value.
type Text string

// Datetime is a date/time value kept in its textual form. It is not parsed
// or validated.
type Datetime string

// Blob is a binary value carried as standard base64 text.
type Blob string

// Null is the SQL NULL value.
type Null struct{}

func (Integer) Kind() ValueKind  { return KindInteger }
func (Real) Kind() ValueKind     { return KindReal }
func (Boolean) Kind() ValueKind  { return KindBoolean }
func (Text) Kind() ValueKind     { return KindText }
func (Datetime) Kind() ValueKind { return KindDatetime }
func (Blob) Kind() ValueKind     { return KindBlob }
func (Null) Kind() ValueKind     { return KindNull }

func (Integer) isValue()  {}
func (Real) isValue()     {}
func (Boolean) isValue()  {}
func (Text) isValue()     {}
func (Datetime) isValue() {}
func (Blob) isValue()     {}
func (Null) isValue()     {}

// BlobFromBytes base64-encodes b into a Blob.
func BlobFromBytes(b []byte) Blob {
	return Blob(base64.StdEncoding.EncodeToString(b))
}

// Bytes decodes the base64 payload.
func (b Blob) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(string(b))
}

// ValueOf converts a Go scalar into a Value.
//
// Byte slices become Blob, time.Time becomes an RFC 3339 Datetime and nil
// becomes Null. Members of the Value union are returned as is.
func ValueOf(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Integer, Real, Boolean, Text, Datetime, Blob, Null:
		return v.(Value), nil
	case int:
		return Integer(v), nil
	case int8:
		return Integer(v), nil
	case int16:
		return Integer(v), nil
	case int32:
		return Integer(v), nil
	case int64:
		return Integer(v), nil
	case uint8:
		return Integer(v), nil
	case uint16:
		return Integer(v), nil
	case uint32:
		return Integer(v), nil
	case float32:
		return Real(v), nil
	case float64:
		return Real(v), nil
	case bool:
		return Boolean(v), nil
	case string:
		return Text(v), nil
	case []byte:
		if v == nil {
			return Null{}, nil
		}
		return BlobFromBytes(v), nil
	case time.Time:
		return Datetime(v.Format(time.RFC3339Nano)), nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// wireValue is the JSON shape of a value on both sides of the pipeline.
//
// Numbers are carried as strings in Value so 64-bit integers survive
// JSON decoders that only know float64.
type wireValue struct {
	Type   string  `json:"type"`
	Value  *string `json:"value,omitempty"`
	Base64 *string `json:"base64,omitempty"`
}

const (
	wireTypeInteger = "integer"
	wireTypeFloat   = "float"
	wireTypeText    = "text"
	wireTypeBlob    = "blob"
	wireTypeNull    = "null"
)

// encodeValue fails on pointers to value types, which satisfy Value through
// their method sets but are not part of the union, and on non-finite reals.
func encodeValue(v Value) (wireValue, error) {
	str := func(typ, s string) wireValue {
		return wireValue{Type: typ, Value: &s}
	}

	switch v := v.(type) {
	case Integer:
		return str(wireTypeInteger, strconv.FormatInt(int64(v), 10)), nil
	case Real:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return wireValue{}, fmt.Errorf("real value %v is not finite", f)
		}
		return str(wireTypeFloat, strconv.FormatFloat(f, 'g', -1, 64)), nil
	case Boolean:
		if v {
			return str(wireTypeInteger, "1"), nil
		}
		return str(wireTypeInteger, "0"), nil
	case Text:
		return str(wireTypeText, string(v)), nil
	case Datetime:
		return str(wireTypeText, string(v)), nil
	case Blob:
		payload := string(v)
		return wireValue{Type: wireTypeBlob, Base64: &payload}, nil
	case Null, nil:
		return wireValue{Type: wireTypeNull}, nil
	default:
		return wireValue{}, fmt.Errorf("unsupported value: %T", v)
	}
}
