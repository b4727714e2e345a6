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
	"strconv"
	"strings"
)

// DeclType is a declared column type the decoder knows how to read.
type DeclType string

const (
	DeclTypeInteger  DeclType = "INTEGER"
	DeclTypeReal     DeclType = "REAL"
	DeclTypeNumeric  DeclType = "NUMERIC"
	DeclTypeDecimal  DeclType = "DECIMAL"
	DeclTypeBoolean  DeclType = "BOOLEAN"
	DeclTypeText     DeclType = "TEXT"
	DeclTypeDatetime DeclType = "DATETIME"
	DeclTypeBlob     DeclType = "BLOB"
)

// ParseDeclType normalizes a declared column type. Matching is
// case-insensitive and any DECIMAL(p,s) variant maps to DeclTypeDecimal.
func ParseDeclType(s string) (DeclType, bool) {
	t := DeclType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case DeclTypeInteger, DeclTypeReal, DeclTypeNumeric, DeclTypeBoolean,
		DeclTypeText, DeclTypeDatetime, DeclTypeBlob:
		return t, true
	}
	if strings.HasPrefix(string(t), string(DeclTypeDecimal)) {
		return DeclTypeDecimal, true
	}
	return "", false
}

// coerceCell turns a wire cell into a Value using the column's declared
// type. A null cell is Null whatever the column says.
func coerceCell(col Column, cell wireCell) (Value, error) {
	if cell.Type == wireTypeNull {
		return Null{}, nil
	}

	declType, ok := ParseDeclType(col.DeclType)
	if !ok {
		return nil, &UnknownColumnTypeError{Column: col.Name, DeclType: col.DeclType}
	}

	text := cellText(cell)
	switch declType {
	case DeclTypeInteger:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, malformed(col, text, err)
		}
		return Integer(n), nil
	case DeclTypeReal, DeclTypeNumeric, DeclTypeDecimal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, malformed(col, text, err)
		}
		return Real(f), nil
	case DeclTypeBoolean:
		return Boolean(text == "1"), nil
	case DeclTypeText:
		return Text(text), nil
	case DeclTypeDatetime:
		return Datetime(text), nil
	case DeclTypeBlob:
		if cell.Base64 == nil {
			return Blob(""), nil
		}
		return Blob(*cell.Base64), nil
	default:
		return nil, &UnknownColumnTypeError{Column: col.Name, DeclType: col.DeclType}
	}
}

func cellText(cell wireCell) string {
	if cell.Value == nil {
		return ""
	}
	return *cell.Value
}

func malformed(col Column, text string, err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		err = ne.Err
	}
	return &MalformedCellError{Column: col.Name, DeclType: col.DeclType, Value: text, Err: err}
}
