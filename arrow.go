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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ToArrowRecord converts the rows into a single Arrow record.
//
// INTEGER columns become int64, REAL, NUMERIC and DECIMAL become float64,
// BOOLEAN becomes bool, TEXT and DATETIME become utf8 and BLOB becomes
// binary holding the decoded bytes. Columns whose type is not one of those,
// as in a hand-built response, take the type of their first non-null value. The caller must Release the record.
func (r ExecuteResponse) ToArrowRecord(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	fields := make([]arrow.Field, 0, len(r.Columns))
	for i, col := range r.Columns {
		fields = append(fields, arrow.Field{
			Name:     col.Name,
			Type:     r.arrowType(i),
			Nullable: true,
		})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i, row := range r.Rows {
		for j, v := range row.Values {
			if err := appendArrowValue(b.Field(j), v); err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, r.Columns[j].Name, err)
			}
		}
	}
	return b.NewRecord(), nil
}

func (r ExecuteResponse) arrowType(col int) arrow.DataType {
	if declType, ok := ParseDeclType(r.Columns[col].DeclType); ok {
		switch declType {
		case DeclTypeInteger:
			return arrow.PrimitiveTypes.Int64
		case DeclTypeReal, DeclTypeNumeric, DeclTypeDecimal:
			return arrow.PrimitiveTypes.Float64
		case DeclTypeBoolean:
			return arrow.FixedWidthTypes.Boolean
		case DeclTypeText, DeclTypeDatetime:
			return arrow.BinaryTypes.String
		case DeclTypeBlob:
			return arrow.BinaryTypes.Binary
		}
	}

	for _, row := range r.Rows {
		switch row.Values[col].Kind() {
		case KindInteger:
			return arrow.PrimitiveTypes.Int64
		case KindReal:
			return arrow.PrimitiveTypes.Float64
		case KindBoolean:
			return arrow.FixedWidthTypes.Boolean
		case KindText, KindDatetime:
			return arrow.BinaryTypes.String
		case KindBlob:
			return arrow.BinaryTypes.Binary
		case KindNull:
			continue
		}
	}
	return arrow.BinaryTypes.String
}

func appendArrowValue(b array.Builder, v Value) error {
	if _, ok := v.(Null); ok {
		b.AppendNull()
		return nil
	}

	switch b := b.(type) {
	case *array.Int64Builder:
		if n, ok := v.(Integer); ok {
			b.Append(int64(n))
			return nil
		}
	case *array.Float64Builder:
		switch n := v.(type) {
		case Real:
			b.Append(float64(n))
			return nil
		case Integer:
			b.Append(float64(n))
			return nil
		}
	case *array.BooleanBuilder:
		if x, ok := v.(Boolean); ok {
			b.Append(bool(x))
			return nil
		}
	case *array.StringBuilder:
		switch s := v.(type) {
		case Text:
			b.Append(string(s))
			return nil
		case Datetime:
			b.Append(string(s))
			return nil
		}
	case *array.BinaryBuilder:
		if blob, ok := v.(Blob); ok {
			data, err := blob.Bytes()
			if err != nil {
				return err
			}
			b.Append(data)
			return nil
		}
	}
	return fmt.Errorf("cannot append %s value to %T", v.Kind(), b)
}
