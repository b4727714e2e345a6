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

import "fmt"

// Argument is a value bound to a statement parameter, either by position
// (`?`) or by name (`:name`, `@name`, `$name`).
type Argument struct {
	name  string
	named bool
	value Value
}

// Anonymous binds v to the next positional parameter.
func Anonymous(v Value) Argument {
	return Argument{value: v}
}

// Named binds v to the parameter called name. The name is sent verbatim, so
// it should carry the prefix used in the SQL text.
func Named(name string, v Value) Argument {
	return Argument{name: name, named: true, value: v}
}

// IsNamed reports whether the argument is bound by name.
func (a Argument) IsNamed() bool {
	return a.named
}

// Name returns the parameter name, or "" for anonymous arguments.
func (a Argument) Name() string {
	return a.name
}

// Value returns the bound value. A zero Argument holds Null.
func (a Argument) Value() Value {
	if a.value == nil {
		return Null{}
	}
	return a.value
}

type wireNamedArg struct {
	Name  string    `json:"name"`
	Value wireValue `json:"value"`
}

// partitionArguments splits args into the two wire lists. Each list keeps
// the relative order its members had in args.
func partitionArguments(args []Argument) ([]wireValue, []wireNamedArg, error) {
	anonymous := make([]wireValue, 0, len(args))
	named := make([]wireNamedArg, 0)
	for i, arg := range args {
		value, err := encodeValue(arg.Value())
		if err != nil {
			return nil, nil, fmt.Errorf("argument %d: %w", i, err)
		}
		if arg.named {
			named = append(named, wireNamedArg{Name: arg.name, Value: value})
			continue
		}
		anonymous = append(anonymous, value)
	}
	return anonymous, named, nil
}
