// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package convert adapts ordinary Go values into a [uritemplate.Values]
// using reflection, for callers who want to populate a Values from an
// existing map or struct instead of calling [uritemplate.Item],
// [uritemplate.List], and [uritemplate.AssociativeArray] directly.
//
// This is deliberately outside the uritemplate package itself: the core
// expansion engine never imports reflect, so a parsed [uritemplate.Template]
// can be expanded against Values built by hand, by this package, or by any
// other adapter a caller supplies.
package convert

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rfc6570/uritemplate"
)

// Values builds a [uritemplate.Values] from data, which must be a map with
// string keys, a struct, or a pointer to either. Each top-level entry
// becomes one variable binding, interpreted as follows:
//
//  1. If the entry implements [encoding.TextMarshaler], its MarshalText
//     result is used as an Item.
//  2. If the entry implements [fmt.Stringer] or [fmt.Formatter],
//     fmt.Sprint is used as an Item.
//  3. If the entry is a slice or array, it becomes a List.
//  4. If the entry is a map with string keys or a struct, it becomes an
//     AssociativeArray.
//  5. Otherwise, fmt.Sprint on the entry is used as an Item.
//
// Struct fields follow the same tagging convention as the entries
// themselves: a field's pair name defaults to the field name with its
// first letter lowercased, can be overridden with a `uritemplate:"name"`
// tag, and the field is skipped entirely with `uritemplate:"-"`.
func Values(data any) (*uritemplate.Values, error) {
	values := uritemplate.NewValues()
	root, _ := followIndirection(reflect.ValueOf(data))
	if !root.IsValid() {
		return values, nil
	}

	if root.Kind() == reflect.Map && root.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("convert: map key type %v is not string-kinded", root.Type().Key())
	}
	if root.Kind() != reflect.Map && root.Kind() != reflect.Struct {
		return nil, fmt.Errorf("convert: data must be a map, struct, or pointer to either, got %v", root.Kind())
	}

	var err error
	iterate(root, func(name string, elem reflect.Value) bool {
		var v uritemplate.Value
		v, err = toValue(elem)
		if err != nil {
			return false
		}
		values.Insert(name, v)
		return true
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// toValue converts a single top-level entry into a uritemplate.Value.
func toValue(v reflect.Value) (uritemplate.Value, error) {
	elem, scalar := followIndirection(v)
	if !elem.IsValid() {
		return uritemplate.Value{}, nil
	}

	switch {
	case scalar:
		s, err := coerceString(elem)
		return uritemplate.Item(s), err
	case elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array:
		items := make([]string, 0, elem.Len())
		for i, n := 0, elem.Len(); i < n; i++ {
			item, _ := followIndirection(elem.Index(i))
			if !item.IsValid() {
				continue
			}
			s, err := coerceString(item)
			if err != nil {
				return uritemplate.Value{}, err
			}
			items = append(items, s)
		}
		return uritemplate.List(items...), nil
	case (elem.Kind() == reflect.Map && elem.Type().Key().Kind() == reflect.String) || elem.Kind() == reflect.Struct:
		var pairs []uritemplate.Pair
		var err error
		iterate(elem, func(name string, mv reflect.Value) bool {
			inner, _ := followIndirection(mv)
			if !inner.IsValid() {
				return true
			}
			var s string
			s, err = coerceString(inner)
			if err != nil {
				return false
			}
			pairs = append(pairs, uritemplate.Pair{Key: name, Value: s})
			return true
		})
		if err != nil {
			return uritemplate.Value{}, err
		}
		return uritemplate.AssociativeArray(pairs...), nil
	default:
		s, err := coerceString(elem)
		return uritemplate.Item(s), err
	}
}

func coerceString(val reflect.Value) (string, error) {
	if !val.IsValid() {
		return "", fmt.Errorf("convert: undefined value")
	}
	typ := val.Type()
	switch {
	case typ.Implements(textMarshalerType):
		data, err := val.Interface().(encoding.TextMarshaler).MarshalText()
		return string(data), err
	case typ.Kind() == reflect.String && !(typ.Implements(stringerType) || typ.Implements(errorType) || typ.Implements(formatterType)):
		return val.String(), nil
	default:
		return fmt.Sprint(val.Interface()), nil
	}
}

// followIndirection dereferences pointers and interfaces until it reaches
// a concrete value, or a value that should be treated as a scalar because
// it implements one of the string-coercion interfaces.
func followIndirection(v reflect.Value) (_ reflect.Value, scalar bool) {
	for {
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		typ := v.Type()
		k := typ.Kind()
		switch {
		case typ.Implements(stringerType) || typ.Implements(errorType) || typ.Implements(textMarshalerType) || typ.Implements(formatterType):
			return v, true
		case k != reflect.Pointer && k != reflect.Interface:
			return v, false
		}
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
}

func iterate(composite reflect.Value, f func(name string, v reflect.Value) bool) {
	switch composite.Kind() {
	case reflect.Map:
		keys := composite.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})
		for _, k := range keys {
			if !f(k.String(), composite.MapIndex(k)) {
				return
			}
		}
	case reflect.Struct:
		sd := describeStruct(composite.Type())
		for i, name := range sd.fieldNames {
			if name == "" {
				continue
			}
			if !f(name, composite.Field(i)) {
				return
			}
		}
	}
}

var descriptors sync.Map // reflect.Type -> structDescriptor

type structDescriptor struct {
	fieldNames []string
}

func describeStruct(t reflect.Type) structDescriptor {
	if sd, ok := descriptors.Load(t); ok {
		return sd.(structDescriptor)
	}
	sd := structDescriptor{fieldNames: make([]string, t.NumField())}
	for i := range sd.fieldNames {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag := field.Tag.Get("uritemplate"); tag == "-" {
			continue
		} else if tag != "" {
			sd.fieldNames[i] = tag
		} else {
			_, firstRuneSize := utf8.DecodeRuneInString(field.Name)
			sd.fieldNames[i] = strings.ToLower(field.Name[:firstRuneSize]) + field.Name[firstRuneSize:]
		}
	}
	descriptors.Store(t, sd)
	return sd
}

var (
	errorType         = reflect.TypeOf((*error)(nil)).Elem()
	formatterType     = reflect.TypeOf((*fmt.Formatter)(nil)).Elem()
	stringerType      = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)
