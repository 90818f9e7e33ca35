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

package uritemplate

import (
	"strings"
	"unicode/utf8"
)

// operatorInfo is the behaviour matrix that fully determines an
// operator's rendering (spec: the operator behaviour table), with the
// default explode separator folded into sep because the two are always
// equal. first is the byte written before the first defined variable's
// output, or 0 for none. sep separates defined varspecs from each other,
// and (for exploded lists/associative arrays) separates their elements.
type operatorInfo struct {
	first         byte
	sep           byte
	named         bool
	ifEmpty       string
	allowReserved bool
}

func operatorInfoFor(op Operator) operatorInfo {
	switch op {
	case OperatorNone:
		return operatorInfo{first: 0, sep: ',', named: false, ifEmpty: ""}
	case OperatorReserved:
		return operatorInfo{first: 0, sep: ',', named: false, ifEmpty: "", allowReserved: true}
	case OperatorFragment:
		return operatorInfo{first: '#', sep: ',', named: false, ifEmpty: "", allowReserved: true}
	case OperatorLabel:
		return operatorInfo{first: '.', sep: '.', named: false, ifEmpty: ""}
	case OperatorPathSegment:
		return operatorInfo{first: '/', sep: '/', named: false, ifEmpty: ""}
	case OperatorPathParameter:
		return operatorInfo{first: ';', sep: ';', named: true, ifEmpty: ""}
	case OperatorQuery:
		return operatorInfo{first: '?', sep: '&', named: true, ifEmpty: "="}
	case OperatorQueryContinuation:
		return operatorInfo{first: '&', sep: '&', named: true, ifEmpty: "="}
	default:
		return operatorInfo{first: 0, sep: ',', named: false, ifEmpty: ""}
	}
}

// Expand walks t against values and returns the expanded string. Expand
// cannot fail: undefined variables are skipped, a Prefix modifier applied
// to a List or AssociativeArray is treated as absent, and prefix
// truncation never splits a UTF-8 code point.
func (t *Template) Expand(values *Values) string {
	sb := new(strings.Builder)
	sb.Grow(len(t.source))
	for _, c := range t.components {
		switch c.kind {
		case literalComponent:
			encode(sb, c.literal, literalUnion)
		case expressionComponent:
			expandExpression(sb, c.expression, values)
		}
	}
	return sb.String()
}

func expandExpression(sb *strings.Builder, expr Expression, values *Values) {
	info := operatorInfoFor(expr.Operator)
	allow := maskU
	if info.allowReserved {
		allow = maskUR
	}

	first := true
	for _, spec := range expr.Variables {
		val, ok := values.Lookup(spec.Name)
		if !ok || !val.defined() {
			continue
		}
		if first {
			if info.first != 0 {
				sb.WriteByte(info.first)
			}
			first = false
		} else {
			sb.WriteByte(info.sep)
		}
		expandVarSpec(sb, spec, val, info, allow)
	}
}

// expandVarSpec renders one defined varspec per the three value-shape
// cases of the expansion algorithm.
func expandVarSpec(sb *strings.Builder, spec VariableSpecification, val Value, info operatorInfo, allow satisfier) {
	switch val.kind {
	case itemKind:
		expandItem(sb, spec.Name, applyPrefix(val.item, spec.Modifier), info, allow)
	case listKind:
		if spec.Modifier.Kind == ModifierExplode {
			for i, item := range val.list {
				if i > 0 {
					sb.WriteByte(info.sep)
				}
				expandItem(sb, spec.Name, item, info, allow)
			}
		} else {
			if info.named {
				sb.WriteString(spec.Name)
				sb.WriteByte('=')
			}
			for i, item := range val.list {
				if i > 0 {
					sb.WriteByte(',')
				}
				encode(sb, item, allow)
			}
		}
	case assocKind:
		if spec.Modifier.Kind == ModifierExplode {
			for i, p := range val.pairs {
				if i > 0 {
					sb.WriteByte(info.sep)
				}
				encode(sb, p.Key, allow)
				sb.WriteByte('=')
				encode(sb, p.Value, allow)
			}
		} else {
			if info.named {
				sb.WriteString(spec.Name)
				sb.WriteByte('=')
			}
			for i, p := range val.pairs {
				if i > 0 {
					sb.WriteByte(',')
				}
				encode(sb, p.Key, allow)
				sb.WriteByte(',')
				encode(sb, p.Value, allow)
			}
		}
	}
}

// expandItem renders a single scalar occurrence, shared by the Item case
// and by each exploded List element.
func expandItem(sb *strings.Builder, name, s string, info operatorInfo, allow satisfier) {
	if info.named {
		sb.WriteString(name)
		if s == "" {
			sb.WriteString(info.ifEmpty)
		} else {
			sb.WriteByte('=')
		}
	}
	encode(sb, s, allow)
}

// applyPrefix truncates s to its Modifier's prefix length, measured in
// Unicode code points, or returns s unchanged for any other modifier.
// Prefix modifiers never apply to List or AssociativeArray values (that
// case never reaches applyPrefix because those branches key off
// ModifierExplode directly instead).
func applyPrefix(s string, m Modifier) string {
	if m.Kind != ModifierPrefix {
		return s
	}
	pos := 0
	for i := 0; i < m.PrefixLength && pos < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[pos:])
		pos += size
	}
	return s[:pos]
}
