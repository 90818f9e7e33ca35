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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var templateCmpOpts = cmp.AllowUnexported(Template{}, component{})

func TestParseLiteralsAndExpressions(t *testing.T) {
	got, err := Parse("http://www.example.com/foo{?query,number}")
	require.NoError(t, err)

	want := &Template{
		source: "http://www.example.com/foo{?query,number}",
		components: []component{
			{kind: literalComponent, literal: "http://www.example.com/foo"},
			{
				kind: expressionComponent,
				expression: Expression{
					Operator: OperatorQuery,
					Variables: []VariableSpecification{
						{Name: "query"},
						{Name: "number"},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got, templateCmpOpts); diff != "" {
		t.Errorf("Parse(...) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVariableSpecifications(t *testing.T) {
	got, err := Parse("{a.b.c:30,list*,assoc*}")
	require.NoError(t, err)
	require.Len(t, got.components, 1)

	want := []VariableSpecification{
		{Name: "a.b.c", Modifier: Modifier{Kind: ModifierPrefix, PrefixLength: 30}},
		{Name: "list", Modifier: Modifier{Kind: ModifierExplode}},
		{Name: "assoc", Modifier: Modifier{Kind: ModifierExplode}},
	}
	if diff := cmp.Diff(want, got.components[0].expression.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		template string
		wantKind ParseErrorKind
		wantOff  int
	}{
		{"{var", ErrUnterminatedExpression, 0},
		{"{}", ErrEmptyVariableList, 1},
		{"{,var}", ErrEmptyVariableList, 1},
		{"{var,}", ErrEmptyVarname, 5},
		{"{var:0}", ErrInvalidPrefix, 4},
		{"{var:01}", ErrInvalidPrefix, 4},
		{"{var:99999}", ErrInvalidPrefix, 4},
		{"{var%}", ErrTrailingGarbage, 4},
		{"a}b", ErrUnexpectedCharacter, 1},
		{"a b", ErrUnexpectedCharacter, 1},
		{"{var=x}", ErrTrailingGarbage, 4},
	}
	for _, test := range tests {
		_, err := Parse(test.template)
		require.Errorf(t, err, "Parse(%q)", test.template)
		pe, ok := err.(*ParseError)
		require.Truef(t, ok, "Parse(%q) error type = %T, want *ParseError", test.template, err)
		if pe.Kind != test.wantKind {
			t.Errorf("Parse(%q) error kind = %v, want %v", test.template, pe.Kind, test.wantKind)
		}
		if pe.Offset != test.wantOff {
			t.Errorf("Parse(%q) error offset = %d, want %d", test.template, pe.Offset, test.wantOff)
		}
	}
}

func TestParsePrefixBoundaries(t *testing.T) {
	tests := []struct {
		template string
		wantN    int
		wantErr  bool
	}{
		{"{var:1}", 1, false},
		{"{var:9999}", 9999, false},
		{"{var:10000}", 0, true}, // 5 digits, rejected by the state machine
	}
	for _, test := range tests {
		got, err := Parse(test.template)
		if test.wantErr {
			require.Errorf(t, err, "Parse(%q)", test.template)
			continue
		}
		require.NoErrorf(t, err, "Parse(%q)", test.template)
		m := got.components[0].expression.Variables[0].Modifier
		if m.Kind != ModifierPrefix || m.PrefixLength != test.wantN {
			t.Errorf("Parse(%q) modifier = %+v, want prefix %d", test.template, m, test.wantN)
		}
	}
}

func TestParsePercentEncodedVarName(t *testing.T) {
	got, err := Parse("{%20name}")
	require.NoError(t, err)
	require.Len(t, got.components[0].expression.Variables, 1)
	require.Equal(t, "%20name", got.components[0].expression.Variables[0].Name)
}
