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

// Package uritemplate parses and expands URI Templates as specified by
// RFC 6570 Level 4.
//
// Expansion is a two-step process. [Parse] turns a template string into a
// [Template], an immutable AST that borrows its variable names and literal
// runs from the original string. [Template.Expand] then walks that AST
// against a [Values] bag of bindings, producing the expanded string.
// Splitting these steps lets a single parsed Template be expanded
// repeatedly, concurrently, and against different Values without
// re-parsing.
//
// # Values
//
// Unlike some URI Template libraries, this package does not inspect
// arbitrary Go values through reflection to decide how to expand them.
// Callers build a [Values] explicitly out of [Item], [List], and
// [AssociativeArray] bindings. Package convert, a separate optional
// package, adapts ordinary Go maps and structs into a Values for callers
// who want that convenience.
package uritemplate
