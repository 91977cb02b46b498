/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package executor

import (
	"fmt"
	"math"
	"reflect"

	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// checkIntVariables rejects values for Int variables that are not integral numbers. The engine
// would otherwise truncate 1.5 to 1, parse "7" and read true as 1.
func checkIntVariables(
	document *ast.Document,
	operationName string,
	values map[string]interface{}) []gqlerrors.FormattedError {

	operation := selectOperation(document, operationName)
	if operation == nil {
		// Let the engine report an unknown or ambiguous operation.
		return nil
	}

	var errs []gqlerrors.FormattedError
	for _, definition := range operation.VariableDefinitions {
		if definition == nil || definition.Variable == nil || definition.Variable.Name == nil {
			continue
		}
		name := definition.Variable.Name.Value
		if isIntValue(definition.Type, values[name]) {
			continue
		}

		input, _ := json.Marshal(values[name])
		errs = append(errs, gqlerrors.FormatErrors(gqlerrors.NewError(
			fmt.Sprintf(`Variable "$%s" got invalid value %s.`+"\n"+
				`Expected type "Int", found %s: Int cannot represent non-integer value.`, name, input, input),
			[]ast.Node{definition},
			"",
			nil,
			[]int{},
			nil,
		))...)
	}
	return errs
}

func selectOperation(document *ast.Document, operationName string) *ast.OperationDefinition {
	var selected *ast.OperationDefinition
	for _, node := range document.Definitions {
		operation, ok := node.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if len(operationName) == 0 {
			if selected != nil {
				return nil
			}
			selected = operation
		} else if operation.Name != nil && operation.Name.Value == operationName {
			return operation
		}
	}
	return selected
}

// isIntValue reports whether value can be given to a variable of t without changing it. Types that
// do not bottom out in Int accept anything; the engine checks those.
func isIntValue(t ast.Type, value interface{}) bool {
	if value == nil {
		return true
	}

	switch t := t.(type) {
	case *ast.NonNull:
		return isIntValue(t.Type, value)

	case *ast.List:
		v := reflect.ValueOf(value)
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return isIntValue(t.Type, value)
		}
		for i := 0; i < v.Len(); i++ {
			if !isIntValue(t.Type, v.Index(i).Interface()) {
				return false
			}
		}
		return true

	case *ast.Named:
		if t.Name == nil || t.Name.Value != "Int" {
			return true
		}
		return isIntegral(value)
	}

	return true
}

func isIntegral(value interface{}) bool {
	switch value := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return isIntegralFloat(float64(value))
	case float64:
		return isIntegralFloat(value)
	}
	return false
}

func isIntegralFloat(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value == math.Trunc(value)
}
