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

package testutil

import (
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/onsi/gomega/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type serializeToJSONAsMatcher struct {
	expected interface{}
}

// SerializeToJSONAs returns a Gomega matcher that first serializes actual value into JSON data
// format and then compares it against the expected value. If expected is a string or a []byte, it
// is taken as JSON text and both sides are compared as decoded JSON values. Otherwise the encoded
// actual value is decoded into a variable that has the same type as the expected value.
func SerializeToJSONAs(expected interface{}) types.GomegaMatcher {
	return serializeToJSONAsMatcher{
		expected: expected,
	}
}

func (matcher serializeToJSONAsMatcher) expectedJSON() ([]byte, error) {
	switch expected := matcher.expected.(type) {
	case string:
		return []byte(expected), nil
	case []byte:
		return expected, nil
	}
	return json.Marshal(matcher.expected)
}

func (matcher serializeToJSONAsMatcher) decodeType() reflect.Type {
	switch matcher.expected.(type) {
	case string, []byte:
		return reflect.TypeOf((*interface{})(nil)).Elem()
	}
	return reflect.TypeOf(matcher.expected)
}

// Match implements types.GomegaMatcher.
func (matcher serializeToJSONAsMatcher) Match(actual interface{}) (success bool, err error) {
	encodedActual, err := json.Marshal(actual)
	if err != nil {
		return false, fmt.Errorf("SerializeToJSONAs matcher cannot encode actual into JSON: %s", err)
	}

	encodedExpected, err := matcher.expectedJSON()
	if err != nil {
		return false, fmt.Errorf("SerializeToJSONAs matcher cannot encode expected into JSON: %s", err)
	}

	decodeType := matcher.decodeType()
	decodedExpected := reflect.New(decodeType).Interface()
	decodedActual := reflect.New(decodeType).Interface()

	if err := json.Unmarshal(encodedActual, decodedActual); err != nil {
		return false, fmt.Errorf("SerializeToJSONAs matcher cannot re-encode actual value from JSON into type %T: %s", decodedActual, err)
	}
	if err := json.Unmarshal(encodedExpected, decodedExpected); err != nil {
		return false, fmt.Errorf("SerializeToJSONAs matcher cannot decode expected value from JSON into type %T: %s", decodedExpected, err)
	}

	return reflect.DeepEqual(decodedActual, decodedExpected), nil
}

// FailureMessage implements types.GomegaMatcher.
func (matcher serializeToJSONAsMatcher) FailureMessage(actual interface{}) (message string) {
	encoded, _ := json.Marshal(actual)
	return fmt.Sprintf("Expected\n\t%s\nto serialize to JSON value as\n\t%v", encoded, matcher.expected)
}

// NegatedFailureMessage implements types.GomegaMatcher.
func (matcher serializeToJSONAsMatcher) NegatedFailureMessage(actual interface{}) (message string) {
	encoded, _ := json.Marshal(actual)
	return fmt.Sprintf("Expected\n\t%s\nnot to serialize to JSON value as\n\t%v", encoded, matcher.expected)
}
