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
	"context"

	"github.com/botobag/placeholder-gateway/apierror"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
)

// PreparedOperation is like "prepared statement" in conventional DBMS. Before executing a query
// document, the engine needs to parse and validate it against the schema. PreparedOperation keeps
// the result of these static steps so a document that is requested repeatedly is only prepared
// once.
type PreparedOperation struct {
	// Schema of the type system that the document was validated against
	schema graphql.Schema

	// Parsed and validated document
	document *ast.Document
}

// Prepare parses query and validates the document against schema. On failure the returned errors
// carry "SYNTAX_ERROR" or "VALIDATION_ERROR" as "code" in their extensions.
func Prepare(schema graphql.Schema, query string) (*PreparedOperation, []gqlerrors.FormattedError) {
	document, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{
			Body: []byte(query),
			Name: "GraphQL request",
		}),
	})
	if err != nil {
		return nil, withCode(gqlerrors.FormatErrors(err), apierror.KindSyntax)
	}

	result := graphql.ValidateDocument(&schema, document, nil)
	if !result.IsValid {
		return nil, withCode(result.Errors, apierror.KindValidation)
	}

	return &PreparedOperation{
		schema:   schema,
		document: document,
	}, nil
}

// Schema returns the type system definition which the operation is based on.
func (operation *PreparedOperation) Schema() graphql.Schema {
	return operation.schema
}

// Document returns the request document.
func (operation *PreparedOperation) Document() *ast.Document {
	return operation.document
}

// ExecuteParams specifies parameter to execute a prepared operation.
type ExecuteParams struct {
	// The name of the Operation in the Document to execute. Required when the document contains more
	// than one operation.
	OperationName string

	// Values for any Variables defined by the Operation
	VariableValues map[string]interface{}

	// RootValue is an initial value corresponding to the root type being executed.
	RootValue interface{}
}

// Execute runs the operation. Errors raised while coercing variables or selecting the operation are
// classified as "VALIDATION_ERROR" and come with no data. Errors raised by resolvers keep their path
// and gain the extensions of the error that caused them; an error of unknown origin is reported as
// "INTERNAL_ERROR".
func (operation *PreparedOperation) Execute(ctx context.Context, params ExecuteParams) *graphql.Result {
	if errs := checkIntVariables(operation.document, params.OperationName, params.VariableValues); len(errs) > 0 {
		return &graphql.Result{
			Errors: withCode(errs, apierror.KindValidation),
		}
	}

	result := graphql.Execute(graphql.ExecuteParams{
		Schema:        operation.schema,
		Root:          params.RootValue,
		AST:           operation.document,
		OperationName: params.OperationName,
		Args:          params.VariableValues,
		Context:       ctx,
	})

	if len(result.Errors) > 0 {
		if result.Data == nil {
			result.Errors = withCode(result.Errors, apierror.KindValidation)
		} else {
			result.Errors = withOriginExtensions(result.Errors)
		}
	}

	return result
}
