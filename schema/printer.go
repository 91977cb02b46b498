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

package schema

import (
	"sort"
	"strings"

	"github.com/graphql-go/graphql"
)

// builtinScalars are the scalars every schema has; they are left out of the printed SDL.
var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// PrintSDL renders the object types of s in the GraphQL schema definition language. Types and
// fields are sorted by name.
func PrintSDL(s graphql.Schema) string {
	var b strings.Builder

	printDescription(&b, "", Description)
	b.WriteString("schema {\n  query: ")
	b.WriteString(s.QueryType().Name())
	b.WriteString("\n}\n")

	typeMap := s.TypeMap()
	names := make([]string, 0, len(typeMap))
	for name := range typeMap {
		if strings.HasPrefix(name, "__") || builtinScalars[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		object, ok := typeMap[name].(*graphql.Object)
		if !ok {
			continue
		}
		b.WriteString("\n")
		printObject(&b, object)
	}

	return b.String()
}

func printObject(b *strings.Builder, object *graphql.Object) {
	printDescription(b, "", object.Description())
	b.WriteString("type ")
	b.WriteString(object.Name())
	b.WriteString(" {\n")

	fields := object.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := fields[name]
		printDescription(b, "  ", field.Description)
		b.WriteString("  ")
		b.WriteString(name)
		if len(field.Args) > 0 {
			b.WriteString("(")
			for i, arg := range field.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(arg.Name())
				b.WriteString(": ")
				b.WriteString(arg.Type.String())
			}
			b.WriteString(")")
		}
		b.WriteString(": ")
		b.WriteString(field.Type.String())
		b.WriteString("\n")
	}

	b.WriteString("}\n")
}

func printDescription(b *strings.Builder, indent string, description string) {
	if len(description) == 0 {
		return
	}
	b.WriteString(indent)
	b.WriteString(`"""`)
	b.WriteString(description)
	b.WriteString(`"""`)
	b.WriteString("\n")
}
