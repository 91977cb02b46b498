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

// Package schema builds the query root over the upstream collections. Every field on the root is
// produced by the same factory from a Resource; there are no per-collection resolvers.
package schema

import (
	"context"
	"fmt"

	"github.com/botobag/placeholder-gateway/apierror"
	"github.com/botobag/placeholder-gateway/concurrent"
	"github.com/botobag/placeholder-gateway/dataloader"
	"github.com/botobag/placeholder-gateway/typegraph"
	"github.com/botobag/placeholder-gateway/upstream"

	"github.com/graphql-go/graphql"
)

// Description describes the schema as a whole.
const Description = "Jsonplaceholder fake restful API GraphQL query"

// Fetcher fetches and decodes one upstream endpoint. upstream.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint upstream.Endpoint) (interface{}, error)
}

var _ Fetcher = (*upstream.Client)(nil)

// Config specifies how the resolvers reach the upstream.
type Config struct {
	// (Required) Fetcher used to load resources when the request carries no DataLoader.
	Fetcher Fetcher
}

// New builds the schema with a list field and a singular field for each of Resources().
func New(config Config) (graphql.Schema, error) {
	if config.Fetcher == nil {
		return graphql.Schema{}, apierror.New("schema: Fetcher must be provided",
			apierror.Op("schema.New"), apierror.KindInternal)
	}

	fields := graphql.Fields{}
	for _, res := range Resources() {
		fields[string(res.Collection)] = ListField(res, config.Fetcher)
		fields[res.Singular] = GetField(res, config.Fetcher)
	}

	types := make([]graphql.Type, 0, len(typegraph.All()))
	for _, object := range typegraph.All() {
		types = append(types, object)
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:        "RootQuery",
			Description: "Root query for any Information",
			Fields:      fields,
		}),
		Types: types,
	})
}

// ListField creates the field that returns the whole collection of res.
func ListField(res Resource, fetcher Fetcher) *graphql.Field {
	return &graphql.Field{
		Type:        graphql.NewList(res.Type),
		Description: res.ListDescription,
		Resolve: resolveWith(fetcher, func(p graphql.ResolveParams) (upstream.Endpoint, error) {
			return upstream.ListEndpoint(res.Collection), nil
		}),
	}
}

// GetField creates the field that returns the item of res with the given id.
func GetField(res Resource, fetcher Fetcher) *graphql.Field {
	return &graphql.Field{
		Type:        res.Type,
		Description: res.GetDescription,
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{
				Type: graphql.NewNonNull(graphql.Int),
			},
		},
		Resolve: resolveWith(fetcher, func(p graphql.ResolveParams) (upstream.Endpoint, error) {
			id, ok := p.Args["id"].(int)
			if !ok {
				return upstream.Endpoint{}, apierror.New(
					fmt.Sprintf(`argument "id" of field "%s" must be an integer, got %v`, res.Singular, p.Args["id"]),
					apierror.KindValidation, apierror.Resource(res.Collection))
			}
			return upstream.ItemEndpoint(res.Collection, id), nil
		}),
	}
}

type fetchResult struct {
	value interface{}
	err   error
}

// resolveWith creates a resolver that fetches the endpoint computed by endpointOf. The fetch starts
// immediately and the resolver returns a thunk that waits for it, so the engine can issue sibling
// fields before any of them completes.
func resolveWith(
	fetcher Fetcher,
	endpointOf func(p graphql.ResolveParams) (upstream.Endpoint, error)) graphql.FieldResolveFn {

	return func(p graphql.ResolveParams) (interface{}, error) {
		endpoint, err := endpointOf(p)
		if err != nil {
			return nil, err
		}

		ctx := p.Context
		if ctx == nil {
			ctx = context.Background()
		}

		if loader, ok := dataloader.FromContext(ctx); ok {
			task := loader.Load(ctx, endpoint)
			return func() (interface{}, error) {
				value, err := task.Await(ctx)
				return value, asUpstreamError(endpoint, err)
			}, nil
		}

		result := make(chan fetchResult, 1)
		go func() {
			value, err := fetcher.Fetch(ctx, endpoint)
			result <- fetchResult{value, err}
		}()

		return func() (interface{}, error) {
			r := <-result
			return r.value, asUpstreamError(endpoint, r.err)
		}, nil
	}
}

// asUpstreamError reports a fetch that never got an answer (the request was cancelled or the runner
// refused it) as an unavailable upstream for the resource.
func asUpstreamError(endpoint upstream.Endpoint, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierror.As(err); ok {
		return err
	}
	return apierror.Wrap(err, "GET "+endpoint.Path(),
		apierror.KindUpstreamUnavailable, apierror.Resource(endpoint.Collection))
}

// LoaderConfig specifies options for NewLoader.
type LoaderConfig struct {
	// (Required) Fetcher that performs the loads.
	Fetcher Fetcher

	// (Optional) Runner bounds the number of fetches running at once.
	Runner concurrent.Executor

	// Dedupe collapses fetches of the same endpoint within the request. Otherwise every field issues
	// its own fetch.
	Dedupe bool
}

// NewLoader creates a DataLoader for one request that loads upstream.Endpoint keys with the fetcher.
// Attach it to the request context with dataloader.NewContext.
func NewLoader(config LoaderConfig) (*dataloader.DataLoader, error) {
	if config.Fetcher == nil {
		return nil, apierror.New("schema: Fetcher must be provided",
			apierror.Op("schema.NewLoader"), apierror.KindInternal)
	}

	fetcher := config.Fetcher
	loaderConfig := dataloader.Config{
		Runner: config.Runner,
		Loader: dataloader.LoadFunc(func(ctx context.Context, key dataloader.Key) (interface{}, error) {
			return fetcher.Fetch(ctx, key.(upstream.Endpoint))
		}),
	}
	if !config.Dedupe {
		loaderConfig.CacheMap = dataloader.NoCacheMap
	}

	return dataloader.New(loaderConfig)
}
