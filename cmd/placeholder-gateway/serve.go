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

package main

import (
	"context"

	"github.com/botobag/placeholder-gateway/concurrent"
	"github.com/botobag/placeholder-gateway/config"
	"github.com/botobag/placeholder-gateway/executor"
	"github.com/botobag/placeholder-gateway/handler"
	"github.com/botobag/placeholder-gateway/internal/logging"
	"github.com/botobag/placeholder-gateway/schema"
	"github.com/botobag/placeholder-gateway/server"
	"github.com/botobag/placeholder-gateway/upstream"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const explorerTitle = "JSONPlaceholder GraphQL"

// gateway holds the process-wide components built from the configuration.
type gateway struct {
	logger   *zap.Logger
	registry *prometheus.Registry
	pool     *concurrent.WorkerPoolExecutor
	cache    *executor.RistrettoOperationCache
	server   *server.Server
}

func newGateway(conf *config.Config) (*gateway, error) {
	logger, err := logging.New(logging.Config{
		Level:  conf.Log.Level,
		Format: conf.Log.Format,
	})
	if err != nil {
		return nil, err
	}

	g := &gateway{
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	g.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	upstreamMetrics, err := upstream.NewMetrics(g.registry)
	if err != nil {
		return nil, errors.Wrap(err, "register upstream metrics")
	}
	handlerMetrics, err := handler.NewMetrics(g.registry)
	if err != nil {
		return nil, errors.Wrap(err, "register request metrics")
	}

	client, err := upstream.NewClient(upstream.Config{
		BaseURL: conf.Upstream.BaseURL,
		Timeout: conf.Upstream.Timeout,
		Retry: upstream.RetryPolicy{
			MaxRetries:      conf.Upstream.MaxRetries,
			InitialInterval: conf.Upstream.RetryInitialInterval,
			MaxInterval:     conf.Upstream.RetryMaxInterval,
		},
		Metrics: upstreamMetrics,
		Logger:  logger.Named("upstream"),
	})
	if err != nil {
		return nil, err
	}

	s, err := schema.New(schema.Config{Fetcher: client})
	if err != nil {
		return nil, errors.Wrap(err, "build schema")
	}

	var cache executor.OperationCache = executor.NopOperationCache{}
	if conf.Executor.OperationCacheSize > 0 {
		g.cache, err = executor.NewRistrettoOperationCache(int64(conf.Executor.OperationCacheSize))
		if err != nil {
			return nil, errors.Wrap(err, "create operation cache")
		}
		cache = g.cache
	}

	g.pool, err = concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
		MaxPoolSize: uint32(conf.Upstream.MaxConcurrency),
	})
	if err != nil {
		g.close()
		return nil, errors.Wrap(err, "create worker pool")
	}

	options := []handler.Option{
		handler.Middlewares(handler.LoaderMiddleware{
			Fetcher: client,
			Runner:  g.pool,
			Dedupe:  conf.Executor.DedupeFetches,
		}),
		handler.WithMetrics(handlerMetrics),
		handler.Logger(logger.Named("handler")),
	}
	if conf.Server.Explorer {
		options = append(options, handler.Explorer(explorerTitle, conf.Server.Path))
	}

	h, err := handler.New(executor.New(executor.Config{
		Schema:         s,
		OperationCache: cache,
	}), options...)
	if err != nil {
		g.close()
		return nil, err
	}

	g.server, err = server.New(server.Config{
		Addr:            conf.Server.Addr(),
		Path:            conf.Server.Path,
		GraphQL:         h,
		Gatherer:        g.registry,
		CORSOrigins:     conf.Server.CORSOrigins,
		ShutdownTimeout: conf.Server.ShutdownTimeout,
		Logger:          logger.Named("server"),
	})
	if err != nil {
		g.close()
		return nil, err
	}

	return g, nil
}

// close releases the worker pool and the operation cache. It waits for the queued fetches to finish.
func (g *gateway) close() {
	if g.pool != nil {
		if terminated, err := g.pool.Shutdown(); err == nil {
			<-terminated
		}
	}
	if g.cache != nil {
		g.cache.Close()
	}
}

// run serves until ctx is done.
func (g *gateway) run(ctx context.Context) error {
	defer g.close()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return g.server.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		g.logger.Info("shutting down", zap.Error(context.Cause(groupCtx)))
		return nil
	})
	return group.Wait()
}

func runServe(ctx context.Context, conf *config.Config) error {
	g, err := newGateway(conf)
	if err != nil {
		return err
	}
	defer g.logger.Sync()

	g.logger.Info("starting placeholder-gateway",
		zap.String("version", version),
		zap.String("upstream", conf.Upstream.BaseURL),
		zap.Int("port", conf.Server.Port))

	return g.run(ctx)
}
