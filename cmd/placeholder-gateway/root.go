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
	"fmt"
	"os/signal"
	"syscall"

	"github.com/botobag/placeholder-gateway/config"
	"github.com/botobag/placeholder-gateway/schema"
	"github.com/botobag/placeholder-gateway/upstream"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Flags overriding the configuration file and the environment
type rootFlags struct {
	configFile  string
	envFile     string
	port        int
	upstreamURL string
	logLevel    string
}

func (flags *rootFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&flags.configFile, "config", "",
		"Configuration file. Takes precedence over default values, but is overridden by "+
			"environment variables and flags.")
	fs.StringVar(&flags.envFile, "env-file", ".env", "File with environment variables to load if it exists.")
	fs.IntVar(&flags.port, "port", 0, "Port to listen on.")
	fs.StringVar(&flags.upstreamURL, "upstream-url", "", "Base URL of the upstream REST service.")
	fs.StringVar(&flags.logLevel, "log-level", "", "One of debug, info, warn or error.")
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "placeholder-gateway",
		Short: "GraphQL gateway for the JSONPlaceholder REST API",
		Long: `
placeholder-gateway serves a read-only GraphQL API over the JSONPlaceholder collections
(comments, albums, posts, users, todos and photos). Each field is resolved with GET requests to
the upstream REST service and only the selected fields are returned.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, conf)
		},
	}

	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the GraphQL API (default)",
			Args:  cobra.NoArgs,
			RunE:  rootCmd.RunE,
		},
		newSchemaCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// loadConfig builds the configuration from the files named by flags, the environment and the flags
// set on the command line, in increasing precedence.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return nil, err
	}

	conf, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("port") {
		conf.Server.Port = flags.port
	}
	if changed("upstream-url") {
		conf.Upstream.BaseURL = flags.upstreamURL
	}
	if changed("log-level") {
		conf.Log.Level = flags.logLevel
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the schema in SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The schema does not depend on the upstream; the client is never used.
			client, err := upstream.NewClient(upstream.Config{})
			if err != nil {
				return err
			}
			s, err := schema.New(schema.Config{Fetcher: client})
			if err != nil {
				return errors.Wrap(err, "build schema")
			}
			fmt.Fprint(cmd.OutOrStdout(), schema.PrintSDL(s))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "placeholder-gateway %s\n", version)
		},
	}
}
