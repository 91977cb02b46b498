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
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/botobag/placeholder-gateway/config"

	"github.com/spf13/cobra"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("placeholder-gateway", func() {
	execute := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	It("prints the version", func() {
		out, err := execute("version")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(out).Should(Equal("placeholder-gateway dev\n"))
	})

	It("prints the schema", func() {
		out, err := execute("schema")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(out).Should(ContainSubstring("type RootQuery {"))
		Expect(out).Should(ContainSubstring("  post(id: Int!): Post\n"))
		Expect(out).Should(ContainSubstring("  posts: [Post]\n"))
	})

	It("refuses invalid configuration", func() {
		_, err := execute("serve", "--env-file", filepath.Join(os.TempDir(), "placeholder-gateway-missing.env"), "--port", "0")
		Expect(err).Should(MatchError(ContainSubstring("invalid configuration")))
	})

	Describe("loadConfig", func() {
		var (
			dir   string
			flags rootFlags
			cmd   *cobra.Command
		)

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "placeholder-gateway-test")
			Expect(err).ShouldNot(HaveOccurred())
			flags = rootFlags{}
			cmd = &cobra.Command{Use: "test"}
			flags.register(cmd.Flags())
			os.Unsetenv(config.EnvPort)
			os.Unsetenv(config.EnvUpstreamURL)
			os.Unsetenv(config.EnvLogLevel)
		})

		AfterEach(func() {
			os.RemoveAll(dir)
			os.Unsetenv(config.EnvPort)
			os.Unsetenv(config.EnvUpstreamURL)
			os.Unsetenv(config.EnvLogLevel)
		})

		writeFile := func(name string, content string) string {
			path := filepath.Join(dir, name)
			Expect(os.WriteFile(path, []byte(content), 0o600)).Should(Succeed())
			return path
		}

		It("applies file, environment and flags in order", func() {
			configFile := writeFile("config.yaml", "server:\n  port: 4000\nlog:\n  level: warn\n")
			os.Setenv(config.EnvPort, "5000")

			Expect(cmd.ParseFlags([]string{
				"--config", configFile,
				"--env-file", filepath.Join(dir, "missing.env"),
				"--log-level", "debug",
			})).Should(Succeed())

			conf, err := loadConfig(cmd, &flags)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(conf.Server.Port).Should(Equal(5000))
			Expect(conf.Log.Level).Should(Equal("debug"))
			Expect(conf.Upstream.BaseURL).Should(Equal("https://jsonplaceholder.typicode.com"))
		})

		It("lets --port override PORT", func() {
			os.Setenv(config.EnvPort, "5000")
			Expect(cmd.ParseFlags([]string{
				"--env-file", filepath.Join(dir, "missing.env"),
				"--port", "6000",
				"--upstream-url", "http://localhost:8080",
			})).Should(Succeed())

			conf, err := loadConfig(cmd, &flags)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(conf.Server.Port).Should(Equal(6000))
			Expect(conf.Upstream.BaseURL).Should(Equal("http://localhost:8080"))
		})

		It("loads the env file", func() {
			envFile := writeFile("test.env", config.EnvUpstreamURL+"=http://upstream.test\n")
			Expect(cmd.ParseFlags([]string{"--env-file", envFile})).Should(Succeed())

			conf, err := loadConfig(cmd, &flags)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(conf.Upstream.BaseURL).Should(Equal("http://upstream.test"))
		})
	})

	It("serves until cancelled", func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ShouldNot(HaveOccurred())
		port := listener.Addr().(*net.TCPAddr).Port
		Expect(listener.Close()).Should(Succeed())

		conf := config.Default()
		conf.Server.Port = port
		conf.Log.Level = "error"
		Expect(conf.Validate()).Should(Succeed())

		g, err := newGateway(conf)
		Expect(err).ShouldNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- g.run(ctx)
		}()

		Eventually(func() error {
			conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
			if err == nil {
				conn.Close()
			}
			return err
		}, 5*time.Second, 50*time.Millisecond).Should(Succeed())

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})
})
