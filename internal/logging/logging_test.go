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

package logging_test

import (
	"bytes"

	"github.com/botobag/placeholder-gateway/internal/logging"

	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("New", func() {
	It("writes JSON lines at or above the level", func() {
		var buf bytes.Buffer
		logger, err := logging.New(logging.Config{Level: "warn", Format: "json", Output: &buf})
		Expect(err).ShouldNot(HaveOccurred())

		logger.Info("dropped")
		logger.Warn("kept", zap.String("collection", "posts"))
		Expect(logger.Sync()).Should(Succeed())

		Expect(buf.String()).ShouldNot(ContainSubstring("dropped"))
		Expect(buf.String()).Should(ContainSubstring(`"msg":"kept"`))
		Expect(buf.String()).Should(ContainSubstring(`"collection":"posts"`))
	})

	It("writes console output", func() {
		var buf bytes.Buffer
		logger, err := logging.New(logging.Config{Level: "debug", Format: "console", Output: &buf})
		Expect(err).ShouldNot(HaveOccurred())

		logger.Debug("hello")
		Expect(buf.String()).Should(ContainSubstring("hello"))
		Expect(buf.String()).ShouldNot(HavePrefix("{"))
	})

	It("rejects unknown level and format", func() {
		_, err := logging.New(logging.Config{Level: "loud"})
		Expect(err).Should(MatchError(ContainSubstring("invalid log level")))

		_, err = logging.New(logging.Config{Format: "xml"})
		Expect(err).Should(MatchError(ContainSubstring("invalid log format")))
	})
})
