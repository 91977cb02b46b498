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

package concurrent_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/botobag/placeholder-gateway/concurrent"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

// gate is a task that signals when it starts and then blocks until opened.
type gate struct {
	started chan struct{}
	open    chan struct{}
	result  interface{}
}

func newGate(result interface{}) *gate {
	return &gate{
		started: make(chan struct{}),
		open:    make(chan struct{}),
		result:  result,
	}
}

func (g *gate) Run() (interface{}, error) {
	close(g.started)
	<-g.open
	return g.result, nil
}

func await(handle concurrent.TaskHandle) (interface{}, error) {
	Eventually(handle.Done()).Should(BeClosed())
	return handle.Result()
}

var _ = Describe("WorkerPoolExecutor", func() {
	newPool := func(maxPoolSize uint32) *concurrent.WorkerPoolExecutor {
		pool, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MaxPoolSize: maxPoolSize,
		})
		Expect(err).ShouldNot(HaveOccurred())
		return pool
	}

	table.DescribeTable("rejects invalid configuration",
		func(config concurrent.WorkerPoolExecutorConfig, message string) {
			_, err := concurrent.NewWorkerPoolExecutor(config)
			Expect(err).Should(MatchError(ContainSubstring(message)))
		},
		table.Entry("without workers", concurrent.WorkerPoolExecutorConfig{},
			"MaxPoolSize must be a non-zero value"),
		table.Entry("with a queue shorter than the pool",
			concurrent.WorkerPoolExecutorConfig{MaxPoolSize: 8, QueueSize: 4},
			"QueueSize (4) should not be less than MaxPoolSize (8)"),
	)

	It("returns the result of a task", func() {
		pool := newPool(2)

		handle, err := pool.Submit(context.Background(), concurrent.TaskFunc(func() (interface{}, error) {
			return map[string]interface{}{"id": 1}, nil
		}))
		Expect(err).ShouldNot(HaveOccurred())

		Expect(await(handle)).Should(Equal(map[string]interface{}{"id": 1}))
		Expect(handle.Done()).Should(BeClosed())
		Expect(shutdownExecutor(pool)).Should(Succeed())
	})

	It("drains the queue on shutdown", func() {
		pool, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MaxPoolSize: 4,
			QueueSize:   4,
		})
		Expect(err).ShouldNot(HaveOccurred())

		var completed int32
		for i := 0; i < 100; i++ {
			_, err := pool.Submit(context.Background(), concurrent.TaskFunc(func() (interface{}, error) {
				atomic.AddInt32(&completed, 1)
				return nil, nil
			}))
			Expect(err).ShouldNot(HaveOccurred())
		}

		Expect(shutdownExecutor(pool)).Should(Succeed())
		Expect(atomic.LoadInt32(&completed)).Should(BeEquivalentTo(100))
	})

	It("bounds the number of running tasks by the pool size", func() {
		pool := newPool(3)

		var running, peak int32
		fetch := concurrent.TaskFunc(func() (interface{}, error) {
			now := atomic.AddInt32(&running, 1)
			defer atomic.AddInt32(&running, -1)
			for {
				seen := atomic.LoadInt32(&peak)
				if now <= seen || atomic.CompareAndSwapInt32(&peak, seen, now) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return nil, nil
		})

		for i := 0; i < 30; i++ {
			_, err := pool.Submit(context.Background(), fetch)
			Expect(err).ShouldNot(HaveOccurred())
		}

		Expect(shutdownExecutor(pool)).Should(Succeed())
		Expect(atomic.LoadInt32(&peak)).Should(BeNumerically("<=", 3))
	})

	Describe("with its only worker busy", func() {
		var (
			pool *concurrent.WorkerPoolExecutor
			busy *gate
			head concurrent.TaskHandle
		)

		BeforeEach(func() {
			pool = newPool(1)
			busy = newGate("busy")

			var err error
			head, err = pool.Submit(context.Background(), busy)
			Expect(err).ShouldNot(HaveOccurred())
			Eventually(busy.started).Should(BeClosed())
		})

		It("cannot cancel the running task", func() {
			Expect(head.Cancel()).Should(MatchError(concurrent.ErrTaskNotCancellable))
			close(busy.open)
			Expect(await(head)).Should(Equal("busy"))
			Expect(shutdownExecutor(pool)).Should(Succeed())
		})

		It("cancels a queued task", func() {
			var runs int32
			queued, err := pool.Submit(context.Background(), concurrent.TaskFunc(func() (interface{}, error) {
				atomic.AddInt32(&runs, 1)
				return nil, nil
			}))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(queued.Cancel()).Should(Succeed())

			close(busy.open)
			Expect(shutdownExecutor(pool)).Should(Succeed())

			_, err = await(queued)
			Expect(err).Should(MatchError(concurrent.ErrTaskCancelled))
			Expect(atomic.LoadInt32(&runs)).Should(BeZero())
		})

		It("has no result before the task finishes", func() {
			Consistently(head.Done()).ShouldNot(BeClosed())
			Expect(head.Result()).Should(BeNil())

			close(busy.open)
			Expect(await(head)).Should(Equal("busy"))
			Expect(shutdownExecutor(pool)).Should(Succeed())
		})

		It("refuses tasks once shut down and terminates after the running task", func() {
			terminated, err := pool.Shutdown()
			Expect(err).ShouldNot(HaveOccurred())
			Consistently(terminated, 20*time.Millisecond).ShouldNot(Receive())

			_, err = pool.Submit(context.Background(), concurrent.TaskFunc(func() (interface{}, error) {
				return nil, nil
			}))
			Expect(err).Should(MatchError(concurrent.ErrExecutorShutdown))

			close(busy.open)
			Eventually(terminated).Should(Receive())
			Expect(await(head)).Should(Equal("busy"))
		})
	})

	It("gives up submitting to a full queue when the context is done", func() {
		pool, err := concurrent.NewWorkerPoolExecutor(concurrent.WorkerPoolExecutorConfig{
			MaxPoolSize: 1,
			QueueSize:   1,
		})
		Expect(err).ShouldNot(HaveOccurred())

		busy := newGate("busy")
		head, err := pool.Submit(context.Background(), busy)
		Expect(err).ShouldNot(HaveOccurred())
		Eventually(busy.started).Should(BeClosed())

		var runs int32
		extra := concurrent.TaskFunc(func() (interface{}, error) {
			atomic.AddInt32(&runs, 1)
			return nil, nil
		})
		_, err = pool.Submit(context.Background(), extra)
		Expect(err).ShouldNot(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = pool.Submit(ctx, extra)
		Expect(err).Should(MatchError(context.DeadlineExceeded))

		cancelled, cancelNow := context.WithCancel(context.Background())
		cancelNow()
		_, err = pool.Submit(cancelled, extra)
		Expect(err).Should(MatchError(context.Canceled))

		close(busy.open)
		Expect(await(head)).Should(Equal("busy"))
		Expect(shutdownExecutor(pool)).Should(Succeed())
		Expect(atomic.LoadInt32(&runs)).Should(BeEquivalentTo(1))
	})

	It("can be shut down repeatedly while tasks are submitted", func() {
		pool := newPool(4)

		submitted := make(chan struct{})
		go func() {
			defer close(submitted)
			for i := 0; i < 100; i++ {
				pool.Submit(context.Background(), concurrent.TaskFunc(func() (interface{}, error) {
					return nil, nil
				}))
			}
		}()

		var terminations []<-chan bool
		for i := 0; i < 10; i++ {
			terminated, err := pool.Shutdown()
			Expect(err).ShouldNot(HaveOccurred())
			terminations = append(terminations, terminated)
		}

		for _, terminated := range terminations {
			Eventually(terminated).Should(Receive())
		}
		Eventually(submitted).Should(BeClosed())
	})
})
