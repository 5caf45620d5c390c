// Package actor serializes command execution per order. Every order gets a
// mailbox: a goroutine that executes submitted closures one at a time in
// arrival order. Two commands for the same order never run concurrently, so
// command handlers and the aggregate itself stay lock free. Commands for
// different orders run in parallel.
//
// Mailboxes are created lazily on first submission and reaped after an idle
// period, so the dispatcher's footprint follows the number of currently busy
// orders, not the number of orders ever seen.
package actor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrDispatcherClosed is returned by Do after Shutdown has been called.
var ErrDispatcherClosed = errors.New("dispatcher is shut down")

// DefaultIdleTimeout is how long a mailbox lingers without work before its
// goroutine exits.
const DefaultIdleTimeout = time.Minute

// mailboxBuffer bounds the per-order queue. Submissions beyond it block in
// Do until the mailbox catches up or the caller's context expires.
const mailboxBuffer = 16

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

type mailbox struct {
	jobs    chan job
	pending int
}

// Dispatcher routes closures to per-key mailboxes. The zero value is not
// usable; construct with NewDispatcher.
type Dispatcher struct {
	log         *slog.Logger
	idleTimeout time.Duration

	mu        sync.Mutex
	mailboxes map[string]*mailbox
	closed    bool

	jobs    sync.WaitGroup
	workers sync.WaitGroup
	quit    chan struct{}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithIdleTimeout overrides how long an idle mailbox survives before its
// goroutine exits. Tests use small values to exercise reaping.
func WithIdleTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		disp.idleTimeout = d
	}
}

// NewDispatcher creates a dispatcher ready to accept work.
func NewDispatcher(log *slog.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		log:         log,
		idleTimeout: DefaultIdleTimeout,
		mailboxes:   make(map[string]*mailbox),
		quit:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Do runs fn on the mailbox for key and returns its error. It blocks until
// fn has run, or until ctx is done while the job is still queued. Jobs for
// the same key run strictly one at a time in submission order.
//
// A caller must not invoke Do for another key from inside fn when the two
// keys can also be submitted in the opposite nesting elsewhere; sequential
// Do calls are always safe.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	mb, ok := d.mailboxes[key]
	if !ok {
		mb = &mailbox{jobs: make(chan job, mailboxBuffer)}
		d.mailboxes[key] = mb
		d.workers.Add(1)
		go d.run(key, mb)
	}
	mb.pending++
	d.jobs.Add(1)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		mb.pending--
		d.mu.Unlock()
		d.jobs.Done()
	}()

	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case mb.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		// The mailbox skips jobs whose context is already done, so fn will
		// not run behind the caller's back.
		return ctx.Err()
	}
}

// Shutdown stops accepting new work, waits for all submitted jobs to finish,
// then stops every mailbox goroutine.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.jobs.Wait()
	close(d.quit)
	d.workers.Wait()
}

func (d *Dispatcher) run(key string, mb *mailbox) {
	defer d.workers.Done()

	idle := time.NewTimer(d.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case j := <-mb.jobs:
			if j.ctx.Err() != nil {
				j.done <- j.ctx.Err()
			} else {
				j.done <- d.invoke(key, j)
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(d.idleTimeout)

		case <-idle.C:
			d.mu.Lock()
			if mb.pending == 0 {
				delete(d.mailboxes, key)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			idle.Reset(d.idleTimeout)

		case <-d.quit:
			return
		}
	}
}

// invoke runs a job and converts panics into errors so one bad handler
// cannot wedge its mailbox and every later submission for that order.
func (d *Dispatcher) invoke(key string, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("panic in order mailbox", "key", key, "panic", r)
			err = fmt.Errorf("panic while processing order %s: %v", key, r)
		}
	}()
	return j.fn(j.ctx)
}
