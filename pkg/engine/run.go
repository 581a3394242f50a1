package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/blockcut/pkg/config"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned for a script whose result arrived after a
	// newer Evaluate call on the same engine.
	ErrSuperseded = errors.New("evaluation superseded by a newer request")

	errAbandoned = errors.New("evaluation abandoned")
)

// run is one script evaluation in flight. Its builder owns the config the
// script writes to; the config is only read back once the script is done.
type run struct {
	gen  uint64
	b    *builder
	done chan evalResult
}

type evalResult struct {
	errors []EvalError
	err    error
}

// start bumps the engine generation and evaluates source on its own
// goroutine against a fresh copy of config.Default.
func (e *Engine) start(source string) *run {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	cfg := config.Default()
	r := &run{gen: gen, b: newBuilder(&cfg), done: make(chan evalResult, 1)}

	go func() {
		defer func() {
			if p := recover(); p != nil {
				r.done <- evalResult{err: fmt.Errorf("panic during evaluation: %v", p)}
			}
		}()
		evalErrs, err := evaluate(r.b, source)
		r.done <- evalResult{errors: evalErrs, err: err}
	}()
	return r
}

// wait blocks until r finishes or the timeout expires. A timed-out run has
// its builder abandoned, so the script's next builtin call fails and the
// goroutine unwinds instead of spinning on.
func (e *Engine) wait(r *run) (*config.Config, []EvalError, error) {
	limit := e.limit()
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-r.done:
		if e.current() != r.gen {
			return nil, nil, ErrSuperseded
		}
		if res.err != nil || len(res.errors) > 0 {
			return nil, res.errors, res.err
		}
		r.b.finish()
		return r.b.cfg, nil, nil

	case <-timer.C:
		r.b.abandon()
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

func (e *Engine) limit() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return EvalTimeout
}

// abandon makes every later builtin call of the script fail.
func (b *builder) abandon() { b.abandoned.Store(true) }

func (b *builder) isAbandoned() bool { return b.abandoned.Load() }
