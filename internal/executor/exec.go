package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool runs a template once per entry across a bounded set of worker
// goroutines, the per-result "--exec CMD" mode: a channel of paths fed
// to a fixed number of worker goroutines via errgroup, each spawning one
// child process per path.
type Pool struct {
	Template Template
	Threads  int
	Stdout   io.Writer
	Stderr   io.Writer

	mu       sync.Mutex // serializes writes to Stdout/Stderr across children
	maxCode  atomic.Int32
	sawError atomic.Bool
}

// NewPool builds a Pool. Threads is clamped to at least 1.
func NewPool(tmpl Template, threads int, stdout, stderr io.Writer) *Pool {
	if threads < 1 {
		threads = 1
	}
	return &Pool{Template: tmpl, Threads: threads, Stdout: stdout, Stderr: stderr}
}

// Run spawns a child for every path received on paths, blocking until the
// channel closes and all children have finished. It returns the maximum
// exit code observed across all children (0 if every child succeeded).
func (p *Pool) Run(ctx context.Context, paths <-chan string) int {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.Threads)

	for path := range paths {
		path := path
		eg.Go(func() error {
			p.runOne(ctx, path)
			return nil
		})
	}
	eg.Wait()

	if p.sawError.Load() && p.maxCode.Load() == 0 {
		return 1
	}
	return int(p.maxCode.Load())
}

func (p *Pool) runOne(ctx context.Context, path string) {
	argv := Expand(p.Template, path)
	if len(argv) == 0 {
		return
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	// A single child's stdin is inherited only when the pool is
	// unparallelized; with threads > 1, an inherited interactive stdin
	// would race across children, so it is replaced with /dev/null.
	if p.Threads == 1 {
		cmd.Stdin = os.Stdin
	} else {
		cmd.Stdin = nil
	}

	err := cmd.Run()

	p.mu.Lock()
	p.Stdout.Write(outBuf.Bytes())
	p.Stderr.Write(errBuf.Bytes())
	p.mu.Unlock()

	if err == nil {
		return
	}
	p.sawError.Store(true)
	if exitErr, ok := err.(*exec.ExitError); ok {
		code := int32(exitErr.ExitCode())
		for {
			cur := p.maxCode.Load()
			if code <= cur || p.maxCode.CompareAndSwap(cur, code) {
				break
			}
		}
		return
	}
	fmt.Fprintf(p.Stderr, "fdx: %s: %v\n", argv[0], err)
}
