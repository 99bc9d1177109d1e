// Package worker runs pure generation work on a bounded goroutine pool.
//
// Work is split into fixed-size chunks and each chunk draws from its own
// random stream derived from (seed, salt, chunk index). Output therefore does
// not depend on the pool size or on scheduling, only on the seed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"runtime/debug"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Tysek64/DrugiTinder/internal/logger"
)

// ErrReleased is returned when work is submitted after Release.
var ErrReleased = errors.New("worker pool released")

type Pool struct {
	pool *ants.Pool
	size int
}

// New builds a pool of size goroutines.
func New(size int) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p, err := ants.NewPool(size,
		ants.WithExpiryDuration(10*time.Second),
		ants.WithPanicHandler(func(v any) {
			logger.Error("worker panic", "panic", v, "stack", string(debug.Stack()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("build worker pool: %w", err)
	}
	return &Pool{pool: p, size: size}, nil
}

func (p *Pool) Size() int { return p.size }

// Release waits up to timeout for running tasks to finish.
func (p *Pool) Release(timeout time.Duration) error {
	return p.pool.ReleaseTimeout(timeout)
}

// Stream returns the random source for one chunk of one named unit of work.
func Stream(seed uint64, salt string, chunk int) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(salt))
	return rand.New(rand.NewPCG(seed^h.Sum64(), uint64(chunk)))
}

// Partition splits [0,n) into chunks of chunkSize, runs fn for every chunk on
// the pool and concatenates the results in chunk order.
func Partition[T any](ctx context.Context, p *Pool, n, chunkSize int, seed uint64, salt string,
	fn func(r *rand.Rand, lo, hi int) ([]T, error),
) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	if chunkSize < 1 {
		chunkSize = 1
	}

	chunks := (n + chunkSize - 1) / chunkSize
	results := make([][]T, chunks)
	errs := make([]error, chunks)

	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		lo, hi := c*chunkSize, min((c+1)*chunkSize, n)
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					errs[c] = fmt.Errorf("%s chunk %d panicked: %v", salt, c, v)
				}
			}()
			if ctx.Err() != nil {
				errs[c] = ctx.Err()
				return
			}
			results[c], errs[c] = fn(Stream(seed, salt, c), lo, hi)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			if errors.Is(err, ants.ErrPoolClosed) {
				return nil, ErrReleased
			}
			return nil, err
		}
	}
	wg.Wait()

	total := 0
	for c := range results {
		if errs[c] != nil {
			return nil, errs[c]
		}
		total += len(results[c])
	}

	out := make([]T, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
