package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pending is a handle to an assignment request running in the background.
// The decision never waits on it; callers may Wait to observe its outcome.
type Pending struct {
	g      *errgroup.Group
	User   string
	Number int
}

// Spawn starts fn on its own goroutine and returns a handle to it.
func Spawn(ctx context.Context, user string, number int, fn func(ctx context.Context) error) *Pending {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fn(gctx)
	})
	return &Pending{g: g, User: user, Number: number}
}

// Wait blocks until the request finishes and returns its error.
// A nil Pending waits for nothing.
func (p *Pending) Wait() error {
	if p == nil {
		return nil
	}
	return p.g.Wait()
}
