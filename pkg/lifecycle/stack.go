package lifecycle

import (
	"context"
	"fmt"

	"github.com/watfordsuzy/boxkit/pkg/box"
)

// stack is the LIFO ledger of reversible commands for one scope
// instance. A fresh stack is allocated at every scope entry; after a
// drain the instance is discarded.
type stack struct {
	entries []Disposable
}

func newStack() *stack {
	return &stack{}
}

func (s *stack) push(cmd Disposable) {
	s.entries = append(s.entries, cmd)
}

func (s *stack) pop() (Disposable, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

func (s *stack) len() int {
	return len(s.entries)
}

// drain pops and disposes every entry in reverse-of-push order. A
// dispose failure stops the drain and propagates; entries still on the
// stack at that point are leaked and must surface to the caller.
func (s *stack) drain(ctx context.Context, clientFor func(AccessLevel) box.Client) error {
	for {
		cmd, ok := s.pop()
		if !ok {
			return nil
		}
		if err := cmd.Dispose(ctx, clientFor(cmd.AccessLevel())); err != nil {
			return fmt.Errorf("error disposing %T (%d entries leaked): %w", cmd, s.len(), err)
		}
	}
}
