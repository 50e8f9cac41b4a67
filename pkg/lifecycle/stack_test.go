package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watfordsuzy/boxkit/pkg/box"
)

// fakeCommand is an in-package test double for Command / Disposable. It
// records the client handle each call observed and appends its name to
// shared order slices.
type fakeCommand struct {
	name  string
	level AccessLevel
	scope Scope

	executeErr error
	disposeErr error

	executedWith box.Client
	disposedWith box.Client

	executeOrder *[]string
	disposeOrder *[]string
}

func (f *fakeCommand) AccessLevel() AccessLevel { return f.level }
func (f *fakeCommand) Scope() Scope             { return f.scope }

func (f *fakeCommand) Execute(_ context.Context, client box.Client) (string, error) {
	f.executedWith = client
	if f.executeErr != nil {
		return "", f.executeErr
	}
	if f.executeOrder != nil {
		*f.executeOrder = append(*f.executeOrder, f.name)
	}
	return "id-" + f.name, nil
}

func (f *fakeCommand) Dispose(_ context.Context, client box.Client) error {
	f.disposedWith = client
	if f.disposeErr != nil {
		return f.disposeErr
	}
	if f.disposeOrder != nil {
		*f.disposeOrder = append(*f.disposeOrder, f.name)
	}
	return nil
}

// plainCommand is a non-reversible test double: it satisfies Command
// but not Disposable.
type plainCommand struct {
	level        AccessLevel
	executeErr   error
	executedWith box.Client
}

func (p *plainCommand) AccessLevel() AccessLevel { return p.level }

func (p *plainCommand) Execute(_ context.Context, client box.Client) (string, error) {
	p.executedWith = client
	if p.executeErr != nil {
		return "", p.executeErr
	}
	return "plain-id", nil
}

func staticClient(label string) box.Client {
	client, err := box.NewClient(&box.Options{AccessToken: label})
	if err != nil {
		panic(err)
	}
	return client
}

func TestStack_DrainIsLIFO(t *testing.T) {
	s := newStack()
	var disposed []string

	for i := 1; i <= 5; i++ {
		s.push(&fakeCommand{name: fmt.Sprintf("cmd%d", i), disposeOrder: &disposed})
	}
	require.Equal(t, 5, s.len(), "all commands should be tracked")

	err := s.drain(context.Background(), func(AccessLevel) box.Client { return staticClient("any") })
	require.NoError(t, err, "drain should succeed")

	assert.Equal(t, []string{"cmd5", "cmd4", "cmd3", "cmd2", "cmd1"}, disposed,
		"disposal order should be the exact reverse of push order")
	assert.Zero(t, s.len(), "stack should be empty after drain")
}

func TestStack_DrainStopsAtFailure(t *testing.T) {
	s := newStack()
	var disposed []string

	s.push(&fakeCommand{name: "first", disposeOrder: &disposed})
	s.push(&fakeCommand{name: "second", disposeErr: errors.New("dispose failed"), disposeOrder: &disposed})
	s.push(&fakeCommand{name: "third", disposeOrder: &disposed})

	err := s.drain(context.Background(), func(AccessLevel) box.Client { return staticClient("any") })
	require.Error(t, err, "drain should propagate the dispose failure")
	assert.ErrorContains(t, err, "dispose failed")

	// third disposed fine, second failed, first must be left leaked.
	assert.Equal(t, []string{"third"}, disposed, "drain should not continue past a failing entry")
	assert.Equal(t, 1, s.len(), "remaining entries should be treated as leaked")
}

func TestStack_DrainEmpty(t *testing.T) {
	s := newStack()
	err := s.drain(context.Background(), func(AccessLevel) box.Client { return staticClient("any") })
	assert.NoError(t, err, "draining an empty stack should be a no-op")
}
