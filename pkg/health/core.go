package health

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Checker reports whether one dependency is usable
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker
type CheckerFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

// Name ...
func (f CheckerFunc) Name() string { return f.CheckName }

// Check ...
func (f CheckerFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

// Core holds the health state of the process.
type Core struct {
	mutex             sync.Mutex
	isMarkedUnhealthy bool
	checkers          []Checker
}

// NewCore creates Core.
func NewCore(checkers ...Checker) *Core {
	return &Core{checkers: checkers}
}

// RunHealthCheck returns an error naming the first failing checker, or nil when all pass.
func (c *Core) RunHealthCheck(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.isMarkedUnhealthy {
		return errors.New("server marked unhealthy")
	}

	for _, checker := range c.checkers {
		if checker == nil {
			continue
		}
		if err := checker.Check(ctx); err != nil {
			return errors.Wrapf(err, "%s health check failed", checker.Name())
		}
	}
	return nil
}

// MarkUnhealthy marks the server as unhealthy for health check to return negative
func (c *Core) MarkUnhealthy() {
	c.mutex.Lock()
	c.isMarkedUnhealthy = true
	c.mutex.Unlock()
}
