package polling

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrNotRunning = errors.New("poller not running")

// Task is the type-independent handle of a running Poller.
type Task interface {
	Name() string
	Refresh()
	Stop()
	Done() <-chan struct{}
}

// Controller keeps named pollers so they can be refreshed and cancelled together.
type Controller struct {
	mu    sync.Mutex
	tasks map[string]Task
}

func NewController() *Controller {
	return &Controller{
		tasks: make(map[string]Task),
	}
}

// Add registers a running task. Names are unique.
func (c *Controller) Add(task Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tasks[task.Name()]; ok {
		return fmt.Errorf("poller already running: %s", task.Name())
	}
	c.tasks[task.Name()] = task
	return nil
}

func (c *Controller) Refresh(name string) error {
	c.mu.Lock()
	task, ok := c.tasks[name]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	task.Refresh()
	return nil
}

func (c *Controller) RefreshAll() {
	for _, task := range c.snapshot() {
		task.Refresh()
	}
}

func (c *Controller) Names() []string {
	tasks := c.snapshot()
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name())
	}
	return names
}

// Shutdown stops every task and waits for all loops to exit or ctx to expire.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	tasks := c.tasks
	c.tasks = make(map[string]Task)
	c.mu.Unlock()

	for _, task := range tasks {
		task.Stop()
	}
	for _, task := range tasks {
		select {
		case <-task.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *Controller) snapshot() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make([]Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		res = append(res, t)
	}
	return res
}
