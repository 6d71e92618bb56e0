package async

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently and waits for all of them.
// Every failure is returned, joined, each prefixed with its task name.
// With failFast the context passed to tasks is cancelled on the first
// failure; otherwise siblings keep running.
func RunParallel(ctx context.Context, tasks []Task, failFast bool) error {
	if len(tasks) == 0 {
		return nil
	}

	var g *errgroup.Group
	taskCtx := ctx
	if failFast {
		g, taskCtx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, task := range tasks {
		g.Go(func() error {
			if err := task.Func(taskCtx); err != nil {
				err = fmt.Errorf("%s: %w", task.Name, err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
