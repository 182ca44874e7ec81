package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// subtask is one named unit of a concurrent fan-out
type subtask struct {
	name string
	run  func(ctx context.Context) error
}

// runSubtasks runs the subtasks concurrently and waits for every one of them
// to finish. A failing subtask never cancels its siblings. The returned error
// aggregates all failures, each prefixed with its subtask name; nil when all
// succeeded.
func runSubtasks(ctx context.Context, tasks []subtask) error {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))

	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task subtask) {
			defer wg.Done()
			if err := task.run(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", task.name, err)
			}
		}(i, task)
	}

	wg.Wait()
	return errors.Join(errs...)
}
