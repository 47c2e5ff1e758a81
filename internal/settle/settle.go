// Package settle запускает независимые задачи параллельно и дожидается всех:
// ошибка или паника одной задачи не отменяет остальные.
package settle

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrPanic = errors.New("task panicked")

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Outcome struct {
	Name    string
	Err     error
	Elapsed time.Duration
	// Stack заполнен только для паники
	Stack []byte
}

func (o Outcome) OK() bool { return o.Err == nil }

type Options struct {
	// Limit <= 0 - без ограничения параллелизма
	Limit int
}

// All выполняет все задачи и возвращает исходы в порядке задач
func All(ctx context.Context, tasks ...Task) []Outcome {
	return AllWithOptions(ctx, Options{}, tasks...)
}

func AllWithOptions(ctx context.Context, opts Options, tasks ...Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))

	// обычный Group, не WithContext: ошибка одной задачи не должна отменять соседей
	var g errgroup.Group
	if opts.Limit > 0 {
		g.SetLimit(opts.Limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			outcomes[i] = run(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func run(ctx context.Context, task Task) (out Outcome) {
	out.Name = task.Name
	start := time.Now()

	defer func() {
		out.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("%w: %s: %v", ErrPanic, task.Name, r)
			out.Stack = debug.Stack()
		}
	}()

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	out.Err = task.Run(ctx)
	return out
}

// Failed - исходы с ошибкой
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
