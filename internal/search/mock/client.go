package mock

import (
	"context"
	"sync"
	"time"
)

// Source - управляемая заглушка адаптера для тестов агрегатора
type Source[T any] struct {
	SourceName string
	Result     T
	Error      error
	Delay      time.Duration
	Panic      any

	CallCount  int
	LastQuery  string
	AllQueries []string

	mu sync.Mutex
}

func New[T any](name string) *Source[T] {
	return &Source[T]{SourceName: name}
}

func (s *Source[T]) WithResult(result T) *Source[T] {
	s.Result = result
	return s
}

func (s *Source[T]) WithError(err error) *Source[T] {
	s.Error = err
	return s
}

func (s *Source[T]) WithDelay(delay time.Duration) *Source[T] {
	s.Delay = delay
	return s
}

func (s *Source[T]) WithPanic(v any) *Source[T] {
	s.Panic = v
	return s
}

func (s *Source[T]) Name() string { return s.SourceName }

func (s *Source[T]) Search(ctx context.Context, query string) (T, error) {
	s.mu.Lock()
	s.CallCount++
	s.LastQuery = query
	s.AllQueries = append(s.AllQueries, query)
	delay := s.Delay
	err := s.Error
	result := s.Result
	p := s.Panic
	s.mu.Unlock()

	var zero T

	if delay > 0 {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	if p != nil {
		panic(p)
	}

	if err != nil {
		return zero, err
	}

	return result, nil
}

func (s *Source[T]) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CallCount
}

func (s *Source[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CallCount = 0
	s.LastQuery = ""
	s.AllQueries = nil
}
