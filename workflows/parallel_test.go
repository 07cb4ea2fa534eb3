package workflows_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tailored-agentic-units/fixture/workflows"
)

func upper(ctx context.Context, index int, item string) (string, error) {
	return strings.ToUpper(item), nil
}

func TestProcessParallel_EmptyInput(t *testing.T) {
	calls := 0
	processor := func(ctx context.Context, index int, item string) (string, error) {
		calls++
		return item, nil
	}

	results, err := workflows.ProcessParallel(context.Background(), nil, 0, []string{}, processor)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty non-nil results, got %#v", results)
	}
	if calls != 0 {
		t.Errorf("processor called %d times, want 0", calls)
	}
}

func TestProcessParallel_OrderPreservation(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	processor := func(ctx context.Context, index int, item int) (int, error) {
		time.Sleep(time.Millisecond * time.Duration(50-item))
		return index * 2, nil
	}

	results, err := workflows.ProcessParallel(context.Background(), nil, 0, items, processor)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(results) != 50 {
		t.Fatalf("Expected 50 results, got %d", len(results))
	}
	for i, got := range results {
		if got != i*2 {
			t.Errorf("Order not preserved: result[%d] = %d, expected %d", i, got, i*2)
		}
	}
}

func TestProcessParallel_Events(t *testing.T) {
	observer := &captureObserver{}

	if _, err := workflows.ProcessParallel(context.Background(), observer, 0, []string{"a", "b", "c"}, upper); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if n := observer.count(workflows.EventParallelStart); n != 1 {
		t.Errorf("parallel.start events = %d, want 1", n)
	}
	if n := observer.count(workflows.EventWorkerStart); n != 3 {
		t.Errorf("worker.start events = %d, want 3", n)
	}
	if n := observer.count(workflows.EventWorkerComplete); n != 3 {
		t.Errorf("worker.complete events = %d, want 3", n)
	}
	if n := observer.count(workflows.EventParallelComplete); n != 1 {
		t.Errorf("parallel.complete events = %d, want 1", n)
	}
}

func TestProcessParallel_RunsConcurrently(t *testing.T) {
	const n = 8
	var running, peak atomic.Int32
	release := make(chan struct{})

	processor := func(ctx context.Context, index int, item int) (int, error) {
		cur := running.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		if cur == n {
			close(release)
		}
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		running.Add(-1)
		return item, nil
	}

	if _, err := workflows.ProcessParallel(context.Background(), nil, 0, make([]int, n), processor); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if peak.Load() != n {
		t.Errorf("peak concurrency = %d, want %d", peak.Load(), n)
	}
}

func TestProcessParallel_MaxWorkers(t *testing.T) {
	var running, peak atomic.Int32

	processor := func(ctx context.Context, index int, item int) (int, error) {
		cur := running.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return item, nil
	}

	if _, err := workflows.ProcessParallel(context.Background(), nil, 2, make([]int, 10), processor); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestProcessParallel_FailureFailsWholeBatch(t *testing.T) {
	boom := errors.New("boom")
	processor := func(ctx context.Context, index int, item string) (string, error) {
		if index == 2 {
			return "", boom
		}
		return item, nil
	}

	results, err := workflows.ProcessParallel(context.Background(), nil, 0, []string{"a", "b", "c", "d"}, processor)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got: %v", err)
	}
	if results != nil {
		t.Errorf("Expected no results on failure, got %v", results)
	}

	var taskErr *workflows.TaskError
	if !errors.As(err, &taskErr) || taskErr.Index != 2 {
		t.Errorf("Expected TaskError for item 2, got %v", err)
	}
}

func TestProcessParallel_FailureCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	processor := func(ctx context.Context, index int, item int) (int, error) {
		if index == 0 {
			return 0, boom
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return item, nil
		}
	}

	start := time.Now()
	_, err := workflows.ProcessParallel(context.Background(), nil, 0, make([]int, 4), processor)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected first error boom, got: %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("remaining tasks were not cancelled")
	}
}
