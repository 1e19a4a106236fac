package minicon

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_OrderPreserving(t *testing.T) {
	pool := NewWorkerPool(4)

	inputs := make([]int, 100)
	for i := range inputs {
		inputs[i] = i
	}

	operation := func(ctx Context, input int) (int, error) {
		return input * 2, nil
	}

	results, err := ExecuteParallel(pool, NewContext(nil), inputs, operation)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 100 {
		t.Fatalf("Expected 100 results, got %d", len(results))
	}
	for i, result := range results {
		if result != i*2 {
			t.Errorf("Result %d: expected %d, got %d", i, i*2, result)
		}
	}
}

func TestWorkerPool_ErrorHandling(t *testing.T) {
	pool := NewWorkerPool(4)

	inputs := make([]int, 10)
	for i := range inputs {
		inputs[i] = i
	}

	// Operation that fails on index 5
	operation := func(ctx Context, input int) (int, error) {
		if input == 5 {
			return 0, fmt.Errorf("intentional error at %d", input)
		}
		return input * 2, nil
	}

	results, err := ExecuteParallel(pool, NewContext(nil), inputs, operation)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if results != nil {
		t.Errorf("Expected nil results on error, got %v", results)
	}
	if err.Error() != "parallel execution failed at index 5: intentional error at 5" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestWorkerPool_EmptyInput(t *testing.T) {
	pool := NewWorkerPool(4)

	results, err := ExecuteParallel(pool, NewContext(nil), []seed{}, func(ctx Context, s seed) (formResult, error) {
		t.Error("operation called for empty input")
		return formResult{}, nil
	})
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

func TestWorkerPool_WorkerCount(t *testing.T) {
	tests := []struct {
		name          string
		workerCount   int
		expectedCount int
	}{
		{
			name:          "explicit_count",
			workerCount:   8,
			expectedCount: 8,
		},
		{
			name:          "zero_uses_default",
			workerCount:   0,
			expectedCount: runtime.NumCPU(),
		},
		{
			name:          "negative_uses_default",
			workerCount:   -5,
			expectedCount: runtime.NumCPU(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.workerCount)
			if pool.WorkerCount() != tt.expectedCount {
				t.Errorf("Expected %d workers, got %d", tt.expectedCount, pool.WorkerCount())
			}
		})
	}
}

func TestWorkerPool_ConcurrencyLimit(t *testing.T) {
	pool := NewWorkerPool(3)

	var maxConcurrent int32
	var currentConcurrent int32

	inputs := make([]int, 20)
	operation := func(ctx Context, input int) (int, error) {
		current := atomic.AddInt32(&currentConcurrent, 1)
		for {
			max := atomic.LoadInt32(&maxConcurrent)
			if current <= max || atomic.CompareAndSwapInt32(&maxConcurrent, max, current) {
				break
			}
		}

		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&currentConcurrent, -1)
		return input, nil
	}

	if _, err := ExecuteParallel(pool, NewContext(nil), inputs, operation); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	max := atomic.LoadInt32(&maxConcurrent)
	if max > 3 {
		t.Errorf("Expected at most 3 concurrent executions, got %d", max)
	}
	t.Logf("Max concurrent executions: %d", max)
}
