package types

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFuture_Get(t *testing.T) {
	t.Run("successful result", func(t *testing.T) {
		future := NewFuture[string, int]()

		go func() {
			time.Sleep(20 * time.Millisecond)
			future.Complete("success", 42, nil)
		}()

		value, key, err := future.Get()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != "success" {
			t.Errorf("expected value 'success', got %v", value)
		}
		if key != 42 {
			t.Errorf("expected key 42, got %v", key)
		}
	})

	t.Run("error result", func(t *testing.T) {
		future := NewFuture[string, int]()
		expectedErr := errors.New("task failed")

		go future.Complete("", 10, expectedErr)

		_, key, err := future.Get()
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if key != 10 {
			t.Errorf("expected key 10, got %v", key)
		}
	})

	t.Run("multiple Get calls return same result", func(t *testing.T) {
		future := NewFuture[int, string]()
		future.Complete(123, "test", nil)

		value1, key1, err1 := future.Get()
		value2, key2, err2 := future.Get()

		if value1 != value2 || key1 != key2 || err1 != err2 {
			t.Errorf("Get calls returned different results")
		}
		if value1 != 123 {
			t.Errorf("expected value 123, got %v", value1)
		}
	})
}

func TestFuture_CompleteOnlyOnce(t *testing.T) {
	future := NewFuture[int, int]()

	if !future.Complete(1, 1, nil) {
		t.Fatal("first Complete should settle the future")
	}
	if future.Complete(2, 2, errors.New("late")) {
		t.Fatal("second Complete should be ignored")
	}

	value, key, err := future.Get()
	if value != 1 || key != 1 || err != nil {
		t.Errorf("unexpected result: value=%v key=%v err=%v", value, key, err)
	}
}

func TestFuture_GetWithContext(t *testing.T) {
	t.Run("result before timeout", func(t *testing.T) {
		future := NewFuture[string, int]()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		go func() {
			time.Sleep(20 * time.Millisecond)
			future.Complete("success", 42, nil)
		}()

		value, _, err := future.GetWithContext(ctx)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != "success" {
			t.Errorf("expected value 'success', got %v", value)
		}
	})

	t.Run("context timeout before result", func(t *testing.T) {
		future := NewFuture[string, int]()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, _, err := future.GetWithContext(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if future.IsReady() {
			t.Error("abandoned wait must not settle the future")
		}
	})
}

func TestFuture_TryGet(t *testing.T) {
	future := NewFuture[string, int]()

	if _, _, _, ready := future.TryGet(); ready {
		t.Error("expected ready to be false")
	}

	future.Complete("ready", 100, nil)

	value, key, err, ready := future.TryGet()
	if !ready {
		t.Fatal("expected ready to be true")
	}
	if value != "ready" || key != 100 || err != nil {
		t.Errorf("unexpected result: value=%v key=%v err=%v", value, key, err)
	}
}

func TestFuture_Done(t *testing.T) {
	future := NewFuture[string, int]()

	select {
	case <-future.Done():
		t.Fatal("Done channel should not be closed yet")
	case <-time.After(20 * time.Millisecond):
	}

	future.Complete("done", 1, nil)

	select {
	case <-future.Done():
	case <-time.After(200 * time.Millisecond):
		t.Error("Done channel should be closed after Complete")
	}
}

func TestFuture_ConcurrentAccess(t *testing.T) {
	future := NewFuture[int, string]()

	go func() {
		time.Sleep(20 * time.Millisecond)
		future.Complete(999, "concurrent", nil)
	}()

	done := make(chan bool, 10)
	for range 10 {
		go func() {
			value, key, err := future.Get()
			if err != nil || value != 999 || key != "concurrent" {
				t.Errorf("unexpected result: value=%v, key=%v, err=%v", value, key, err)
			}
			done <- true
		}()
	}

	for range 10 {
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			t.Fatal("timeout waiting for concurrent Get calls")
		}
	}
}
