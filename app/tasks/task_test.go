package tasks

import (
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask(TaskTypeGenerate)

	if task.GetType() != TaskTypeGenerate {
		t.Errorf("Expected generate task type, got %s", task.GetType())
	}
	if task.GetID() == "" {
		t.Error("Expected a non-empty task ID")
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected zero retries, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected default max retries, got %d", task.GetMaxRetries())
	}
}

func TestTaskRetryAccounting(t *testing.T) {
	task := NewTask(TaskTypeGenerate)

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i+1)
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Error("Expected retries to be exhausted")
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeGenerate)

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}

	task.Start()
	time.Sleep(10 * time.Millisecond)
	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after start")
	}
}
