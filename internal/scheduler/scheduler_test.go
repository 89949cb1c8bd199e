package scheduler_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"memorize/internal/scheduler"
)

func TestSchedulerStop(t *testing.T) {
	s := scheduler.NewScheduler(10)

	var executed atomic.Int32
	testTask := scheduler.Task{
		Name: "TestTask",
		Execute: func() error {
			time.Sleep(10 * time.Millisecond)
			executed.Add(1)
			return nil
		},
	}

	s.RunScheduler()
	for i := 0; i < 5; i++ {
		s.ScheduleHighPriorityTask(testTask)
	}
	s.StopScheduler()

	if got := executed.Load(); got != 5 {
		t.Fatalf("Expected all tasks to execute, but only %d completed", got)
	}

	// Scheduling after stop is a no-op and stopping twice is safe.
	s.ScheduleHighPriorityTask(testTask)
	s.StopScheduler()
	if got := executed.Load(); got != 5 {
		t.Errorf("task ran after stop, %d executions", got)
	}
}

func TestSchedulerFailingTask(t *testing.T) {
	s := scheduler.NewScheduler(2)
	s.RunScheduler()

	var ran atomic.Bool
	s.ScheduleHighPriorityTask(scheduler.Task{
		Name:    "failing",
		Execute: func() error { return errors.New("boom") },
	})
	s.ScheduleHighPriorityTask(scheduler.Task{
		Name:    "after",
		Execute: func() error { ran.Store(true); return nil },
	})
	s.StopScheduler()

	if !ran.Load() {
		t.Error("a failing task stopped the scheduler")
	}
}

func TestSchedulePeriodicTask(t *testing.T) {
	s := scheduler.NewScheduler(4)
	s.RunScheduler()

	ticks := make(chan struct{}, 16)
	s.SchedulePeriodicTask(5*time.Millisecond, scheduler.Task{
		Name: "periodic",
		Execute: func() error {
			select {
			case ticks <- struct{}{}:
			default:
			}
			return nil
		},
	})

	timeout := time.After(2 * time.Second)
	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-timeout:
			t.Fatalf("only %d periodic runs before timeout", i)
		}
	}
	s.StopScheduler()
}
