package scheduler

import (
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("memorize.scheduler")

type Task struct {
	Name    string
	Execute func() error
}

// Scheduler runs tasks one at a time on a single goroutine, so tasks never
// race each other.
type Scheduler struct {
	taskQueue       chan Task
	lowPriorityLock sync.Mutex
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewScheduler creates a new Scheduler with the specified queue size
func NewScheduler(queueSize int) *Scheduler {
	return &Scheduler{
		taskQueue: make(chan Task, queueSize),
		stopChan:  make(chan struct{}),
	}
}

func run(task Task) {
	if err := task.Execute(); err != nil {
		log.Errorf("task %s failed: %s", task.Name, err)
	}
}

// RunScheduler starts the scheduler loop
func (s *Scheduler) RunScheduler() {
	go func() {
		for {
			select {
			case task, ok := <-s.taskQueue:
				if !ok {
					return
				}
				log.Debugf("executing %s", task.Name)
				run(task)
				s.wg.Done()
			case <-s.stopChan:
				// Drain what is left and exit.
				for task := range s.taskQueue {
					log.Debugf("draining %s", task.Name)
					run(task)
					s.wg.Done()
				}
				return
			}
		}
	}()
}

// SchedulePeriodicTask queues lowTask every interval until the scheduler
// stops. Ticks are skipped while the queue is full.
func (s *Scheduler) SchedulePeriodicTask(interval time.Duration, lowTask Task) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.lowPriorityLock.Lock()
				select {
				case <-s.stopChan:
					s.lowPriorityLock.Unlock()
					return
				default:
				}
				s.wg.Add(1)
				select {
				case s.taskQueue <- lowTask:
					log.Debugf("scheduled %s", lowTask.Name)
				default:
					s.wg.Done()
					log.Debugf("skipped %s, queue is full", lowTask.Name)
				}
				s.lowPriorityLock.Unlock()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// ScheduleHighPriorityTask queues task; it blocks while the queue is full.
// Tasks scheduled after StopScheduler are dropped.
func (s *Scheduler) ScheduleHighPriorityTask(task Task) {
	s.lowPriorityLock.Lock()
	defer s.lowPriorityLock.Unlock()

	select {
	case <-s.stopChan:
		log.Warningf("scheduler stopped, dropping %s", task.Name)
		return
	default:
	}
	s.wg.Add(1)
	s.taskQueue <- task
}

// StopScheduler waits for all queued tasks to complete and stops the scheduler
func (s *Scheduler) StopScheduler() {
	s.stopOnce.Do(func() {
		log.Info("stopping scheduler")
		s.lowPriorityLock.Lock()
		close(s.stopChan)
		close(s.taskQueue)
		s.lowPriorityLock.Unlock()
		s.wg.Wait()
		log.Info("scheduler stopped")
	})
}
