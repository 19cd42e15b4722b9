package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrUnknownTask = errors.New("scheduler: unknown task")
	// ErrTaskBusy is returned by Trigger while the same task is still running.
	ErrTaskBusy = errors.New("scheduler: task already running")
)

// TaskFn is the function signature for scheduled tasks. The context is
// cancelled when the scheduler stops.
type TaskFn func(ctx context.Context) error

// TaskStatus describes one registered task.
type TaskStatus struct {
	Name      string        `json:"name"`
	Interval  time.Duration `json:"interval"`
	Runs      int           `json:"runs"`
	Failures  int           `json:"failures"`
	LastRun   time.Time     `json:"lastRun,omitempty"`
	LastError string        `json:"lastError,omitempty"`
	Running   bool          `json:"running"`
}

type task struct {
	fn     TaskFn
	stopCh chan struct{}

	mu     sync.Mutex // guards status
	status TaskStatus
}

// Scheduler runs named periodic tasks. A task never overlaps with itself:
// a tick that arrives mid-run is skipped and Trigger reports ErrTaskBusy.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]*task
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Scheduler.
func New(logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		tasks:  make(map[string]*task),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddTicker registers fn to run every interval, replacing any task with the
// same name.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	t := &task{
		fn:     fn,
		stopCh: make(chan struct{}),
		status: TaskStatus{Name: name, Interval: interval},
	}

	s.mu.Lock()
	if old, ok := s.tasks[name]; ok {
		close(old.stopCh)
	}
	s.tasks[name] = t
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.run(t); errors.Is(err, ErrTaskBusy) {
					s.logger.Debug("scheduler tick skipped", zap.String("task", name))
				}
			case <-t.stopCh:
				return
			case <-s.ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("scheduler task registered", zap.String("name", name), zap.Duration("interval", interval))
}

// Trigger runs a registered task now, on the caller's goroutine.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	t, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	return s.run(t)
}

func (s *Scheduler) run(t *task) (err error) {
	t.mu.Lock()
	if t.status.Running {
		t.mu.Unlock()
		return ErrTaskBusy
	}
	t.status.Running = true
	name := t.status.Name
	t.mu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler: task %q panicked: %v", name, r)
		}

		t.mu.Lock()
		t.status.Running = false
		t.status.Runs++
		t.status.LastRun = start
		t.status.LastError = ""
		if err != nil {
			t.status.Failures++
			t.status.LastError = err.Error()
		}
		t.mu.Unlock()

		if err != nil {
			s.logger.Error("scheduler task failed", zap.String("task", name), zap.Error(err))
			return
		}
		s.logger.Debug("scheduler task done", zap.String("task", name), zap.Duration("took", time.Since(start)))
	}()
	return t.fn(s.ctx)
}

// Remove stops and unregisters a task. Unknown names are ignored.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[name]; ok {
		close(t.stopCh)
		delete(s.tasks, name)
	}
}

// Stop halts every ticker and cancels the context of running tasks.
func (s *Scheduler) Stop() {
	s.cancel()
}

// ListTickers returns the sorted names of all registered tasks.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status reports every task, sorted by name.
func (s *Scheduler) Status() []TaskStatus {
	s.mu.Lock()
	tasks := make([]*task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	out := make([]TaskStatus, 0, len(tasks))
	for _, t := range tasks {
		t.mu.Lock()
		out = append(out, t.status)
		t.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
