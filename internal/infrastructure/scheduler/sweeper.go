// Package scheduler runs the periodic back-office sweeps: the stock
// digest and the stale time entry check.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Task is a named periodic job. Every is the minimum gap between two runs;
// the sweeper checks at its own interval.
type Task struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// TaskStatus is the outcome of a task's latest run
type TaskStatus struct {
	Name     string        `json:"name"`
	LastRun  *time.Time    `json:"last_run,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Runs     int           `json:"runs"`
	Failures int           `json:"failures"`
}

// Config holds sweeper configuration
type Config struct {
	Interval   time.Duration
	JobTimeout time.Duration
}

// DefaultConfig returns the default sweeper configuration
func DefaultConfig() Config {
	return Config{
		Interval:   5 * time.Minute,
		JobTimeout: 2 * time.Minute,
	}
}

type taskState struct {
	task    Task
	nextRun time.Time
	status  TaskStatus
}

// Sweeper runs registered tasks in a single background loop. Tasks run
// one at a time under the service actor.
type Sweeper struct {
	config Config
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	tasks     []*taskState
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// NewSweeper creates a sweeper
func NewSweeper(config Config, logger *zap.Logger) *Sweeper {
	def := DefaultConfig()
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	return &Sweeper{config: config, logger: logger, now: time.Now}
}

// Register adds a task. The first run happens on the first tick.
func (s *Sweeper) Register(task Task) error {
	if task.Name == "" || task.Run == nil || task.Every <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidTask, task.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.task.Name == task.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateTask, task.Name)
		}
	}
	s.tasks = append(s.tasks, &taskState{task: task, status: TaskStatus{Name: task.Name}})
	return nil
}

// Start starts the sweep loop
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("tasks", len(s.Status())),
	)
	return nil
}

// Stop stops the loop and waits for a running task to return
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *Sweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs every task that is due
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()
	s.mu.Lock()
	var due []*taskState
	for _, t := range s.tasks {
		if !now.Before(t.nextRun) {
			due = append(due, t)
			t.nextRun = now.Add(t.task.Every)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		if ctx.Err() != nil {
			return
		}
		s.run(ctx, t)
	}
}

// RunTask runs one task immediately, regardless of its schedule
func (s *Sweeper) RunTask(ctx context.Context, name string) error {
	s.mu.Lock()
	var state *taskState
	for _, t := range s.tasks {
		if t.task.Name == name {
			state = t
		}
	}
	s.mu.Unlock()
	if state == nil {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, name)
	}
	return s.run(ctx, state)
}

func (s *Sweeper) run(ctx context.Context, t *taskState) (err error) {
	ctx, cancel := context.WithTimeout(shared.WithActor(ctx, shared.ServiceActor()), s.config.JobTimeout)
	defer cancel()

	start := s.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", t.task.Name, r)
			s.logger.Error("Sweeper task panicked",
				zap.String("task", t.task.Name),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
		s.record(t, start, err)
	}()

	err = t.task.Run(ctx)
	if err != nil {
		s.logger.Error("Sweeper task failed", zap.String("task", t.task.Name), zap.Error(err))
	} else {
		s.logger.Debug("Sweeper task finished", zap.String("task", t.task.Name))
	}
	return err
}

func (s *Sweeper) record(t *taskState, start time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.status.LastRun = &start
	t.status.Duration = s.now().Sub(start)
	t.status.Runs++
	t.status.Error = ""
	if err != nil {
		t.status.Failures++
		t.status.Error = err.Error()
	}
}

// Status returns a snapshot of every task's latest run
func (s *Sweeper) Status() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskStatus, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.status
	}
	return out
}
