package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Interval is a constant-delay schedule that keeps sub-second precision;
// cron's own "@every" rounds down to whole seconds.
type Interval time.Duration

func (i Interval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(i))
}

// Scheduler runs a page's repeating jobs one at a time. Jobs never overlap,
// and Do lets other callers (key presses) join the same queue.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger{logger.Sugar()}),
			cron.WithChain(cron.Recover(cronLogger{logger.Sugar()}), cron.SkipIfStillRunning(cronLogger{logger.Sugar()})),
		),
		logger: logger,
	}
}

// Every registers fn to run every d.
func (s *Scheduler) Every(name string, d time.Duration, fn func()) {
	s.cron.Schedule(Interval(d), cron.FuncJob(func() {
		s.Do(fn)
	}))
	s.logger.Debug("Job registered", zap.String("job", name), zap.Duration("every", d))
}

// Do runs fn exclusively with respect to scheduled jobs.
func (s *Scheduler) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts future firings and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
