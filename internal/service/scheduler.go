package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner выполняет один прогон зеркала
type Runner interface {
	RunOnce(ctx context.Context) (*RunReport, error)
}

// RunStatus состояние последнего прогона для health проверок
type RunStatus struct {
	Runs   int        `json:"runs"`
	Report *RunReport `json:"report,omitempty"`
	Err    error      `json:"-"`
}

// Scheduler запускает прогоны по cron расписанию, не допуская их наложения
type Scheduler struct {
	runner     Runner
	spec       string
	runOnStart bool
	cron       *cron.Cron
	job        cron.Job
	logger     *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	stopped bool
	running sync.WaitGroup
	status  RunStatus
}

// NewScheduler создает новый планировщик и проверяет выражение расписания
func NewScheduler(runner Runner, spec string, runOnStart bool, logger *zap.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	cronLog := cronLogger{sugar: logger.Sugar()}
	s := &Scheduler{
		runner:     runner,
		spec:       spec,
		runOnStart: runOnStart,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLog),
		),
		logger: logger,
	}

	// Recover снаружи, чтобы паника в прогоне не оставила SkipIfStillRunning занятым
	s.job = cron.NewChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	).Then(cron.FuncJob(s.execute))

	return s, nil
}

// Run запускает расписание и блокируется, пока ctx не отменен.
// После отмены ждет завершения текущего прогона.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if _, err := s.cron.AddJob(s.spec, s.job); err != nil {
		return fmt.Errorf("failed to add mirror job to cron: %w", err)
	}

	s.logger.Info("Starting scheduler",
		zap.String("schedule", s.spec),
		zap.Bool("run_on_start", s.runOnStart))
	s.cron.Start()
	if s.runOnStart {
		go s.job.Run()
	}

	<-ctx.Done()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.running.Wait()

	s.logger.Info("Scheduler stopped")
	return nil
}

// Trigger выполняет прогон вне расписания с той же защитой от наложения
func (s *Scheduler) Trigger() {
	s.job.Run()
}

// LastStatus возвращает итог последнего прогона
func (s *Scheduler) LastStatus() RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// execute выполняет один прогон и запоминает результат
func (s *Scheduler) execute() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.running.Add(1)
	s.mu.Unlock()
	defer s.running.Done()

	if ctx.Err() != nil {
		return
	}

	report, err := s.runner.RunOnce(ctx)

	s.mu.Lock()
	s.status = RunStatus{Runs: s.status.Runs + 1, Report: report, Err: err}
	s.mu.Unlock()
}

// cronLogger переводит логи cron в zap
type cronLogger struct {
	sugar *zap.SugaredLogger
}

// Info пишет служебные сообщения cron на уровне debug
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Error пишет ошибки cron
func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
