// Package scheduler ejecuta tareas periódicas (barrido de facturas vencidas) con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// Job tarea programada.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler registra tareas con expresiones cron de 5 campos.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	metrics *metrics.CronJobMetrics
	ctx     context.Context
	cancel  context.CancelFunc
}

// New construye el scheduler. metrics puede ser nil.
func New(log *logger.Logger, m *metrics.CronJobMetrics) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	l := log.Named("scheduler")
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger{l}), cron.SkipIfStillRunning(cronLogger{l}))),
		log:     l,
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add programa job con una expresión cron (robfig, cinco campos o descriptores @every/@daily).
func (s *Scheduler) Add(expr string, job Job) error {
	if _, err := s.cron.AddFunc(expr, func() { _ = s.RunJob(s.ctx, job) }); err != nil {
		return fmt.Errorf("scheduler: expresión %q para %s: %w", expr, job.Name(), err)
	}
	s.log.Info().Str("job", job.Name()).Str("expr", expr).Msg("tarea programada")
	return nil
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop cancela las tareas en curso y espera a que terminen o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas programadas no terminaron a tiempo")
	}
}

// RunJob ejecuta job una vez registrando duración y resultado.
func (s *Scheduler) RunJob(ctx context.Context, job Job) error {
	start := time.Now()
	s.log.Info().Str("job", job.Name()).Msg("tarea iniciada")
	err := job.Run(ctx)
	elapsed := time.Since(start)
	s.metrics.Observe(job.Name(), elapsed, err)
	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Dur("duration", elapsed).Msg("tarea fallida")
		return err
	}
	s.log.Info().Str("job", job.Name()).Dur("duration", elapsed).Msg("tarea completada")
	return nil
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct{ l *logger.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Debug().Fields(kv).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Error().Err(err).Fields(kv).Msg(msg)
}
