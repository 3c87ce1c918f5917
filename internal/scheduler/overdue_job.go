package scheduler

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/pkg/logger"
)

// OverdueMarker marca facturas vencidas a la fecha dada.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// OverdueJob pasa a overdue las facturas enviadas con vencimiento cumplido.
type OverdueJob struct {
	marker OverdueMarker
	log    *logger.Logger
	now    func() time.Time
}

// NewOverdueJob construye la tarea.
func NewOverdueJob(marker OverdueMarker, log *logger.Logger) *OverdueJob {
	return &OverdueJob{marker: marker, log: log, now: time.Now}
}

func (j *OverdueJob) Name() string { return "overdue-invoices" }

func (j *OverdueJob) Run(ctx context.Context) error {
	n, err := j.marker.MarkOverdue(ctx, j.now())
	if n > 0 {
		j.log.Info().Int("invoices", n).Msg("facturas marcadas como vencidas")
	}
	return err
}
