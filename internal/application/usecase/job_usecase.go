package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/listing"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// JobFilter restringe el listado de órdenes a un cliente o vehículo.
type JobFilter struct {
	CustomerID string
	VehicleID  string
}

// JobUseCase casos de uso de órdenes de trabajo.
type JobUseCase struct {
	repo         repository.JobRepository
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
}

// NewJobUseCase construye el caso de uso.
func NewJobUseCase(repo repository.JobRepository, customerRepo repository.CustomerRepository, vehicleRepo repository.VehicleRepository) *JobUseCase {
	return &JobUseCase{repo: repo, customerRepo: customerRepo, vehicleRepo: vehicleRepo}
}

// Create abre una orden para un vehículo del cliente y registra la visita del cliente.
func (uc *JobUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreateJobRequest) (*dto.JobResponse, error) {
	customer, err := auth.Owned(ctx, sess, in.CustomerID, uc.customerRepo.GetByID, func(c *entity.Customer) string { return c.ServiceID })
	if err != nil {
		return nil, err
	}
	vehicle, err := auth.Owned(ctx, sess, in.VehicleID, uc.vehicleRepo.GetByID, func(v *entity.Vehicle) string { return v.ServiceID })
	if err != nil {
		return nil, err
	}
	if vehicle.CustomerID != customer.ID {
		return nil, domain.ErrInvalidInput
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.JobStatusPending
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.JobPriorityMedium
	}
	now := time.Now().UTC()
	job := &entity.Job{
		ID:            uuid.New().String(),
		ServiceID:     sess.ServiceID,
		CustomerID:    customer.ID,
		VehicleID:     vehicle.ID,
		Title:         title,
		Description:   patch.Optional(in.Description),
		Status:        status,
		Priority:      priority,
		WorkItems:     cleanWorkItems(in.WorkItems),
		EstimatedCost: in.EstimatedCost,
		AssignedTo:    patch.Optional(in.AssignedTo),
		ScheduledDate: utcOpt(in.ScheduledDate),
		Notes:         patch.Optional(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == entity.JobStatusCompleted {
		job.CompletedAt = &now
	}
	if err := uc.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := uc.customerRepo.RecordVisit(ctx, customer.ID, now); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// GetByID obtiene una orden del taller.
func (uc *JobUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.JobResponse, error) {
	job, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// List lista las órdenes del taller. search busca en título, descripción y responsable.
func (uc *JobUseCase) List(ctx context.Context, sess auth.Session, f JobFilter, q dto.ListQuery) (*dto.ListResponse[dto.JobResponse], error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	var (
		list []*entity.Job
		err  error
	)
	switch {
	case f.VehicleID != "":
		list, err = uc.repo.ListByVehicle(ctx, f.VehicleID)
	case f.CustomerID != "":
		list, err = uc.repo.ListByCustomer(ctx, f.CustomerID)
	default:
		list, err = uc.repo.ListByService(ctx, sess.ServiceID)
	}
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(j *entity.Job) bool {
		return j.ServiceID == sess.ServiceID &&
			(f.CustomerID == "" || j.CustomerID == f.CustomerID) &&
			listing.MatchesSearch(q.Search, &j.Title, j.Description, j.AssignedTo) &&
			listing.MatchesFilter(q.Status, j.Status) &&
			listing.MatchesFilter(q.Priority, j.Priority)
	})
	items := make([]dto.JobResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *toJobResponse(j))
	}
	return &dto.ListResponse[dto.JobResponse]{Items: items, Total: len(items)}, nil
}

// Update aplica una actualización parcial.
func (uc *JobUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	patch.String(&job.Title, in.Title)
	patch.OptionalString(&job.Description, in.Description)
	patch.Set(&job.Priority, in.Priority)
	if in.WorkItems != nil {
		job.WorkItems = cleanWorkItems(*in.WorkItems)
	}
	patch.Pointer(&job.EstimatedCost, in.EstimatedCost)
	patch.Pointer(&job.ActualCost, in.ActualCost)
	patch.OptionalString(&job.AssignedTo, in.AssignedTo)
	if in.ScheduledDate != nil {
		job.ScheduledDate = utcOpt(in.ScheduledDate)
	}
	patch.OptionalString(&job.Notes, in.Notes)
	if job.Title == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	if in.Status != nil {
		setJobStatus(job, *in.Status, now)
	}
	job.UpdatedAt = now
	if err := uc.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// UpdateStatus cambia el estado. Pasar a completed fija completed_at.
func (uc *JobUseCase) UpdateStatus(ctx context.Context, sess auth.Session, id, status string) (*dto.JobResponse, error) {
	if !entity.ValidJobStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	job, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	setJobStatus(job, status, now)
	job.UpdatedAt = now
	if err := uc.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// Delete elimina una orden del taller.
func (uc *JobUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	job, err := uc.load(ctx, sess, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, job.ID)
}

// Stats conteo por estado y montos estimados / reales.
func (uc *JobUseCase) Stats(ctx context.Context, sess auth.Session) (*dto.JobStats, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByService(ctx, sess.ServiceID)
	if err != nil {
		return nil, err
	}
	out := &dto.JobStats{
		Total:      len(list),
		ByStatus:   listing.CountBy(list, func(j *entity.Job) string { return j.Status }),
		Estimated:  decimal.Zero,
		ActualCost: decimal.Zero,
	}
	for _, j := range list {
		if j.EstimatedCost != nil {
			out.Estimated = out.Estimated.Add(*j.EstimatedCost)
		}
		if j.ActualCost != nil {
			out.ActualCost = out.ActualCost.Add(*j.ActualCost)
		}
	}
	return out, nil
}

func (uc *JobUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.Job, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(j *entity.Job) string { return j.ServiceID })
}

func setJobStatus(job *entity.Job, status string, now time.Time) {
	if status == job.Status {
		return
	}
	job.Status = status
	if status == entity.JobStatusCompleted {
		job.CompletedAt = &now
		return
	}
	job.CompletedAt = nil
}

func cleanWorkItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func utcOpt(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func toJobResponse(j *entity.Job) *dto.JobResponse {
	items := j.WorkItems
	if items == nil {
		items = []string{}
	}
	return &dto.JobResponse{
		ID:            j.ID,
		ServiceID:     j.ServiceID,
		CustomerID:    j.CustomerID,
		VehicleID:     j.VehicleID,
		Title:         j.Title,
		Description:   j.Description,
		Status:        j.Status,
		Priority:      j.Priority,
		WorkItems:     items,
		EstimatedCost: j.EstimatedCost,
		ActualCost:    j.ActualCost,
		AssignedTo:    j.AssignedTo,
		ScheduledDate: j.ScheduledDate,
		CompletedAt:   j.CompletedAt,
		Notes:         j.Notes,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}
