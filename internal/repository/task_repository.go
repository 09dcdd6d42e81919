package repository

import (
	"context"
	"time"

	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// List returns tasks, optionally restricted to one project
func (r *TaskRepository) List(ctx context.Context, projectID *uint, page Page) ([]domain.Task, error) {
	tasks := []domain.Task{}
	query := r.db.WithContext(ctx).Order(recentFirst)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	err := page.apply(query).Find(&tasks).Error
	return tasks, err
}

// TaskStats buckets tasks relative to a reference day
type TaskStats struct {
	Overdue    int64
	DueToday   int64
	Completed  int64
	InProgress int64
}

// Stats counts overdue (due before the start of today and not completed),
// due today, completed and in-progress tasks. now is interpreted in UTC.
func (r *TaskRepository) Stats(ctx context.Context, now time.Time) (*TaskStats, error) {
	now = now.UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrowStart := todayStart.Add(24 * time.Hour)

	var stats TaskStats
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select(`COALESCE(SUM(CASE WHEN due_date < ? AND status <> ? THEN 1 ELSE 0 END), 0) as overdue,
			COALESCE(SUM(CASE WHEN due_date >= ? AND due_date < ? THEN 1 ELSE 0 END), 0) as due_today,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as completed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as in_progress`,
			todayStart, domain.TaskStatusCompleted,
			todayStart, tomorrowStart,
			domain.TaskStatusCompleted,
			domain.TaskStatusInProgress).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
