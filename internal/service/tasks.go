package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskagotchi/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TaskFilter narrows List. Nil fields are not applied; set fields must all match.
type TaskFilter struct {
	Owner     *uint
	Completed *bool
	Type      *domain.TaskType
}

// NewTask holds the fields accepted by Create.
type NewTask struct {
	Owner    uint
	Name     string
	Type     domain.TaskType
	DueDate  *time.Time
	Renewed  bool
	Complete bool
}

// TaskPatch holds the fields accepted by Update. Nil fields keep their stored value;
// ClearDueDate removes the due date.
type TaskPatch struct {
	Name         *string
	Type         *domain.TaskType
	DueDate      *time.Time
	ClearDueDate bool
	Renewed      *bool
	Complete     *bool
}

// TaskService stores tasks and computes completion streaks.
type TaskService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTaskService creates the task service.
func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, now: time.Now}
}

// List returns the tasks matching f ordered by due date. Tasks without a due date come
// last and ties are broken by id.
func (s *TaskService) List(ctx context.Context, f TaskFilter) ([]domain.Task, error) {
	q := s.db.WithContext(ctx).Model(&domain.Task{})
	if f.Owner != nil {
		q = q.Where("user_id = ?", *f.Owner)
	}
	if f.Completed != nil {
		q = q.Where("task_complete = ?", *f.Completed)
	}
	if f.Type != nil {
		q = q.Where("task_type = ?", *f.Type)
	}
	var tasks []domain.Task
	err := q.Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END").
		Order("due_date ASC").
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the task with the given id.
func (s *TaskService) Get(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return &task, nil
}

// Create validates and stores a new task for n.Owner.
func (s *TaskService) Create(ctx context.Context, n NewTask) (*domain.Task, error) {
	task := domain.Task{
		UserID:    n.Owner,
		Name:      n.Name,
		Type:      n.Type,
		CreatedAt: s.now().UTC(),
		DueDate:   utcPtr(n.DueDate),
		Renewed:   n.Renewed,
		Complete:  n.Complete,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, n.Owner); err != nil {
			return err
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": task.UserID, "task_id": task.ID, "type": task.Type}).Info("Task created")
	return &task, nil
}

// Update overwrites the fields set in p and returns the stored task.
func (s *TaskService) Update(ctx context.Context, id uint, p TaskPatch) (*domain.Task, error) {
	var task domain.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: task %d", domain.ErrNotFound, id)
			}
			return err
		}
		if p.Name != nil {
			task.Name = *p.Name
		}
		if p.Type != nil {
			task.Type = *p.Type
		}
		if p.ClearDueDate {
			task.DueDate = nil
		} else if p.DueDate != nil {
			task.DueDate = utcPtr(p.DueDate)
		}
		if p.Renewed != nil {
			task.Renewed = *p.Renewed
		}
		if p.Complete != nil {
			task.Complete = *p.Complete
		}
		if err := task.Validate(); err != nil {
			return err
		}
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes the task with the given id.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: task %d", domain.ErrNotFound, id)
	}
	return nil
}

// Streak counts consecutive UTC calendar days, ending today, on which owner has at least one
// completed task created that day. It is 0 when today has none.
func (s *TaskService) Streak(ctx context.Context, owner uint) (int, error) {
	var tasks []domain.Task
	if err := s.db.WithContext(ctx).
		Select("created_date").
		Where("user_id = ? AND task_complete = ?", owner, true).
		Find(&tasks).Error; err != nil {
		return 0, fmt.Errorf("load completed tasks: %w", err)
	}
	days := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		days[t.CreatedAt.UTC().Format(time.DateOnly)] = struct{}{}
	}
	return countStreak(days, s.now().UTC()), nil
}

// countStreak walks backward from today while each day is present in days.
func countStreak(days map[string]struct{}, today time.Time) int {
	streak := 0
	for day := today; ; day = day.AddDate(0, 0, -1) {
		if _, ok := days[day.Format(time.DateOnly)]; !ok {
			return streak
		}
		streak++
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
