package api

import (
	"bytes"         // Null detection
	"encoding/json" // Raw due date decoding
	"fmt"           // Error wrapping
	"net/http"      // HTTP status codes
	"strconv"       // Query parsing
	"time"          // Due dates

	"taskagotchi/internal/domain"  // Domain models
	"taskagotchi/internal/service" // Task ledger

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateTaskRequest is the payload of POST /tasks
type CreateTaskRequest struct {
	UserID       *uint      `json:"user_id"`                      // Defaults to the caller
	TaskName     string     `json:"task_name" binding:"required"` // Task name
	TaskType     string     `json:"task_type" binding:"required"` // short-term, long-term or daily
	DueDate      *time.Time `json:"due_date"`                     // Optional due date (RFC3339)
	TaskRenewed  bool       `json:"task_renewed"`                 // Renewed flag
	TaskComplete bool       `json:"task_complete"`                // Complete flag
}

// UpdateTaskRequest is the payload of PATCH /tasks. Absent fields are left unchanged;
// "due_date": null clears the due date.
type UpdateTaskRequest struct {
	ID           *uint           `json:"id"`
	TaskName     *string         `json:"task_name"`
	TaskType     *string         `json:"task_type"`
	DueDate      json.RawMessage `json:"due_date"`
	TaskRenewed  *bool           `json:"task_renewed"`
	TaskComplete *bool           `json:"task_complete"`
}

// TaskIDRequest is the payload of DELETE /tasks
type TaskIDRequest struct {
	ID *uint `json:"id"`
}

// ListTasksHandler returns tasks filtered by owner, completion and type, ordered by due date
func ListTasksHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter service.TaskFilter
		if owner := c.Query("owner"); owner != "" {
			v, err := strconv.ParseUint(owner, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner"})
				return
			}
			id := uint(v)
			filter.Owner = &id
		}
		if completed := c.Query("completed"); completed != "" {
			v, err := strconv.ParseBool(completed)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completed flag"})
				return
			}
			filter.Completed = &v
		}
		if typ := c.Query("type"); typ != "" {
			tt := domain.TaskType(typ)
			if !tt.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task type"})
				return
			}
			filter.Type = &tt
		}
		list, err := tasks.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": list})
	}
}

// CreateTaskHandler creates a task owned by the caller
func CreateTaskHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		var req CreateTaskRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid field"})
			return
		}
		// Tasks can only be created for yourself
		if req.UserID != nil && *req.UserID != userID {
			writeError(c, fmt.Errorf("%w: cannot create tasks for another user", domain.ErrForbidden))
			return
		}
		task, err := tasks.Create(c.Request.Context(), service.NewTask{
			Owner:    userID,
			Name:     req.TaskName,
			Type:     domain.TaskType(req.TaskType),
			DueDate:  req.DueDate,
			Renewed:  req.TaskRenewed,
			Complete: req.TaskComplete,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

// UpdateTaskHandler overwrites the supplied fields of one of the caller's tasks
func UpdateTaskHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		var req UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.ID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing task id"})
			return
		}
		patch, err := req.patch()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date"})
			return
		}
		if err := ensureOwnTask(c, tasks, *req.ID, userID); err != nil {
			writeError(c, err)
			return
		}
		task, err := tasks.Update(c.Request.Context(), *req.ID, patch)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func (r *UpdateTaskRequest) patch() (service.TaskPatch, error) {
	p := service.TaskPatch{
		Name:     r.TaskName,
		Renewed:  r.TaskRenewed,
		Complete: r.TaskComplete,
	}
	if r.TaskType != nil {
		tt := domain.TaskType(*r.TaskType)
		p.Type = &tt
	}
	switch {
	case len(r.DueDate) == 0:
	case bytes.Equal(bytes.TrimSpace(r.DueDate), []byte("null")):
		p.ClearDueDate = true
	default:
		var due time.Time
		if err := json.Unmarshal(r.DueDate, &due); err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	return p, nil
}

// DeleteTaskHandler deletes one of the caller's tasks. The id comes from the body or ?id=
func DeleteTaskHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		var req TaskIDRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}
		if req.ID == nil {
			if raw := c.Query("id"); raw != "" {
				if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
					id := uint(v)
					req.ID = &id
				}
			}
		}
		if req.ID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing task id"})
			return
		}
		if err := ensureOwnTask(c, tasks, *req.ID, userID); err != nil {
			writeError(c, err)
			return
		}
		if err := tasks.Delete(c.Request.Context(), *req.ID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
	}
}

// ensureOwnTask reports another user's task as not found so ids do not leak
func ensureOwnTask(c *gin.Context, tasks *service.TaskService, taskID, userID uint) error {
	task, err := tasks.Get(c.Request.Context(), taskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return fmt.Errorf("%w: task %d", domain.ErrNotFound, taskID)
	}
	return nil
}

// StreakHandler returns the caller's completion streak in days
func StreakHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		days, err := tasks.Streak(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"streak_days": days})
	}
}
