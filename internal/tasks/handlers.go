package tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"inkwell/internal/events"
	"inkwell/internal/models"
	console "inkwell/internal/utils/logger"
)

var log = console.New("TASKS")

// TaskHandler processes background tasks against the database
type TaskHandler struct {
	db *gorm.DB
}

func NewTaskHandler(db *gorm.DB) *TaskHandler {
	return &TaskHandler{db: db}
}

// HandlePublishScan finds posts whose scheduled publish time has passed since
// the previous scan and announces them, so listeners (e.g. a static-site
// rebuild hook) can react. Visibility itself is decided at read time from
// published_at; this task only fires the notifications.
func (h *TaskHandler) HandlePublishScan(ctx context.Context, t *asynq.Task) error {
	var posts []models.Post
	cutoff := time.Now()
	window := cutoff.Add(-10 * time.Minute)

	err := h.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at <= ? AND published_at > ?", cutoff, window).
		Find(&posts).Error
	if err != nil {
		return log.Error("publish scan query failed", err)
	}

	for i := range posts {
		events.Emit("post.published", &posts[i])
	}
	if len(posts) > 0 {
		log.Success("announced %d newly published posts", len(posts))
	}
	return nil
}

// HandleMediaCleanup removes media rows that never got a storage object
// attached (aborted uploads leave the image key empty).
func (h *TaskHandler) HandleMediaCleanup(ctx context.Context, t *asynq.Task) error {
	result := h.db.WithContext(ctx).
		Where("image = '' AND url = ''").
		Delete(&models.Media{})
	if result.Error != nil {
		return log.Error("media cleanup failed", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Info("removed %d orphaned media rows", result.RowsAffected)
	}
	return nil
}
