package tasks

import (
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/policy/taskpolicy"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type subTaskRequest struct {
	// AssigneeID defaults to the caller; admins and managers can set it
	// to adjust someone else's slice.
	AssigneeID string `json:"assignee_id"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
}

// HandleUpdateSubTask updates one assignee's slice of a task. Task
// progress becomes the mean of subtask progress, and the task escalates
// to review once every subtask is completed or in review.
func (h *Handler) HandleUpdateSubTask(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTask(w, r)
	if !ok {
		return
	}
	cur := gates.Current(w, r)
	if !cur.OK {
		return
	}

	var req subTaskRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	if !validTaskStatus(req.Status) {
		respond.BadRequest(w, "Unknown subtask status")
		return
	}
	if req.Progress < 0 || req.Progress > 100 {
		respond.BadRequest(w, "Progress must be between 0 and 100")
		return
	}

	assignee := cur.UserID
	if req.AssigneeID != "" {
		id, err := primitive.ObjectIDFromHex(req.AssigneeID)
		if err != nil {
			respond.BadRequest(w, "Invalid assignee id")
			return
		}
		assignee = id
	}
	if !taskpolicy.CanUpdateSubTask(r, t, assignee) {
		respond.Forbidden(w, "You can only update your own subtask")
		return
	}

	idx := -1
	for i, st := range t.SubTasks {
		if st.AssigneeID == assignee {
			idx = i
			break
		}
	}
	if idx < 0 {
		respond.NotFound(w, "No subtask for that assignee")
		return
	}

	now := time.Now()
	t.SubTasks[idx].Status = req.Status
	t.SubTasks[idx].Progress = req.Progress
	t.SubTasks[idx].UpdatedAt = now
	t.RecomputeProgress()
	t.ActivityLog = append(t.ActivityLog, models.ActivityEntry{
		ActorID: cur.UserID,
		Action:  "subtask",
		Detail:  req.Status,
		At:      now,
	})

	ctx, cancel := shortCtx(r)
	defer cancel()

	if err := h.Tasks.Replace(ctx, t); err != nil {
		h.Log.Error("tasks: update subtask", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}
