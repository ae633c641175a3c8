// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses. A task moves to review automatically once every assignee's
// subtask reaches completed or review; overdue is applied by the background
// scanner when the deadline passes.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskReview     = "review"
	TaskCompleted  = "completed"
	TaskOnHold     = "on_hold"
	TaskOverdue    = "overdue"
)

// SubTask tracks one assignee's slice of a task.
type SubTask struct {
	AssigneeID primitive.ObjectID `bson:"assignee_id" json:"assignee_id"`
	Title      string             `bson:"title,omitempty" json:"title,omitempty"`
	Status     string             `bson:"status" json:"status"`
	Progress   int                `bson:"progress" json:"progress"` // 0..100
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// ActivityEntry is one append-only audit line on a task.
type ActivityEntry struct {
	ActorID primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Action  string             `bson:"action" json:"action"`
	Detail  string             `bson:"detail,omitempty" json:"detail,omitempty"`
	At      time.Time          `bson:"at" json:"at"`
}

// Task belongs to exactly one project. Progress is the arithmetic mean of
// its subtasks' progress and is recomputed on every subtask update.
type Task struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Project primitive.ObjectID `bson:"project" json:"project"`

	Title       string `bson:"title" json:"title"`
	TitleCI     string `bson:"title_ci" json:"-"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Priority    string `bson:"priority,omitempty" json:"priority,omitempty"`

	Status   string `bson:"status" json:"status"`
	Progress int    `bson:"progress" json:"progress"`

	AssignedTo  []primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	SubTasks    []SubTask            `bson:"sub_tasks,omitempty" json:"sub_tasks,omitempty"`
	ActivityLog []ActivityEntry      `bson:"activity_log,omitempty" json:"activity_log,omitempty"`

	Deadline  *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAssignee reports whether uid is one of the task's assignees.
func (t Task) IsAssignee(uid primitive.ObjectID) bool {
	for _, a := range t.AssignedTo {
		if a == uid {
			return true
		}
	}
	return false
}

// RecomputeProgress sets Progress to the mean of subtask progress and
// escalates Status to review when every subtask is completed or in review.
// Tasks with no subtasks are left untouched.
func (t *Task) RecomputeProgress() {
	if len(t.SubTasks) == 0 {
		return
	}
	sum := 0
	allDone := true
	for _, st := range t.SubTasks {
		sum += st.Progress
		if st.Status != TaskCompleted && st.Status != TaskReview {
			allDone = false
		}
	}
	t.Progress = sum / len(t.SubTasks)
	if allDone && t.Status != TaskCompleted {
		t.Status = TaskReview
	}
}
