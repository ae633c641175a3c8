// Package taskpolicy provides authorization policies for tasks.
//
// Authorization rules:
//   - Admins and managers create, edit, and delete tasks
//   - Assignees view their tasks and update their own subtask progress
//   - Everyone's task list is scoped to their own assignments except
//     admins and managers, who see the workspace
package taskpolicy

import (
	"net/http"

	"github.com/dalemusser/dintask/internal/app/system/authz"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListScope describes which tasks the current user may list.
type ListScope struct {
	CanList bool
	// OwnOnly restricts the list to tasks assigned to the user.
	OwnOnly bool
	UserID  primitive.ObjectID
}

// CanListTasks determines the task list scope for the current user.
func CanListTasks(r *http.Request) ListScope {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return ListScope{}
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return ListScope{CanList: true}
	case models.RoleSales, models.RoleEmployee:
		return ListScope{CanList: true, OwnOnly: true, UserID: uid}
	default:
		return ListScope{}
	}
}

// CanViewTask reports whether the current user can read the task.
func CanViewTask(r *http.Request, t models.Task) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return true
	case models.RoleSales, models.RoleEmployee:
		return t.IsAssignee(uid)
	default:
		return false
	}
}

// CanManageTask reports whether the current user can edit or delete the
// task itself (not just a subtask).
func CanManageTask(r *http.Request) bool {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	return role == models.RoleAdmin || role == models.RoleManager
}

// CanUpdateSubTask reports whether the current user can update the subtask
// belonging to assignee. Assignees touch only their own slice; admins and
// managers can adjust anyone's.
func CanUpdateSubTask(r *http.Request, t models.Task, assignee primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return true
	case models.RoleSales, models.RoleEmployee:
		return uid == assignee && t.IsAssignee(uid)
	default:
		return false
	}
}
