// Package taskstore persists tasks and their per-assignee subtasks.
package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/search"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("task not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "project", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "deadline", Value: 1}}},
	})
	return err
}

// Create inserts a task, seeding one subtask per assignee so progress
// tracking starts at zero for everyone.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	t.Title = normalize.Name(t.Title)
	t.TitleCI = text.Fold(t.Title)
	if t.Status == "" {
		t.Status = models.TaskTodo
	}

	now := time.Now()
	if len(t.SubTasks) == 0 {
		for _, a := range t.AssignedTo {
			t.SubTasks = append(t.SubTasks, models.SubTask{
				AssigneeID: a,
				Status:     models.TaskTodo,
				UpdatedAt:  now,
			})
		}
	}
	t.ActivityLog = append(t.ActivityLog, models.ActivityEntry{
		ActorID: t.CreatedBy,
		Action:  "created",
		At:      now,
	})
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) Get(ctx context.Context, tenantID, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Task{}, ErrNotFound
	}
	return t, err
}

// Filter narrows List.
type Filter struct {
	Project  *primitive.ObjectID
	Assignee *primitive.ObjectID
	Status   string
	Search   string
}

func (s *Store) List(ctx context.Context, tenantID primitive.ObjectID, f Filter, p paging.Params) ([]models.Task, int64, error) {
	filter := bson.M{"tenant_id": tenantID}
	if f.Project != nil {
		filter["project"] = *f.Project
	}
	if f.Assignee != nil {
		filter["assigned_to"] = *f.Assignee
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		for k, v := range search.FoldPrefix("title_ci", f.Search) {
			filter[k] = v
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update holds the editable task fields.
type Update struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  []primitive.ObjectID
	Deadline    *time.Time
}

func (s *Store) Update(ctx context.Context, tenantID, id primitive.ObjectID, upd Update, actorID primitive.ObjectID) error {
	title := normalize.Name(upd.Title)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{
		"$set": bson.M{
			"title":       title,
			"title_ci":    text.Fold(title),
			"description": upd.Description,
			"priority":    upd.Priority,
			"assigned_to": upd.AssignedTo,
			"deadline":    upd.Deadline,
			"updated_at":  time.Now(),
		},
		"$push": bson.M{"activity_log": models.ActivityEntry{
			ActorID: actorID,
			Action:  "updated",
			At:      time.Now(),
		}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates the task status and logs the transition.
func (s *Store) SetStatus(ctx context.Context, tenantID, id primitive.ObjectID, status string, actorID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
		"$push": bson.M{"activity_log": models.ActivityEntry{
			ActorID: actorID,
			Action:  "status",
			Detail:  status,
			At:      time.Now(),
		}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Replace stores the whole task document back, used after in-memory
// subtask/progress recomputation.
func (s *Store) Replace(ctx context.Context, t models.Task) error {
	t.UpdatedAt = time.Now()
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": t.ID, "tenant_id": t.TenantID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, tenantID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "tenant_id": tenantID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByProject removes every task belonging to a project (cascade on
// project delete). Returns the number removed.
func (s *Store) DeleteByProject(ctx context.Context, tenantID, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"tenant_id": tenantID, "project": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ProjectIDsForAssignee returns the distinct projects the user has tasks
// in. Drives the employee's project list.
func (s *Store) ProjectIDsForAssignee(ctx context.Context, tenantID, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	raw, err := s.c.Distinct(ctx, "project", bson.M{"tenant_id": tenantID, "assigned_to": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// SetStatusByProject pushes a status to every unfinished task in a
// project, used when the project is put on hold or resumed.
func (s *Store) SetStatusByProject(ctx context.Context, tenantID, projectID primitive.ObjectID, status string) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{
		"tenant_id": tenantID,
		"project":   projectID,
		"status":    bson.M{"$ne": models.TaskCompleted},
	}, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkOverdue flips tasks whose deadline has passed and that are not
// finished to the overdue status. Called by the background scanner.
func (s *Store) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{
		"deadline": bson.M{"$lt": now},
		"status":   bson.M{"$nin": []string{models.TaskCompleted, models.TaskOverdue}},
	}, bson.M{"$set": bson.M{"status": models.TaskOverdue, "updated_at": now}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountByStatus returns task counts per status for dashboards, optionally
// restricted to one assignee.
func (s *Store) CountByStatus(ctx context.Context, tenantID primitive.ObjectID, assignee *primitive.ObjectID) (map[string]int64, error) {
	match := bson.M{"tenant_id": tenantID}
	if assignee != nil {
		match["assigned_to"] = *assignee
	}
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
