package testmodels

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/dataaccess/errors"
	"github.com/suparena/dataaccess/registry"
)

func init() {
	registry.RegisterType("Task", func() *Task { return &Task{} })
	registry.RegisterType("BrokenTask", func() *BrokenTask { return &BrokenTask{} })
	registry.RegisterType("Label", func() *Label { return &Label{} })
}

type Task struct {

	// Unique identifier of the task.
	// Required: true
	ID uuid.UUID `json:"id"`

	// Short description.
	Title string `json:"title"`

	// Higher runs first.
	Priority int `json:"priority"`

	// Whether the task is finished.
	Done bool `json:"done"`

	// Timestamp when the task was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"createdAt"`
}

func (*Task) EntityName() string { return "Task" }

func (*Task) IDField() string { return "id" }

func (t *Task) ToModel() (TaskModel, error) {
	return TaskModel{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  t.Priority,
		Done:      t.Done,
		CreatedAt: time.Time(t.CreatedAt),
	}, nil
}

// TaskModel is the store independent projection of a Task.
type TaskModel struct {
	ID        uuid.UUID
	Title     string
	Priority  int
	Done      bool
	CreatedAt time.Time
}

// BrokenTask stores like a Task but can never be projected to a model.
type BrokenTask struct {
	Task
}

func (*BrokenTask) EntityName() string { return "BrokenTask" }

func (*BrokenTask) ToModel() (TaskModel, error) {
	return TaskModel{}, errors.NewFailCreateModel("TaskModel")
}

// Label has a plain string identity.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (*Label) EntityName() string { return "Label" }

func (*Label) IDField() string { return "id" }

func (l *Label) ToModel() (LabelModel, error) {
	return LabelModel{ID: l.ID, Name: l.Name}, nil
}

type LabelModel struct {
	ID   string
	Name string
}
