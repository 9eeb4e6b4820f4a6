package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task is a sum type over the three task tables. The concrete types are
// PredefinedTask, CompanyTask and CaseTask; switch on them exhaustively when
// variant-specific fields are needed.
type Task interface {
	Common() *TaskFields
	Origin() TaskOrigin
	isTask()
}

// TaskFields are shared by every task variant. TaskID always holds the same
// value as the variant's own primary key.
type TaskFields struct {
	TaskID       uuid.UUID     `json:"task_id"`
	OriginType   TaskOrigin    `json:"origin_type"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Status       TaskStatus    `json:"status"`
	Priority     int           `json:"priority"`
	DueDate      *time.Time    `json:"due_date"`
	CategoryID   *uuid.UUID    `json:"category_id"`
	Category     *TaskCategory `json:"category"`
	AssignedTo   *uuid.UUID    `json:"assigned_to"`
	AssignedUser *UserRef      `json:"assigned_user"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type PredefinedTask struct {
	TaskFields
	PredefinedTaskID uuid.UUID `json:"predefined_task_id"`
}

type CompanyTask struct {
	TaskFields
	CompanyTaskID uuid.UUID   `json:"company_task_id"`
	CompanyID     uuid.UUID   `json:"company_id"`
	Company       *CompanyRef `json:"company"`
}

type CaseTask struct {
	TaskFields
	CaseTaskID uuid.UUID `json:"case_task_id"`
	CaseID     uuid.UUID `json:"case_id"`
	Case       *CaseRef  `json:"case"`
}

func (t *PredefinedTask) Common() *TaskFields { return &t.TaskFields }
func (t *CompanyTask) Common() *TaskFields    { return &t.TaskFields }
func (t *CaseTask) Common() *TaskFields       { return &t.TaskFields }

func (t *PredefinedTask) Origin() TaskOrigin { return OriginPredefined }
func (t *CompanyTask) Origin() TaskOrigin    { return OriginCompany }
func (t *CaseTask) Origin() TaskOrigin       { return OriginCase }

func (*PredefinedTask) isTask() {}
func (*CompanyTask) isTask()    {}
func (*CaseTask) isTask()       {}

// TaskParentID returns the owning company or case id, nil for predefined tasks.
func TaskParentID(t Task) *uuid.UUID {
	switch v := t.(type) {
	case *PredefinedTask:
		return nil
	case *CompanyTask:
		id := v.CompanyID
		return &id
	case *CaseTask:
		id := v.CaseID
		return &id
	default:
		panic(fmt.Sprintf("unknown task variant %T", t))
	}
}

// TaskList is a slice of tasks that can be decoded from JSON by looking at
// each element's origin_type.
type TaskList []Task

func (l *TaskList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(TaskList, 0, len(raw))
	for _, r := range raw {
		t, err := DecodeTask(r)
		if err != nil {
			return err
		}
		out = append(out, t)
	}
	*l = out
	return nil
}

// TaskItem wraps a single, possibly nil, task for JSON decoding.
type TaskItem struct {
	Task Task
}

func (i TaskItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Task)
}

func (i *TaskItem) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		i.Task = nil
		return nil
	}
	t, err := DecodeTask(data)
	if err != nil {
		return err
	}
	i.Task = t
	return nil
}

// DecodeTask decodes one task, choosing the variant from origin_type.
func DecodeTask(data []byte) (Task, error) {
	var head struct {
		OriginType string `json:"origin_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	origin, ok := ParseEnum(TaskOrigins, head.OriginType)
	if !ok {
		return nil, fmt.Errorf("unknown task origin_type %q", head.OriginType)
	}

	var t Task
	switch origin {
	case OriginPredefined:
		t = &PredefinedTask{}
	case OriginCompany:
		t = &CompanyTask{}
	case OriginCase:
		t = &CaseTask{}
	}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}
	return t, nil
}
