package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TaskStatus is the workflow state of a stack task.
type TaskStatus int

const (
	StatusReady TaskStatus = iota
	StatusInProgress
	StatusTesting
	StatusComplete
	StatusBlocked
)

var statusNames = map[TaskStatus]string{
	StatusReady:      "ready",
	StatusInProgress: "in-progress",
	StatusTesting:    "testing",
	StatusComplete:   "complete",
	StatusBlocked:    "blocked",
}

func (s TaskStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Statuses lists every status in workflow order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusReady, StatusInProgress, StatusTesting, StatusComplete, StatusBlocked}
}

// ParseStatus accepts a status name ("in-progress") or its number ("1").
func ParseStatus(s string) (TaskStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for st, name := range statusNames {
		if s == name || s == fmt.Sprint(int(st)) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Rating bounds for every scored dimension.
const (
	MinRating = 1
	MaxRating = 5
)

// RailTask is a lightweight, partially described task pending promotion.
type RailTask struct {
	ID        int64     `json:"id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	ProjectID int64     `json:"project_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Scores groups the dimensions a stack task is rated on.
type Scores struct {
	Complexity    int `json:"complexity"`
	UsersAffected int `json:"users_affected"`
	Retention     int `json:"retention"`
	Conversion    int `json:"conversion"`
	Confidence    int `json:"confidence"`
}

// Validate checks that every dimension is within [MinRating, MaxRating].
func (s Scores) Validate() error {
	fields := []struct {
		name string
		v    int
	}{
		{"complexity", s.Complexity},
		{"users affected", s.UsersAffected},
		{"retention", s.Retention},
		{"conversion", s.Conversion},
		{"confidence", s.Confidence},
	}
	for _, f := range fields {
		if f.v < MinRating || f.v > MaxRating {
			return fmt.Errorf("%s must be between %d and %d, got %d", f.name, MinRating, MaxRating, f.v)
		}
	}
	return nil
}

// Value is the priority score: value delivered, weighted by confidence,
// divided by the effort.
func (s Scores) Value() float64 {
	if s.Complexity <= 0 {
		return 0
	}
	return float64(s.UsersAffected+s.Retention+s.Conversion) * float64(s.Confidence) / float64(s.Complexity)
}

// StackTask is a fully scored task record.
type StackTask struct {
	ID          int64  `json:"id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	ProjectID   int64  `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Scores
	Status    TaskStatus `json:"status"`
	Pinned    bool       `json:"pinned"`
	Tags      []Tag      `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
}

// Score is the task's priority value.
func (t StackTask) Score() float64 { return t.Scores.Value() }

// TagNames returns the tag labels in stored order.
func (t StackTask) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tg := range t.Tags {
		names = append(names, tg.Tag)
	}
	return names
}

// Tag links a label to a stack task. ID is the stack task id.
type Tag struct {
	ID  int64  `json:"id"`
	Tag string `json:"tag"`
}

// SortByPriority orders tasks pinned first, then by descending score, then
// by ascending id so the order is stable across invocations.
func SortByPriority(tasks []StackTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if sa, sb := a.Score(), b.Score(); sa != sb {
			return sa > sb
		}
		return a.ID < b.ID
	})
}
