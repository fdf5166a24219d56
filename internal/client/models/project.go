package models

import "time"

// Project is a row of the projects table.
type Project struct {
	ID          int64     `json:"id,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	Name        string    `json:"project_name"`
	Problem     string    `json:"problem"`
	Description string    `json:"description"`
	Nickname    string    `json:"nickname"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// CurrentProject is the cached pointer to the project the user works on.
type CurrentProject struct {
	ID          int64  `json:"id"`
	Name        string `json:"project_name"`
	Problem     string `json:"problem"`
	Description string `json:"description"`
	Nickname    string `json:"nickname"`
}

// Pointer snapshots p for the local project file.
func (p Project) Pointer() CurrentProject {
	return CurrentProject{
		ID:          p.ID,
		Name:        p.Name,
		Problem:     p.Problem,
		Description: p.Description,
		Nickname:    p.Nickname,
	}
}
