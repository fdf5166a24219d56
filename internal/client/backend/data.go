package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

const (
	tableProfile  = "profile"
	tableProjects = "projects"
	tableRail     = "rail"
	tableStack    = "stack"
	tableTags     = "tags"

	preferRepresentation = "return=representation"
)

var columnPattern = regexp.MustCompile(`^[a-z_]+$`)

type profileRow struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type projectRow struct {
	Name        string `json:"project_name"`
	Problem     string `json:"problem"`
	Description string `json:"description"`
	Nickname    string `json:"nickname"`
}

// userID resolves the caller. Every table query is filtered by it.
func (c *HTTPClient) userID(ctx context.Context) (string, error) {
	u, err := c.GetUser(ctx)
	if err != nil {
		return "", err
	}
	if u == nil || u.ID == "" {
		return "", ErrNotAuthenticated
	}
	return u.ID, nil
}

func (c *HTTPClient) InsertProfile(ctx context.Context, p models.ProfileDraft) error {
	if _, err := c.userID(ctx); err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   restPath(tableProfile),
		body: profileRow{
			FirstName: p.FirstName,
			Surname:   p.Surname,
			Username:  p.Username,
			Email:     p.Email,
		},
	}, nil)
}

func (c *HTTPClient) InsertProject(ctx context.Context, p models.Project) (*models.Project, error) {
	if _, err := c.userID(ctx); err != nil {
		return nil, err
	}
	var rows []models.Project
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    restPath(tableProjects),
		headers: map[string]string{"Prefer": preferRepresentation},
		body: projectRow{
			Name:        p.Name,
			Problem:     p.Problem,
			Description: p.Description,
			Nickname:    p.Nickname,
		},
	}, &rows)
	if err != nil {
		return nil, err
	}
	return firstRow(rows, tableProjects)
}

func (c *HTTPClient) SelectProjects(ctx context.Context) ([]models.Project, error) {
	return c.selectProjects(ctx, nil)
}

// SelectProjectBy returns the caller's projects whose column equals value.
func (c *HTTPClient) SelectProjectBy(ctx context.Context, column string, value any) ([]models.Project, error) {
	if !columnPattern.MatchString(column) {
		return nil, fmt.Errorf("invalid column %q", column)
	}
	return c.selectProjects(ctx, url.Values{column: {eq(value)}})
}

func (c *HTTPClient) selectProjects(ctx context.Context, filter url.Values) ([]models.Project, error) {
	uid, err := c.userID(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"select":  {"*"},
		"user_id": {eq(uid)},
		"order":   {"id.asc"},
	}
	for k, v := range filter {
		q[k] = v
	}

	var rows []models.Project
	if err := c.do(ctx, request{method: http.MethodGet, path: restPath(tableProjects), query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func restPath(table string) string {
	return restPrefix + "/" + table
}

func firstRow[T any](rows []T, table string) (*T, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no row returned: %w", table, ErrNotFound)
	}
	return &rows[0], nil
}
