package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

// stackRow is the writable part of a stack row. Tags live in their own table.
type stackRow struct {
	ProjectID   int64  `json:"project_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	models.Scores
	Status models.TaskStatus `json:"status"`
	Pinned bool              `json:"pinned,omitempty"`
}

type railRow struct {
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
}

type tagRow struct {
	Tag string `json:"tag"`
}

const stackSelect = "*,tags(id,tag)"

// SelectUserTags returns the distinct tags used on the caller's tasks in
// the given project, in first-seen order.
func (c *HTTPClient) SelectUserTags(ctx context.Context, projectID int64) ([]string, error) {
	uid, err := c.userID(ctx)
	if err != nil {
		return nil, err
	}

	var rows []tagRow
	err = c.do(ctx, request{
		method: http.MethodGet,
		path:   restPath(tableTags),
		query: url.Values{
			"select":           {"tag,stack!inner(user_id,project_id)"},
			"stack.user_id":    {eq(uid)},
			"stack.project_id": {eq(projectID)},
		},
	}, &rows)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	tags := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.Tag]; ok {
			continue
		}
		seen[r.Tag] = struct{}{}
		tags = append(tags, r.Tag)
	}
	return tags, nil
}

// InsertStack creates a stack task and attaches tags. When only the tags
// fail, the created task is returned together with an error wrapping
// ErrTagsNotSaved.
func (c *HTTPClient) InsertStack(ctx context.Context, t models.StackTask, tags []string) (*models.StackTask, error) {
	if _, err := c.userID(ctx); err != nil {
		return nil, err
	}

	var rows []models.StackTask
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    restPath(tableStack),
		headers: map[string]string{"Prefer": preferRepresentation},
		body:    toStackRow(t),
	}, &rows)
	if err != nil {
		return nil, err
	}
	created, err := firstRow(rows, tableStack)
	if err != nil {
		return nil, err
	}

	if err := c.upsertTags(ctx, created.ID, tags); err != nil {
		return created, fmt.Errorf("%w: %w", ErrTagsNotSaved, err)
	}
	created.Tags = toTags(created.ID, tags)
	return created, nil
}

// UpdateStack writes the editable fields of t. Tags are left untouched; see
// SetTags.
func (c *HTTPClient) UpdateStack(ctx context.Context, t models.StackTask) (*models.StackTask, error) {
	uid, err := c.userID(ctx)
	if err != nil {
		return nil, err
	}

	row := toStackRow(t)
	row.ProjectID = 0

	var rows []models.StackTask
	err = c.do(ctx, request{
		method:  http.MethodPatch,
		path:    restPath(tableStack),
		query:   url.Values{"id": {eq(t.ID)}, "user_id": {eq(uid)}},
		headers: map[string]string{"Prefer": preferRepresentation},
		body:    row,
	}, &rows)
	if err != nil {
		return nil, err
	}
	return firstRow(rows, tableStack)
}

// SetTags replaces the tags of a task.
func (c *HTTPClient) SetTags(ctx context.Context, taskID int64, tags []string) error {
	if _, err := c.userID(ctx); err != nil {
		return err
	}
	if err := c.deleteTags(ctx, taskID); err != nil {
		return err
	}
	return c.upsertTags(ctx, taskID, tags)
}

func (c *HTTPClient) DeleteStack(ctx context.Context, projectID, taskID int64) error {
	uid, err := c.userID(ctx)
	if err != nil {
		return err
	}
	if _, err := c.SelectStackBy(ctx, projectID, taskID); err != nil {
		return err
	}
	if err := c.deleteTags(ctx, taskID); err != nil {
		return err
	}

	var rows []models.StackTask
	err = c.do(ctx, request{
		method: http.MethodDelete,
		path:   restPath(tableStack),
		query: url.Values{
			"id":         {eq(taskID)},
			"user_id":    {eq(uid)},
			"project_id": {eq(projectID)},
		},
		headers: map[string]string{"Prefer": preferRepresentation},
	}, &rows)
	if err != nil {
		return err
	}
	_, err = firstRow(rows, tableStack)
	return err
}

// SelectStack returns the project's stack tasks with their tags, optionally
// restricted to one status.
func (c *HTTPClient) SelectStack(ctx context.Context, projectID int64, status *models.TaskStatus) ([]models.StackTask, error) {
	q := url.Values{}
	if status != nil {
		q.Set("status", eq(int(*status)))
	}
	return c.selectStack(ctx, projectID, q)
}

func (c *HTTPClient) SelectStackBy(ctx context.Context, projectID, taskID int64) (*models.StackTask, error) {
	rows, err := c.selectStack(ctx, projectID, url.Values{"id": {eq(taskID)}})
	if err != nil {
		return nil, err
	}
	return firstRow(rows, tableStack)
}

func (c *HTTPClient) selectStack(ctx context.Context, projectID int64, filter url.Values) ([]models.StackTask, error) {
	uid, err := c.userID(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"select":     {stackSelect},
		"user_id":    {eq(uid)},
		"project_id": {eq(projectID)},
		"order":      {"id.asc"},
	}
	for k, v := range filter {
		q[k] = v
	}

	var rows []models.StackTask
	if err := c.do(ctx, request{method: http.MethodGet, path: restPath(tableStack), query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) InsertRail(ctx context.Context, projectID int64, title string) (*models.RailTask, error) {
	if _, err := c.userID(ctx); err != nil {
		return nil, err
	}
	var rows []models.RailTask
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    restPath(tableRail),
		headers: map[string]string{"Prefer": preferRepresentation},
		body:    railRow{ProjectID: projectID, Title: title},
	}, &rows)
	if err != nil {
		return nil, err
	}
	return firstRow(rows, tableRail)
}

func (c *HTTPClient) SelectProjectRails(ctx context.Context, projectID int64) ([]models.RailTask, error) {
	return c.selectRails(ctx, projectID, nil)
}

// SelectRailBy returns the project's rail items whose column equals value.
func (c *HTTPClient) SelectRailBy(ctx context.Context, projectID int64, column string, value any) ([]models.RailTask, error) {
	if !columnPattern.MatchString(column) {
		return nil, fmt.Errorf("invalid column %q", column)
	}
	return c.selectRails(ctx, projectID, url.Values{column: {eq(value)}})
}

func (c *HTTPClient) selectRails(ctx context.Context, projectID int64, filter url.Values) ([]models.RailTask, error) {
	uid, err := c.userID(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"select":     {"*"},
		"user_id":    {eq(uid)},
		"project_id": {eq(projectID)},
		"order":      {"id.asc"},
	}
	for k, v := range filter {
		q[k] = v
	}

	var rows []models.RailTask
	if err := c.do(ctx, request{method: http.MethodGet, path: restPath(tableRail), query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) DeleteRail(ctx context.Context, railID int64) error {
	uid, err := c.userID(ctx)
	if err != nil {
		return err
	}
	var rows []models.RailTask
	err = c.do(ctx, request{
		method:  http.MethodDelete,
		path:    restPath(tableRail),
		query:   url.Values{"id": {eq(railID)}, "user_id": {eq(uid)}},
		headers: map[string]string{"Prefer": preferRepresentation},
	}, &rows)
	if err != nil {
		return err
	}
	_, err = firstRow(rows, tableRail)
	return err
}

func (c *HTTPClient) upsertTags(ctx context.Context, taskID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   restPath(tableTags),
		query:  url.Values{"on_conflict": {"id,tag"}},
		headers: map[string]string{
			"Prefer": strings.Join([]string{"resolution=ignore-duplicates", "return=minimal"}, ","),
		},
		body: toTags(taskID, tags),
	}, nil)
}

func (c *HTTPClient) deleteTags(ctx context.Context, taskID int64) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   restPath(tableTags),
		query:  url.Values{"id": {eq(taskID)}},
	}, nil)
}

func toStackRow(t models.StackTask) stackRow {
	return stackRow{
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Scores:      t.Scores,
		Status:      t.Status,
		Pinned:      t.Pinned,
	}
}

func toTags(taskID int64, tags []string) []models.Tag {
	out := make([]models.Tag, 0, len(tags))
	for _, tg := range tags {
		out = append(out, models.Tag{ID: taskID, Tag: tg})
	}
	return out
}
