package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

func (a *App) renderProjects(projects []models.Project, current int64) {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		mark := ""
		if p.ID == current {
			mark = "*"
		}
		rows = append(rows, []string{mark, strconv.FormatInt(p.ID, 10), p.Name, p.Nickname, p.Problem})
	}
	a.printer.Table([]string{"", "ID", "Name", "Nickname", "Problem"}, rows)
}

func (a *App) renderProject(p models.CurrentProject) {
	a.printer.Header(p.Name)
	a.printer.Field("ID", strconv.FormatInt(p.ID, 10))
	a.printer.Field("Nickname", p.Nickname)
	a.printer.Field("Problem", p.Problem)
	if p.Description != "" {
		a.printer.Field("Description", p.Description)
	}
}

func (a *App) renderTasks(tasks []models.StackTask) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := t.Title
		if t.Pinned {
			title = "(pinned) " + title
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			title,
			t.Status.String(),
			formatScore(t.Score()),
			strings.Join(t.TagNames(), ", "),
		})
	}
	a.printer.Table([]string{"ID", "Title", "Status", "Score", "Tags"}, rows)
}

func (a *App) renderRails(rails []models.RailTask) {
	rows := make([][]string, 0, len(rails))
	for _, r := range rails {
		rows = append(rows, []string{strconv.FormatInt(r.ID, 10), r.Title})
	}
	a.printer.Table([]string{"ID", "Title"}, rows)
}

func (a *App) renderTask(t models.StackTask) {
	a.printer.Header(fmt.Sprintf("#%d %s", t.ID, t.Title))
	if t.Description != "" {
		a.printer.Println(t.Description)
	}
	a.printer.Field("Status", t.Status.String())
	a.printer.Field("Score", formatScore(t.Score()))
	a.printer.Field("Pinned", strconv.FormatBool(t.Pinned))
	a.printer.Field("Complexity", strconv.Itoa(t.Complexity))
	a.printer.Field("Users affected", strconv.Itoa(t.UsersAffected))
	a.printer.Field("Retention", strconv.Itoa(t.Retention))
	a.printer.Field("Conversion", strconv.Itoa(t.Conversion))
	a.printer.Field("Confidence", strconv.Itoa(t.Confidence))
	if tags := t.TagNames(); len(tags) > 0 {
		a.printer.Field("Tags", strings.Join(tags, ", "))
	}
	if !t.CreatedAt.IsZero() {
		a.printer.Field("Created", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
