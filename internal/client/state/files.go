package state

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

// LoadSession returns the persisted session, or nil when there is none.
func (s *Store) LoadSession() (*models.Session, error) {
	var sess models.Session
	found, err := readJSON(s.paths.Session, &sess)
	if err != nil || !found {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) SaveSession(sess models.Session) error {
	return s.writeJSON(s.paths.Session, sess)
}

func (s *Store) DeleteSession() error {
	return remove(s.paths.Session)
}

// LoadProfile returns the pending profile draft, or nil when there is none.
func (s *Store) LoadProfile() (*models.ProfileDraft, error) {
	var p models.ProfileDraft
	found, err := readJSON(s.paths.Profile, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SaveProfile(p models.ProfileDraft) error {
	return s.writeJSON(s.paths.Profile, p)
}

func (s *Store) DeleteProfile() error {
	return remove(s.paths.Profile)
}

// projectFile mirrors models.CurrentProject with an untyped id so that a
// hand-edited or foreign file can be told apart from a missing one.
type projectFile struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"project_name"`
	Problem     string          `json:"problem"`
	Description string          `json:"description"`
	Nickname    string          `json:"nickname"`
}

// LoadProject returns the current project pointer, or nil when none is
// saved. A pointer whose id is not a finite number is reported as an
// *Error of KindCorrupt wrapping ErrCorruptProject.
func (s *Store) LoadProject() (*models.CurrentProject, error) {
	var pf projectFile
	found, err := readJSON(s.paths.Project, &pf)
	if err != nil || !found {
		return nil, err
	}

	id, ok := parseProjectID(pf.ID)
	if !ok {
		return nil, &Error{Kind: KindCorrupt, Op: "read", Path: s.paths.Project, Err: ErrCorruptProject}
	}

	return &models.CurrentProject{
		ID:          id,
		Name:        pf.Name,
		Problem:     pf.Problem,
		Description: pf.Description,
		Nickname:    pf.Nickname,
	}, nil
}

func (s *Store) SaveProject(p models.CurrentProject) error {
	return s.writeJSON(s.paths.Project, p)
}

// parseProjectID accepts a JSON number or a string holding one.
func parseProjectID(raw json.RawMessage) (int64, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, false
	}
	if strings.HasPrefix(text, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(str)
	}

	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, id > 0
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds.
	if f < 1 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
