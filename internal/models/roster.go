package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
)

const rosterFileName = "roster.json"

// rosterFile is the on-disk layout of a roster.
type rosterFile struct {
	Doctor    *Doctor   `json:"doctor"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RosterPath returns the roster file location inside dir.
func RosterPath(dir string) string {
	return filepath.Join(dir, rosterFileName)
}

// RosterExists reports whether dir already holds a roster file.
func RosterExists(dir string) bool {
	_, err := os.Stat(RosterPath(dir))
	return err == nil
}

// LoadRoster reads the doctor and their patients from dir.
func LoadRoster(dir string) (*Doctor, error) {
	path := RosterPath(dir)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithHint(
				errors.Wrapf(err, "roster not found at %s", path),
				"create one with: inflammation roster init <doctor>")
		}
		return nil, errors.Wrap(err, "read roster")
	}
	var rf rosterFile
	if err := json.Unmarshal(b, &rf); err != nil {
		return nil, errors.Wrap(err, "parse roster")
	}
	if rf.Doctor == nil {
		return nil, errors.Newf("roster %s has no doctor", path)
	}
	return rf.Doctor, nil
}

// SaveRoster writes the roster to dir using an atomic write.
func SaveRoster(dir string, d *Doctor) error {
	if d == nil {
		return errors.Wrap(errors.ErrTypeMismatch, "doctor must be a *Doctor; nil given")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return errors.Wrap(err, "ensure roster dir")
	}
	data, err := utils.PrettyJSON(rosterFile{Doctor: d, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(RosterPath(dir), data)
}
