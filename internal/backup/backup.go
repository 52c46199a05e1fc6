// Package backup writes and reads full JSON backups of a book.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gestao-mpe/gmpe/internal/buildinfo"
	"github.com/gestao-mpe/gmpe/internal/model"
	"github.com/gestao-mpe/gmpe/internal/schema"
)

// ErrIncompatible is returned for input that is not a backup or a state.
var ErrIncompatible = errors.New("incompatible backup")

// stateFields are the top-level keys of any known state shape.
var stateFields = []string{"meta", "cfg", "accounts", "costCenters", "tx"}

// Meta describes the producer of a backup.
type Meta struct {
	App           string    `json:"app"`
	AppVersion    string    `json:"appVersion"`
	SchemaVersion int       `json:"schemaVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
}

// Envelope is the backup file layout.
type Envelope struct {
	Meta  Meta        `json:"meta"`
	State model.State `json:"state"`
}

// Export renders s as an indented backup envelope.
func Export(s model.State, now time.Time) ([]byte, error) {
	env := Envelope{
		Meta: Meta{
			App:           buildinfo.AppName,
			AppVersion:    buildinfo.AppVersion,
			SchemaVersion: model.SchemaVersion,
			ExportedAt:    now.UTC(),
		},
		State: s.Clone(),
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// Filename is the backup file name for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("%s-backup-%s.json", buildinfo.AppSlug, now.Format("2006-01-02"))
}

// Import reads a backup envelope or a bare state. Current-schema input is
// taken as is; older or damaged shapes are migrated. The returned state
// carries the current meta.
func Import(raw []byte) (model.State, error) {
	v, err := schema.Decode(raw)
	if err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return model.State{}, fmt.Errorf("%w: expected a JSON object", ErrIncompatible)
	}

	candidate := any(obj)
	if inner, ok := obj["state"]; ok && inner != nil {
		candidate = inner
	}
	if !looksLikeState(candidate) {
		return model.State{}, fmt.Errorf("%w: no state fields found", ErrIncompatible)
	}

	s, _ := schema.Normalize(candidate)
	if err := schema.Check(s); err != nil {
		return model.State{}, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	return s, nil
}

func looksLikeState(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, f := range stateFields {
		if _, ok := obj[f]; ok {
			return true
		}
	}
	return false
}
