package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gestao-mpe/gmpe/internal/model"
)

// Decode parses raw JSON into generic values, keeping numbers exact.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding state JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decoding state JSON: trailing data")
	}
	return v, nil
}

// Encode serializes a state for storage.
func Encode(s model.State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Extract converts a value accepted by IsValidState into a typed state,
// stamping the current meta.
func Extract(v any) (model.State, error) {
	if !IsValidState(v) {
		return model.State{}, errors.New("value is not a current-schema state")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return model.State{}, fmt.Errorf("re-encoding state: %w", err)
	}
	var s model.State
	if err := json.Unmarshal(data, &s); err != nil {
		return model.State{}, fmt.Errorf("extracting state: %w", err)
	}
	s.Cfg.Theme = model.NormalizeTheme(string(s.Cfg.Theme))
	s.Meta = model.CurrentMeta()
	return s, nil
}

// Normalize turns a decoded value into a usable state: well-formed values
// are extracted as they are, anything else goes through Migrate. The
// boolean reports whether migration was needed.
func Normalize(v any) (model.State, bool) {
	if IsValidState(v) {
		s, err := Extract(v)
		if err == nil && len(Validate(s)) == 0 {
			return s, false
		}
	}
	return Migrate(v), true
}

// Load decodes raw JSON and normalizes it. Only undecodable input fails.
func Load(raw []byte) (model.State, bool, error) {
	v, err := Decode(raw)
	if err != nil {
		return model.State{}, false, err
	}
	s, migrated := Normalize(v)
	return s, migrated, nil
}
