package memory

import (
	json "github.com/goccy/go-json"
)

// ExportJSON serializes the current Export snapshot.
func (m *WorkingMemory) ExportJSON() ([]byte, error) {
	return json.Marshal(m.Export())
}

// ImportJSON restores context and metadata from a serialized snapshot.
func (m *WorkingMemory) ImportJSON(data []byte) error {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	m.Import(state)
	return nil
}
