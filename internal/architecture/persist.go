package architecture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// Save writes the model as indented JSON, creating parent directories.
func (m *Model) Save(path string) error {
	data, err := sonic.ConfigStd.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", m.Name, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a model written by Save and validates it.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Model
	if err := sonic.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
