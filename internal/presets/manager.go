// Package presets persists named filter sets in a YAML file.
package presets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyfilter/internal/export"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"gopkg.in/yaml.v3"
)

// FileName is the presets file inside the presets directory
const FileName = "presets.yaml"

// Manager manages filter presets
type Manager struct {
	path    string
	presets []models.Preset
}

// NewManager creates a new presets manager
func NewManager(dir string) (*Manager, error) {
	path := filepath.Join(dir, FileName)

	m := &Manager{
		path:    path,
		presets: []models.Preset{},
	}

	// Load existing presets if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
	}

	return m, nil
}

// Load loads presets from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.presets); err != nil {
		return fmt.Errorf("failed to parse presets: %w", err)
	}

	return nil
}

// Save saves presets to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.presets)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}

	return nil
}

// Path returns the presets file path
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) checkName(id, name string) error {
	if name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	for _, p := range m.presets {
		if p.ID != id && strings.EqualFold(p.Name, name) {
			return fmt.Errorf("a preset with the name '%s' already exists (names are case-insensitive)", name)
		}
	}
	return nil
}

func storedFilters(filters []models.AppliedFilter) []models.AppliedFilter {
	out := make([]models.AppliedFilter, 0, len(filters))
	for _, f := range filters {
		f = f.Clone()
		f.CacheVersion = 0
		out = append(out, f)
	}
	return out
}

// Add saves a new preset
func (m *Manager) Add(name, description string, filters []models.AppliedFilter, matchType models.MatchType, tags []string) (*models.Preset, error) {
	name = strings.TrimSpace(name)
	if err := m.checkName("", name); err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("preset must contain at least one filter")
	}
	if matchType == "" {
		matchType = models.MatchAll
	}

	now := time.Now()
	preset := models.Preset{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Filters:     storedFilters(filters),
		MatchType:   matchType,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.presets = append(m.presets, preset)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	return &preset, nil
}

// Update replaces the contents of an existing preset
func (m *Manager) Update(id, name, description string, filters []models.AppliedFilter, matchType models.MatchType, tags []string) error {
	name = strings.TrimSpace(name)
	if err := m.checkName(id, name); err != nil {
		return err
	}
	if len(filters) == 0 {
		return fmt.Errorf("preset must contain at least one filter")
	}

	for i, p := range m.presets {
		if p.ID == id {
			m.presets[i].Name = name
			m.presets[i].Description = strings.TrimSpace(description)
			m.presets[i].Filters = storedFilters(filters)
			if matchType != "" {
				m.presets[i].MatchType = matchType
			}
			m.presets[i].Tags = tags
			m.presets[i].UpdatedAt = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save preset: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("preset with ID '%s' was not found", id)
}

// Delete deletes a preset by ID
func (m *Manager) Delete(id string) error {
	for i, p := range m.presets {
		if p.ID == id {
			m.presets = append(m.presets[:i], m.presets[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save presets after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("preset with ID '%s' was not found", id)
}

// Get returns a preset by ID
func (m *Manager) Get(id string) (*models.Preset, error) {
	for _, p := range m.presets {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("preset with ID '%s' was not found", id)
}

// GetByName returns a preset by name, case-insensitively
func (m *Manager) GetByName(name string) (*models.Preset, error) {
	name = strings.TrimSpace(name)
	for _, p := range m.presets {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("preset '%s' was not found", name)
}

// GetAll returns all presets
func (m *Manager) GetAll() []models.Preset {
	return m.presets
}

// Search searches presets by name, description, tags or filtered property
func (m *Manager) Search(query string) []models.Preset {
	if query == "" {
		return m.presets
	}

	query = strings.ToLower(query)
	var results []models.Preset

	for _, p := range m.presets {
		if matchesPreset(p, query) {
			results = append(results, p)
		}
	}

	return results
}

func matchesPreset(p models.Preset, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, f := range p.Filters {
		if strings.Contains(strings.ToLower(f.CategoryID), query) {
			return true
		}
	}
	return false
}

// RecordUsage updates usage statistics for a preset
func (m *Manager) RecordUsage(id string) error {
	for i, p := range m.presets {
		if p.ID == id {
			m.presets[i].UsageCount++
			m.presets[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("preset with ID '%s' was not found", id)
}

// GetMostUsed returns the most frequently used presets
func (m *Manager) GetMostUsed(limit int) []models.Preset {
	sorted := make([]models.Preset, len(m.presets))
	copy(sorted, m.presets)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// GetRecent returns the most recently used presets
func (m *Manager) GetRecent(limit int) []models.Preset {
	sorted := make([]models.Preset, len(m.presets))
	copy(sorted, m.presets)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// ExportToCSV exports all presets to a CSV file next to the presets file
// unless a path is given
func (m *Manager) ExportToCSV(customPath ...string) (string, error) {
	if len(m.presets) == 0 {
		return "", fmt.Errorf("no presets to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "presets.csv")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.ExportPresetsToCSV(m.presets, path); err != nil {
		return "", fmt.Errorf("failed to export presets to CSV: %w", err)
	}

	return path, nil
}

// ExportToJSON exports all presets to a JSON file
func (m *Manager) ExportToJSON(customPath ...string) (string, error) {
	if len(m.presets) == 0 {
		return "", fmt.Errorf("no presets to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "presets.json")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.ExportPresetsToJSON(m.presets, path); err != nil {
		return "", fmt.Errorf("failed to export presets to JSON: %w", err)
	}

	return path, nil
}
