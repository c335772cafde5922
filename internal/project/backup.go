package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupVersion is written into every archive.
const BackupVersion = "1.0.0"

// BackupData is the archive format for moving jobs between machines.
type BackupData struct {
	Version   string `json:"version"`
	CreatedAt string `json:"created_at"`
	Jobs      []Job  `json:"jobs"`
}

// ExportAllData writes every job in the store to a single JSON file.
func (s *Store) ExportAllData(exportPath string) (int, error) {
	summaries, err := s.List()
	if err != nil {
		return 0, err
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
		Jobs:      make([]Job, 0, len(summaries)),
	}
	for _, sum := range summaries {
		job, err := s.Load(sum.ID)
		if err != nil {
			return 0, err
		}
		backup.Jobs = append(backup.Jobs, job)
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal backup data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write backup file: %w", err)
	}
	return len(backup.Jobs), nil
}

// ImportAllData reads an archive written by ExportAllData.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Jobs == nil {
		backup.Jobs = []Job{}
	}
	return backup, nil
}

// Restore saves every job of an archive into the store, keeping ids and
// overwriting jobs that already exist.
func (s *Store) Restore(backup BackupData) (int, error) {
	for i, job := range backup.Jobs {
		if _, err := s.Save(job); err != nil {
			return i, fmt.Errorf("restore job %s: %w", job.ID, err)
		}
	}
	return len(backup.Jobs), nil
}
