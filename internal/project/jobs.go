package project

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/SlabNest/internal/model"
)

// ErrJobNotFound is returned when no job with the requested id is stored.
var ErrJobNotFound = errors.New("job not found")

// Job is a saved nesting job: the material requests, the settings they were
// run with and, once optimized, the result.
type Job struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
	Settings  model.NestSettings         `json:"settings"`
	Materials []model.MaterialInput      `json:"materials"`
	Result    *model.MultiMaterialResult `json:"result,omitempty"`
}

// NewJob returns an unsaved job with a fresh id.
func NewJob(name string, settings model.NestSettings, materials []model.MaterialInput) Job {
	return Job{
		ID:        uuid.New().String(),
		Name:      name,
		Settings:  settings,
		Materials: materials,
	}
}

// PieceCount returns the number of pieces across every material.
func (j Job) PieceCount() int {
	n := 0
	for _, m := range j.Materials {
		n += len(m.Input.Pieces)
	}
	return n
}

// JobSummary is the listing view of a job.
type JobSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Materials int       `json:"materials"`
	Pieces    int       `json:"pieces"`
	Slabs     int       `json:"slabs"` // 0 until optimized
}

// Store keeps one JSON file per job in a directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) (string, error) {
	if err := uuid.Validate(id); err != nil {
		return "", fmt.Errorf("invalid job id %q: %w", id, err)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save writes the job, assigning an id if it has none, and returns the
// stored copy.
func (s *Store) Save(job Job) (Job, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	path, err := s.path(job.ID)
	if err != nil {
		return Job{}, err
	}
	now := s.now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return Job{}, fmt.Errorf("failed to create job directory: %w", err)
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return Job{}, fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Job{}, fmt.Errorf("failed to write job file: %w", err)
	}
	return job, nil
}

// Load reads the job with the given id.
func (s *Store) Load(id string) (Job, error) {
	path, err := s.path(id)
	if err != nil {
		return Job{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return Job{}, fmt.Errorf("failed to read job file: %w", err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("failed to parse job %s: %w", id, err)
	}
	if job.Materials == nil {
		job.Materials = []model.MaterialInput{}
	}
	return job, nil
}

// Delete removes the job with the given id.
func (s *Store) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// List returns a summary of every stored job, most recently updated first.
// A missing directory is an empty store. Unreadable files are skipped.
func (s *Store) List() ([]JobSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []JobSummary{}, nil
		}
		return nil, fmt.Errorf("failed to read job directory: %w", err)
	}

	out := []JobSummary{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		job, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		sum := JobSummary{
			ID:        job.ID,
			Name:      job.Name,
			UpdatedAt: job.UpdatedAt,
			Materials: len(job.Materials),
			Pieces:    job.PieceCount(),
		}
		if job.Result != nil {
			sum.Slabs = job.Result.TotalSlabs
		}
		out = append(out, sum)
	}

	slices.SortFunc(out, func(a, b JobSummary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
