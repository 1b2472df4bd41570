package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/josephgoksu/Guestflow/internal/prompt"
	"github.com/josephgoksu/Guestflow/models"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// FileExperienceStore keeps documents as JSON or YAML files on an afero
// filesystem.
type FileExperienceStore struct {
	fs afero.Fs
}

// NewFileExperienceStore returns a store over fs. A nil fs uses the OS
// filesystem.
func NewFileExperienceStore(fs afero.Fs) *FileExperienceStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileExperienceStore{fs: fs}
}

var _ ExperienceStore = (*FileExperienceStore)(nil)

// FormatOf maps a file extension to a document format.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Load implements ExperienceStore.
func (s *FileExperienceStore) Load(path string) (models.Document, error) {
	var doc models.Document
	if err := s.DecodeFile(path, &doc); err != nil {
		return models.Document{}, err
	}
	if err := models.ValidateStruct(doc); err != nil {
		return models.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	doc.Steps = doc.OrderedSteps()
	return doc, nil
}

// Decode parses a document held in memory, as Load does for files.
func Decode(data []byte, format string) (models.Document, error) {
	var doc models.Document
	if err := unmarshal(data, format, &doc); err != nil {
		return models.Document{}, err
	}
	if err := models.ValidateStruct(doc); err != nil {
		return models.Document{}, err
	}
	doc.Steps = doc.OrderedSteps()
	return doc, nil
}

// Save implements ExperienceStore. The write goes to a temporary file that
// is renamed into place.
func (s *FileExperienceStore) Save(path string, doc models.Document) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if len(doc.Experience.StepsOrder) == 0 {
		doc.Experience.StepsOrder = models.StepIDs(doc.Steps)
	}

	data, err := marshal(doc, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// List implements ExperienceStore.
func (s *FileExperienceStore) List(dir string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotFound)
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatOf(e.Name()); err == nil {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadSession implements ExperienceStore.
func (s *FileExperienceStore) LoadSession(path string) (prompt.SessionValues, error) {
	session := prompt.SessionValues{}
	if err := s.DecodeFile(path, &session); err != nil {
		return nil, err
	}
	return session, nil
}

// LoadEvent implements ExperienceStore.
func (s *FileExperienceStore) LoadEvent(path string) (models.EventMeta, error) {
	var event models.EventMeta
	if err := s.DecodeFile(path, &event); err != nil {
		return models.EventMeta{}, err
	}
	return event, nil
}

// DecodeFile reads a JSON or YAML file into out, picking the codec by extension.
func (s *FileExperienceStore) DecodeFile(path string, out any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := unmarshal(data, format, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func unmarshal(data []byte, format string, out any) error {
	switch format {
	case formatJSON:
		return json.Unmarshal(data, out)
	case formatYAML:
		return yaml.Unmarshal(data, out)
	}
	return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

func marshal(v any, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}
