package policy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DefaultPoliciesDir is the policies directory relative to .guestflow.
const DefaultPoliciesDir = "policies"

// PolicyFile is a loaded Rego source file.
type PolicyFile struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// IsTest reports whether the file holds Rego unit tests.
func (p *PolicyFile) IsTest() bool {
	return strings.HasSuffix(p.Path, "_test.rego")
}

// Loader reads .rego files from a directory tree.
type Loader struct {
	fs      afero.Fs
	baseDir string
}

// NewLoader creates a loader over fs rooted at baseDir.
func NewLoader(fs afero.Fs, baseDir string) *Loader {
	return &Loader{fs: fs, baseDir: baseDir}
}

// LoadAll loads every .rego file below the base directory, sorted by path.
// A missing directory means no policies.
func (l *Loader) LoadAll() ([]*PolicyFile, error) {
	paths, err := l.ListFiles()
	if err != nil {
		return nil, err
	}

	policies := make([]*PolicyFile, 0, len(paths))
	for _, path := range paths {
		p, err := l.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load policy %s: %w", path, err)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// LoadFile reads one policy file.
func (l *Loader) LoadFile(path string) (*PolicyFile, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return &PolicyFile{
		Path:    path,
		Name:    strings.TrimSuffix(filepath.Base(path), ".rego"),
		Content: string(content),
	}, nil
}

// ListFiles returns the paths of all .rego files, sorted.
func (l *Loader) ListFiles() ([]string, error) {
	exists, err := afero.DirExists(l.fs, l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("check policies directory: %w", err)
	}
	if !exists {
		return []string{}, nil
	}

	var paths []string
	err = afero.Walk(l.fs, l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".rego") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk policies directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// GetPoliciesPath returns the default policies directory of a project.
func GetPoliciesPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".guestflow", DefaultPoliciesDir)
}
