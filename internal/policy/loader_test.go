package policy

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

const policiesDir = "/project/.guestflow/policies"

func TestLoader_LoadAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, policiesDir+"/naming.rego", []byte("package guestflow.policy\n"), 0644)
	_ = afero.WriteFile(fs, policiesDir+"/brand/prompts.rego", []byte("package guestflow.policy\n"), 0644)
	_ = afero.WriteFile(fs, policiesDir+"/naming_test.rego", []byte("package guestflow.policy\n"), 0644)
	_ = afero.WriteFile(fs, policiesDir+"/README.md", []byte("# Policies"), 0644)

	policies, err := NewLoader(fs, policiesDir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(policies) != 3 {
		t.Fatalf("LoadAll() returned %d policies, want 3", len(policies))
	}

	want := []string{"prompts", "naming", "naming_test"}
	for i, p := range policies {
		if p.Name != want[i] {
			t.Errorf("policies[%d].Name = %q, want %q", i, p.Name, want[i])
		}
		if p.Content == "" {
			t.Errorf("policy %s has empty content", p.Name)
		}
	}
	if !policies[2].IsTest() || policies[1].IsTest() {
		t.Error("IsTest() should only match *_test.rego files")
	}
}

func TestLoader_LoadAll_NonExistentDirectory(t *testing.T) {
	policies, err := NewLoader(afero.NewMemMapFs(), "/nope").LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(policies) != 0 {
		t.Errorf("LoadAll() returned %d policies, want 0", len(policies))
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs(), policiesDir).LoadFile(policiesDir + "/missing.rego")
	if err == nil {
		t.Error("LoadFile() expected error for missing file")
	}
}

func TestGetPoliciesPath(t *testing.T) {
	got := GetPoliciesPath("/project")
	want := filepath.Join("/project", ".guestflow", "policies")
	if got != want {
		t.Errorf("GetPoliciesPath() = %q, want %q", got, want)
	}
}
