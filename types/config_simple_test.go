package types

import (
	"encoding/json"
	"testing"
)

func TestAppConfig_Structure(t *testing.T) {
	config := AppConfig{
		Project: ProjectConfig{
			RootDir:     "/home/user/.guestflow",
			PoliciesDir: "policies",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{Port: 8787},
	}

	if config.Project.RootDir != "/home/user/.guestflow" {
		t.Errorf("Project.RootDir mismatch: got %q, want %q", config.Project.RootDir, "/home/user/.guestflow")
	}
	if config.Log.Format != "console" {
		t.Errorf("Log.Format mismatch: got %q, want %q", config.Log.Format, "console")
	}
	if config.Server.Port != 8787 {
		t.Errorf("Server.Port mismatch: got %d, want %d", config.Server.Port, 8787)
	}
}

func TestValidationResult_EmptySerializesAsArrays(t *testing.T) {
	b, err := json.Marshal(NewValidationResult())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"valid":true,"errors":[],"warnings":[]}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestValidationResult_AddAndMerge(t *testing.T) {
	r := NewValidationResult()
	r.AddWarning(ValidationWarning{Code: CodeUnusedVariable})
	if !r.Valid {
		t.Fatal("warnings must not affect validity")
	}

	other := NewValidationResult()
	other.AddError(ValidationError{Code: CodeDuplicateVariableKey, StepID: "s2"})
	r.Merge(other)

	if r.Valid {
		t.Error("merged error should invalidate result")
	}
	if !r.HasError(CodeDuplicateVariableKey) {
		t.Error("expected DUPLICATE_VARIABLE_KEY after merge")
	}
	if !r.HasWarning(CodeUnusedVariable) {
		t.Error("expected UNUSED_VARIABLE to survive merge")
	}
	if r.HasError(CodeInvalidType) {
		t.Error("unexpected INVALID_TYPE")
	}
}
