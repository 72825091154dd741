// Package integration provides CLI integration tests for prep.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// prepBin is the path to the built prep binary.
	prepBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetPrepBin sets the path to the prep binary (called from TestMain).
func SetPrepBin(path string) {
	prepBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build prep: %v", buildErr)
	}
	if prepBin == "" {
		t.Fatal("prep binary not built (prepBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a prep command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunPrep executes the prep CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunPrep(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(prepBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run prep: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunPrep executes the prep CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunPrep(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunPrep(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("prep %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Group mirrors the modifier-group JSON emitted by `prep show --json`.
type Group struct {
	GroupID       string     `json:"group_id"`
	Name          string     `json:"name"`
	DisplayName   string     `json:"display_name"`
	MinSelections int        `json:"min_selections"`
	MaxSelections int        `json:"max_selections"`
	IsRequired    bool       `json:"is_required"`
	ExclusionKey  string     `json:"exclusion_key"`
	SortOrder     int        `json:"sort_order"`
	Modifiers     []Modifier `json:"modifiers"`
}

// Modifier mirrors the modifier JSON emitted by `prep show --json`.
type Modifier struct {
	ModifierID   string `json:"modifier_id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	Kind         string `json:"kind"`
	ChildGroupID string `json:"child_group_id"`
	IsDefault    bool   `json:"is_default"`
	SortOrder    int    `json:"sort_order"`
}

// ShowForest runs `prep show --json` and parses the full group list.
func (e *TestEnv) ShowForest() []Group {
	e.t.Helper()
	result := e.MustRunPrep("show", "--json")
	return ParseJSON[[]Group](e.t, result.Stdout)
}

// FindGroup returns the first group with the given name, failing the test
// if none exists.
func FindGroup(t *testing.T, groups []Group, name string) Group {
	t.Helper()
	for _, g := range groups {
		if g.Name == name {
			return g
		}
	}
	t.Fatalf("group %q not found in %d groups", name, len(groups))
	return Group{}
}

// FindModifier returns the first modifier with the given name, failing the
// test if none exists in the group.
func FindModifier(t *testing.T, g Group, name string) Modifier {
	t.Helper()
	for _, m := range g.Modifiers {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("modifier %q not found in group %q", name, g.Name)
	return Modifier{}
}

// CountGroups returns how many groups carry the given name.
func CountGroups(groups []Group, name string) int {
	n := 0
	for _, g := range groups {
		if g.Name == name {
			n++
		}
	}
	return n
}
