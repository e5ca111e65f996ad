// ABOUTME: End-to-end tests for enqueue, run, status, and search commands
// ABOUTME: Exercises the full CLI path against a temporary database

package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args against a shared test env
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return output.String(), err
}

func setupCLITest(t *testing.T) {
	t.Helper()
	t.Setenv("VECTORPIPE_DB", filepath.Join(t.TempDir(), "test.db"))
	// Force the local deterministic embedder
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VECTORPIPE_DIMENSION", "64")
	// The deterministic embedder produces near-orthogonal vectors, so the
	// coherence rule must be off for distinct documents to pass the gate
	t.Setenv("VECTORPIPE_COHERENCE_THRESHOLD", "0")
}

func TestEnqueueCmd_CreatesJob(t *testing.T) {
	setupCLITest(t)

	output, err := runCLI(t, "enqueue", "doc-1", "some document text")
	if err != nil {
		t.Fatalf("enqueue error = %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "doc-1") {
		t.Errorf("output should mention the entity, got:\n%s", output)
	}
	if !strings.Contains(output, "pending") {
		t.Errorf("output should show pending status, got:\n%s", output)
	}
}

func TestEnqueueCmd_RequiresEntityID(t *testing.T) {
	setupCLITest(t)

	if _, err := runCLI(t, "enqueue"); err == nil {
		t.Error("enqueue without arguments should fail")
	}
}

func TestRunCmd_ProcessesQueue(t *testing.T) {
	setupCLITest(t)

	if output, err := runCLI(t, "enqueue", "doc-1", "first document"); err != nil {
		t.Fatalf("enqueue error = %v\noutput: %s", err, output)
	}
	if output, err := runCLI(t, "enqueue", "doc-2", "second document"); err != nil {
		t.Fatalf("enqueue error = %v\noutput: %s", err, output)
	}

	output, err := runCLI(t, "run")
	if err != nil {
		t.Fatalf("run error = %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "2 completed") {
		t.Errorf("run output should report 2 completed, got:\n%s", output)
	}

	output, err = runCLI(t, "status", "doc-1")
	if err != nil {
		t.Fatalf("status error = %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "completed") {
		t.Errorf("status should show completed, got:\n%s", output)
	}
}

func TestStatusCmd_UnknownEntity(t *testing.T) {
	setupCLITest(t)

	if _, err := runCLI(t, "status", "missing-entity"); err == nil {
		t.Error("status for unknown entity should fail")
	}
}

func TestStatusCmd_CountsTable(t *testing.T) {
	setupCLITest(t)

	if output, err := runCLI(t, "enqueue", "doc-1", "text"); err != nil {
		t.Fatalf("enqueue error = %v\noutput: %s", err, output)
	}

	output, err := runCLI(t, "status")
	if err != nil {
		t.Fatalf("status error = %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "pending") || !strings.Contains(output, "1") {
		t.Errorf("status table should show one pending job, got:\n%s", output)
	}
}

func TestSearchCmd_FindsNeighbors(t *testing.T) {
	setupCLITest(t)

	for _, pair := range [][2]string{
		{"doc-1", "alpha beta gamma"},
		{"doc-2", "alpha beta delta"},
		{"doc-3", "completely different content"},
	} {
		if output, err := runCLI(t, "enqueue", pair[0], pair[1]); err != nil {
			t.Fatalf("enqueue error = %v\noutput: %s", err, output)
		}
	}
	if output, err := runCLI(t, "run"); err != nil {
		t.Fatalf("run error = %v\noutput: %s", err, output)
	}

	output, err := runCLI(t, "search", "doc-1")
	if err != nil {
		t.Fatalf("search error = %v\noutput: %s", err, output)
	}
	if strings.Contains(output, "doc-1\t") {
		t.Errorf("search should exclude the anchor entity, got:\n%s", output)
	}
	if !strings.Contains(output, "doc-2") || !strings.Contains(output, "doc-3") {
		t.Errorf("search should list the other entities, got:\n%s", output)
	}
}

func TestSearchCmd_NoVector(t *testing.T) {
	setupCLITest(t)

	if _, err := runCLI(t, "search", "never-embedded"); err == nil {
		t.Error("search for an entity with no vector should fail")
	}
}

func TestStatsCmd_ReportsCounts(t *testing.T) {
	setupCLITest(t)

	if output, err := runCLI(t, "enqueue", "doc-1", "text"); err != nil {
		t.Fatalf("enqueue error = %v\noutput: %s", err, output)
	}
	if output, err := runCLI(t, "run"); err != nil {
		t.Fatalf("run error = %v\noutput: %s", err, output)
	}

	output, err := runCLI(t, "stats")
	if err != nil {
		t.Fatalf("stats error = %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "stored vectors") {
		t.Errorf("stats should report stored vectors, got:\n%s", output)
	}
	if !strings.Contains(output, "64") {
		t.Errorf("stats should report the configured dimension, got:\n%s", output)
	}
}
