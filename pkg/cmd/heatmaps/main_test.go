package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gilchrisn/annealing-heatmaps/pkg/analysis"
	"github.com/gilchrisn/annealing-heatmaps/pkg/records"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func smallConfig() *analysis.Config {
	cfg := analysis.NewConfig()
	cfg.Set("time.width_in", 4.0)
	cfg.Set("time.height_in", 4.0)
	cfg.Set("law.width_in", 8.0)
	cfg.Set("law.height_in", 4.0)
	cfg.Set("logging.level", "error")
	return cfg
}

func TestTimeCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "time.csv", "processors:2,works:4,duration_sec:1.5\nprocessors:2,works:4,duration_sec:2.5\n")
	out := filepath.Join(dir, "time.png")

	cmd := newRootCommand(smallConfig())
	cmd.SetArgs([]string{"time", "--in", in, "--out", out, "--log-level", "error"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected output image, got: %v", err)
	}
}

func TestLawCommandBadInput(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir, "law.csv", "processors:2,works:4,duration_sec:abc,startCriterion:1,bestCriterion:1,law:0\n")
	out := filepath.Join(dir, "law.png")

	cmd := newRootCommand(smallConfig())
	cmd.SetArgs([]string{"law", "--in", in, "--out", out, "--log-level", "error"})
	err := cmd.Execute()
	if !errors.Is(err, records.ErrNotNumeric) {
		t.Fatalf("Expected not-numeric error, got: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("Expected no output image")
	}
}

func TestRootRunsBothStudies(t *testing.T) {
	dir := t.TempDir()
	timeIn := writeFixture(t, dir, "time.csv", "processors:2,works:4,duration_sec:1\n")
	lawIn := writeFixture(t, dir, "law.csv", "processors:2,works:4,duration_sec:1,startCriterion:10,bestCriterion:5,law:1\n")
	timeOut := filepath.Join(dir, "time.png")
	lawOut := filepath.Join(dir, "law.png")

	config := writeFixture(t, dir, "heatmaps.yaml", "time:\n  input: "+timeIn+"\n  output: "+timeOut+
		"\nlaw:\n  input: "+lawIn+"\n  output: "+lawOut+"\n")

	cmd := newRootCommand(smallConfig())
	cmd.SetArgs([]string{"--config", config, "--log-level", "error"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	for _, out := range []string{timeOut, lawOut} {
		if _, err := os.Stat(out); err != nil {
			t.Errorf("Expected %s, got: %v", out, err)
		}
	}
}

func TestRootRejectsArguments(t *testing.T) {
	cmd := newRootCommand(smallConfig())
	cmd.SetArgs([]string{"nonsense"})
	if err := cmd.Execute(); err == nil {
		t.Errorf("Expected an error for an unknown argument")
	}
}
