package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/constants"
	"github.com/ludo-technologies/crabscore/service"
)

const helloSource = `/// Entry point
fn main() {
    let n = 3;
    if n > 2 {
        println!("big");
    }
}
`

// isolateConfig keeps user-level configuration out of command tests
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CRABSCORE_CONFIG", "")
	t.Setenv("CI", "1")
}

func newSourceProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.rs"), []byte(helloSource), 0o644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScoreCmd_FlagsExist(t *testing.T) {
	cmd := scoreCmd()

	expectedFlags := []string{"bin", "profile", "format", "output", "config", "cost-file", "iterations", "warmup", "exclude", "save-history"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Missing expected flag: --%s", flagName)
		}
	}
}

func TestScoreCmd_ShortFlags(t *testing.T) {
	cmd := scoreCmd()

	shortFlags := map[string]string{
		"p": "profile",
		"f": "format",
		"o": "output",
		"c": "config",
		"n": "iterations",
	}

	for short, long := range shortFlags {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"score", "report", "export", "history", "init", "version"} {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Missing subcommand: %s", name)
		}
	}

	if root.PersistentFlags().ShorthandLookup("v") == nil {
		t.Error("Missing persistent -v flag")
	}
}

func TestReportCmd_DefaultValues(t *testing.T) {
	cmd := reportCmd()

	portFlag := cmd.Flags().Lookup("port")
	if portFlag == nil {
		t.Fatal("port flag not found")
	}
	if portFlag.DefValue != "8080" {
		t.Errorf("Expected default port 8080, got %s", portFlag.DefValue)
	}

	for _, name := range []string{"serve", "no-open", "dir", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing expected flag: --%s", name)
		}
	}
}

func TestExportCmd_DefaultStandard(t *testing.T) {
	cmd := exportCmd()

	flag := cmd.Flags().Lookup("standard")
	if flag == nil {
		t.Fatal("standard flag not found")
	}
	if flag.DefValue != "csrd" {
		t.Errorf("Expected default standard csrd, got %s", flag.DefValue)
	}
}

func TestHistoryCmd_DefaultLimit(t *testing.T) {
	cmd := historyCmd()

	flag := cmd.Flags().Lookup("limit")
	if flag == nil {
		t.Fatal("limit flag not found")
	}
	if flag.DefValue != "50" {
		t.Errorf("Expected default limit 50, got %s", flag.DefValue)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "crabscore version ") {
		t.Errorf("Unexpected version output: %q", out)
	}
}

func TestScoreCmd_EstimatedJSON(t *testing.T) {
	isolateConfig(t)
	dir := newSourceProject(t)

	out, err := execute(t, "score", dir, "--format", "json", "--profile", "gaming")
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	var report service.JSONReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Output is not a JSON report: %v\n%s", err, out)
	}

	meta := report.Score.Metadata
	if meta.Measurements.Mode != domain.MeasurementEstimated {
		t.Errorf("Expected estimated mode, got %s", meta.Measurements.Mode)
	}
	if meta.Profile.Kind != domain.ProfileGaming {
		t.Errorf("Expected gaming profile, got %s", meta.Profile.Kind)
	}
	if meta.RunID == "" {
		t.Error("Expected a run id")
	}
	if report.Score.Overall < 0 || report.Score.Overall > 100 {
		t.Errorf("Overall out of range: %v", report.Score.Overall)
	}
}

func TestScoreCmd_OutputFile(t *testing.T) {
	isolateConfig(t)
	dir := newSourceProject(t)
	outPath := filepath.Join(t.TempDir(), "score.yaml")

	out, err := execute(t, "score", dir, "--format", "yaml", "--output", outPath)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected no stdout when writing to a file, got %q", out)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(content), "certification:") {
		t.Errorf("Expected YAML report, got:\n%s", content)
	}
}

func TestScoreCmd_InvalidFlags(t *testing.T) {
	isolateConfig(t)
	dir := newSourceProject(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown profile", []string{"score", dir, "--profile", "aerospace"}},
		{"negative warmup", []string{"score", dir, "--warmup", "-1"}},
		{"zero iterations", []string{"score", dir, "--iterations", "0"}},
		{"unknown format", []string{"score", dir, "--format", "pdf"}},
		{"missing path", []string{"score", filepath.Join(dir, "absent")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestScoreCmd_ConfigFile(t *testing.T) {
	isolateConfig(t)
	dir := newSourceProject(t)
	configPath := filepath.Join(dir, "crabscore.yaml")
	if err := os.WriteFile(configPath, []byte("profile:\n  name: enterprise\noutput:\n  format: json\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	out, err := execute(t, "score", dir)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	var report service.JSONReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Expected JSON from discovered config: %v", err)
	}
	if report.Score.Metadata.Profile.Kind != domain.ProfileEnterprise {
		t.Errorf("Expected enterprise profile, got %s", report.Score.Metadata.Profile.Kind)
	}
}

func TestScoreCmd_Batch(t *testing.T) {
	isolateConfig(t)
	first := newSourceProject(t)
	second := newSourceProject(t)

	out, err := execute(t, "score", first, second, "--format", "text")
	if err != nil {
		t.Fatalf("batch score failed: %v", err)
	}
	if strings.Count(out, "Overall Score:") != 2 {
		t.Errorf("Expected two reports, got:\n%s", out)
	}
}

func TestScoreCmd_BatchPartialFailure(t *testing.T) {
	isolateConfig(t)
	good := newSourceProject(t)
	missing := filepath.Join(t.TempDir(), "absent")

	out, err := execute(t, "score", good, missing, "--format", "text")
	if err == nil {
		t.Fatal("Expected error for the missing project")
	}
	if strings.Count(out, "Overall Score:") != 1 {
		t.Errorf("Expected the good project to be reported, got:\n%s", out)
	}
}

func TestReportCmd_WritesFiles(t *testing.T) {
	isolateConfig(t)
	dir := newSourceProject(t)
	reportDir := filepath.Join(t.TempDir(), "reports")

	out, err := execute(t, "report", dir, "--dir", reportDir)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	for _, name := range []string{constants.ReportJSONFile, constants.ReportHTMLFile, constants.ReportCSRDFile} {
		path := filepath.Join(reportDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
		if !strings.Contains(out, path) {
			t.Errorf("Expected output to mention %s", path)
		}
	}

	data, err := os.ReadFile(filepath.Join(reportDir, constants.ReportCSRDFile))
	if err != nil {
		t.Fatalf("Failed to read CSRD export: %v", err)
	}
	var csrd service.CSRDExport
	if err := json.Unmarshal(data, &csrd); err != nil {
		t.Fatalf("Invalid CSRD export: %v", err)
	}
	if csrd.Standard != "CSRD" {
		t.Errorf("Expected CSRD standard, got %s", csrd.Standard)
	}
}

func TestExportCmd(t *testing.T) {
	isolateConfig(t)
	dir := newSourceProject(t)

	out, err := execute(t, "export", dir, "--standard", "cra")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var cra service.CRAExport
	if err := json.Unmarshal([]byte(out), &cra); err != nil {
		t.Fatalf("Invalid CRA export: %v", err)
	}
	if cra.Standard != "EU CRA" {
		t.Errorf("Expected EU CRA standard, got %s", cra.Standard)
	}
	if cra.Compliance != "PASS" && cra.Compliance != "FAIL" {
		t.Errorf("Unexpected compliance value %s", cra.Compliance)
	}

	if _, err := execute(t, "export", dir, "--standard", "iso9001"); err == nil {
		t.Error("Expected error for unknown standard")
	}
}

func TestHistoryCmd_RoundTrip(t *testing.T) {
	isolateConfig(t)
	dir := newSourceProject(t)

	out, err := execute(t, "history", dir)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "No stored scores") {
		t.Errorf("Expected empty history message, got %q", out)
	}

	if _, err := execute(t, "score", dir, "--format", "json", "--save-history"); err != nil {
		t.Fatalf("score --save-history failed: %v", err)
	}

	out, err = execute(t, "history", dir, "--format", "json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("Invalid history JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Mode != string(domain.MeasurementEstimated) {
		t.Errorf("Expected estimated mode, got %s", entries[0].Mode)
	}

	out, err = execute(t, "history", dir)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "OVERALL") {
		t.Errorf("Expected history table, got %q", out)
	}
}
