package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV", "test")
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DRUG_TABLE_PATH", "")
	t.Setenv("METRICS_TEXTFILE", "")
	return dir
}

func runCLI(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunConversionWithEmbeddedTable(t *testing.T) {
	setupEnv(t)

	code, out, errOut := runCLI(t, "Haloperidol\n5\nOlanzapine\n")
	if code != exitOK {
		t.Fatalf("Expected exit code %d, got %d (stderr: %s)", exitOK, code, errOut)
	}
	if !strings.Contains(out, "Target defined daily dose: 6.25 mg") {
		t.Errorf("Expected conversion result, got:\n%s", out)
	}
}

func TestRunConversionErrorStillExitsCleanly(t *testing.T) {
	setupEnv(t)

	code, out, _ := runCLI(t, "Aspirin\n")
	if code != exitOK {
		t.Errorf("Expected exit code %d, got %d", exitOK, code)
	}
	if !strings.Contains(out, "Drug 'Aspirin' not found in equivalency table.") {
		t.Errorf("Expected not found message, got:\n%s", out)
	}
}

func TestRunWithTableFile(t *testing.T) {
	setupEnv(t)

	code, out, errOut := runCLI(t, "amisulpride\n400\nHaloperidol\n", filepath.Join("testdata", "drugs.csv"))
	if code != exitOK {
		t.Fatalf("Expected exit code %d, got %d (stderr: %s)", exitOK, code, errOut)
	}
	if !strings.Contains(out, "Amisulpride\n") {
		t.Error("Expected the file's drugs to be listed")
	}
	if !strings.Contains(out, "Target defined daily dose: 8.00 mg") {
		t.Errorf("Expected conversion against the file table, got:\n%s", out)
	}
}

func TestRunRepeatMode(t *testing.T) {
	setupEnv(t)

	code, out, _ := runCLI(t, "Haloperidol\n5\nOlanzapine\nRisperidone\n2\nQuetiapine\nexit\n", "-repeat")
	if code != exitOK {
		t.Fatalf("Expected exit code %d, got %d", exitOK, code)
	}
	if got := strings.Count(out, "Reference drug:"); got != 2 {
		t.Errorf("Expected 2 results, got %d", got)
	}
}

func TestRunCheckMode(t *testing.T) {
	dir := setupEnv(t)
	metricsFile := filepath.Join(dir, "switch.prom")
	t.Setenv("METRICS_TEXTFILE", metricsFile)

	code, out, errOut := runCLI(t, "", "-check", "-table", filepath.Join("testdata", "drugs.csv"))
	if code != exitOK {
		t.Fatalf("Expected exit code %d, got %d (stderr: %s)", exitOK, code, errOut)
	}
	if !strings.Contains(out, "Drugs: 5") {
		t.Errorf("Expected the report to count 5 drugs, got:\n%s", out)
	}
	if !strings.Contains(out, "Without 95% effective dose: Chlorpromazine") {
		t.Errorf("Expected chlorpromazine to lack an effective dose 95, got:\n%s", out)
	}
	if strings.Contains(out, "Enter current drug name") {
		t.Error("Check mode must not start a session")
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("Expected metrics textfile to be written: %v", err)
	}
	if !strings.Contains(string(data), "drug_table_drugs 5") {
		t.Errorf("Expected drug count in metrics, got:\n%s", data)
	}
}

func TestRunPositionalOverridesFlag(t *testing.T) {
	setupEnv(t)

	code, out, _ := runCLI(t, "", "-check", "-table", "missing.csv", filepath.Join("testdata", "drugs.csv"))
	if code != exitOK {
		t.Fatalf("Expected exit code %d, got %d", exitOK, code)
	}
	if !strings.Contains(out, "Drugs: 5") {
		t.Errorf("Expected the positional table to be used, got:\n%s", out)
	}
}

func TestRunLoadFailures(t *testing.T) {
	dir := setupEnv(t)

	broken := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(broken, []byte("drug,defined_daily_dose\nHaloperidol,-1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing file", []string{filepath.Join(dir, "missing.csv")}, "Failed to load drug table"},
		{"invalid data", []string{broken}, "row 2"},
		{"unsupported extension", []string{"-table", "drugs.json"}, "Configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, "Haloperidol\n5\nOlanzapine\n", tt.args...)
			if code != exitLoadFailure {
				t.Errorf("Expected exit code %d, got %d", exitLoadFailure, code)
			}
			if !strings.Contains(errOut, tt.message) {
				t.Errorf("Expected %q in stderr, got %q", tt.message, errOut)
			}
			if strings.Contains(out, "Reference drug:") {
				t.Error("No conversion must run without a table")
			}
		})
	}
}

func TestRunInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("ENV", "qa")

	code, _, errOut := runCLI(t, "")
	if code != exitLoadFailure {
		t.Errorf("Expected exit code %d, got %d", exitLoadFailure, code)
	}
	if !strings.Contains(errOut, "Configuration error") {
		t.Errorf("Expected configuration error, got %q", errOut)
	}
}

func TestRunBadFlags(t *testing.T) {
	setupEnv(t)

	tests := [][]string{
		{"-unknown"},
		{"a.csv", "b.csv"},
	}

	for _, args := range tests {
		code, _, _ := runCLI(t, "", args...)
		if code != exitUsage {
			t.Errorf("run(%v): expected exit code %d, got %d", args, exitUsage, code)
		}
	}
}

func TestRunHelp(t *testing.T) {
	setupEnv(t)

	code, _, errOut := runCLI(t, "", "-h")
	if code != exitOK {
		t.Errorf("Expected exit code %d, got %d", exitOK, code)
	}
	if !strings.Contains(errOut, "Usage: antipsychotic-switch") {
		t.Errorf("Expected usage, got %q", errOut)
	}
}
