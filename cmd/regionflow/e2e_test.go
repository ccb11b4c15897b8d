package main_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary once for all tests
	tmpDir, err := os.MkdirTemp("", "regionflow-e2e-*")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	binaryPath = filepath.Join(tmpDir, "regionflow")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = filepath.Join(getModuleRoot(), "cmd", "regionflow")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out) + ": " + err.Error())
	}

	os.Exit(m.Run())
}

func getModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			// Make sure it's the main module, not a testdata module
			if _, err := os.Stat(filepath.Join(dir, "regionflow.go")); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("module root not found")
		}
		dir = parent
	}
}

const sampleSource = `package main

func classify(n int) string {
	if n < 0 {
		return "negative"
	}
	for {
		break
	}
	return "other"
}

func main() {
	println(classify(3))
}
`

// writeSample creates a throwaway module holding sampleSource.
func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/sample\n\ngo 1.21\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(sampleSource), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// runCLI executes the built binary with a cache directory isolated
// under the test's temp space.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "REGIONFLOW_CACHE_DIR="+filepath.Join(t.TempDir(), "cache"))
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestE2E_AnalyzeText(t *testing.T) {
	dir := writeSample(t)

	out, err := runCLI(t, dir, "analyze", "main.go", "8")
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput:\n%s", err, out)
	}

	for _, want := range []string{
		"=== region main.go 8 (func classify) ===",
		"succeeded:       true",
		"end reachable:   false",
		"exit points (1):",
		"break at 8:3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestE2E_AnalyzeJSON(t *testing.T) {
	dir := writeSample(t)

	out, err := runCLI(t, dir, "--format", "json", "analyze", "main.go", "4-6")
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput:\n%s", err, out)
	}

	var res struct {
		Succeeded    bool `json:"succeeded"`
		EndReachable bool `json:"end_reachable"`
		ExitPoints   []struct {
			Kind string `json:"kind"`
		} `json:"exit_points"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\noutput:\n%s", err, out)
	}
	if !res.Succeeded {
		t.Error("expected succeeded=true")
	}
	if !res.EndReachable {
		t.Error("expected end_reachable=true for conditional return")
	}
	if len(res.ExitPoints) != 1 || res.ExitPoints[0].Kind != "return" {
		t.Errorf("expected one return exit point, got %+v", res.ExitPoints)
	}
}

func TestE2E_AnalyzeCachedRunsAgree(t *testing.T) {
	dir := writeSample(t)
	cacheDir := filepath.Join(t.TempDir(), "cache")

	run := func() string {
		cmd := exec.Command(binaryPath, "analyze", "main.go", "8")
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), "REGIONFLOW_CACHE_DIR="+cacheDir)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("unexpected error: %v\noutput:\n%s", err, out)
		}
		return string(out)
	}

	first := run()
	if _, err := os.Stat(filepath.Join(cacheDir, "reports.msgpack")); err != nil {
		t.Fatalf("expected cache snapshot after first run: %v", err)
	}
	second := run()
	if first != second {
		t.Errorf("cached run differs:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestE2E_BadSpan(t *testing.T) {
	dir := writeSample(t)

	out, err := runCLI(t, dir, "analyze", "main.go", "banana")
	if err == nil {
		t.Fatal("expected non-zero exit code for bad span")
	}
	if !strings.Contains(out, "invalid span") {
		t.Errorf("expected span error in output, got:\n%s", out)
	}
}

func TestE2E_MissingFile(t *testing.T) {
	dir := writeSample(t)

	_, err := runCLI(t, dir, "analyze", "absent.go", "3")
	if err == nil {
		t.Fatal("expected non-zero exit code for missing file")
	}
}

func TestE2E_Funcs(t *testing.T) {
	dir := writeSample(t)

	out, err := runCLI(t, dir, "funcs", "./...")
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "classify returns=2 end_reachable=false") {
		t.Errorf("expected classify summary, got:\n%s", out)
	}
	if !strings.Contains(out, "main returns=0 end_reachable=true") {
		t.Errorf("expected main summary, got:\n%s", out)
	}
}

func TestE2E_ConfigFileSelectsFormat(t *testing.T) {
	dir := writeSample(t)
	if err := os.WriteFile(filepath.Join(dir, ".regionflow.yaml"), []byte("format: json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, dir, "analyze", "main.go", "8")
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput:\n%s", err, out)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected JSON output under config format=json, got:\n%s", out)
	}
}

func TestE2E_Help(t *testing.T) {
	out, _ := runCLI(t, ".", "--help")

	for _, want := range []string{"analyze", "funcs", "init"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected command %q in help output, got:\n%s", want, out)
		}
	}
}
