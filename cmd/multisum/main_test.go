package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	emptyMD5    = "d41d8cd98f00b204e9800998ecf8427e"
	emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "conflicting modes", args: []string{"-i", "-s", "a", "b"}},
		{name: "compute without files", args: []string{"-i"}},
		{name: "compare with one file", args: []string{"-s", "only.txt"}},
		{name: "verify with positional args", args: []string{"stray.txt"}},
		{name: "unknown flag", args: []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestRunHelp(t *testing.T) {
	code, _, stderr := runCLI(t, "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestRunCompute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.bin", "")

	code, stdout, _ := runCLI(t, "-i", filepath.Join(dir, "empty.bin"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "File: empty.bin")
	assert.Contains(t, stdout, emptyMD5)
	assert.Contains(t, stdout, emptySHA256)
}

func TestRunComputeGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, "b.txt", "beta")
	writeFile(t, dir, "c.bin", "gamma")

	code, stdout, _ := runCLI(t, "-i", filepath.Join(dir, "*.txt"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "File: a.txt")
	assert.Contains(t, stdout, "File: b.txt")
	assert.NotContains(t, stdout, "c.bin")
}

func TestRunComputeNoMatches(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := runCLI(t, "-i", filepath.Join(dir, "*.missing"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "no files match")
}

func TestRunComputeMissingFile(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := runCLI(t, "-i", filepath.Join(dir, "absent.txt"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "absent.txt")
}

func TestRunComputeIgnoreErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.txt", "content")

	code, stdout, stderr := runCLI(t, "-ignore-errors", "-i",
		filepath.Join(dir, "absent.txt"), filepath.Join(dir, "ok.txt"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "File: ok.txt", "surviving file still rendered")
	assert.Contains(t, stderr, "absent.txt")
}

func TestRunComputeAlgosOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.bin", "")

	code, stdout, _ := runCLI(t, "-algos", "sha256", "-i", filepath.Join(dir, "empty.bin"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, emptySHA256)
	assert.NotContains(t, stdout, emptyMD5)
}

func TestRunComputeUnknownAlgo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")

	code, _, stderr := runCLI(t, "-algos", "whirlpool", "-i", filepath.Join(dir, "a.txt"))
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "whirlpool")
}

func TestRunComputeJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.bin", "")

	code, stdout, _ := runCLI(t, "-format", "json", "-i", filepath.Join(dir, "empty.bin"))
	require.Equal(t, exitOK, code)

	var docs []struct {
		Path    string            `json:"path"`
		Digests map[string]string `json:"digests"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, emptyMD5, docs[0].Digests["md5"])
}

func TestRunCompareMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "same content")
	writeFile(t, dir, "two.txt", "same content")

	code, stdout, _ := runCLI(t, "-s",
		filepath.Join(dir, "one.txt"), filepath.Join(dir, "two.txt"))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "all files share identical digests")
}

func TestRunCompareMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "same content")
	writeFile(t, dir, "two.txt", "other content")

	code, stdout, _ := runCLI(t, "-s",
		filepath.Join(dir, "one.txt"), filepath.Join(dir, "two.txt"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "digest mismatches detected")
	assert.Contains(t, stdout, `files differing from "one.txt": two.txt`)
}

func TestRunVerify(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.bin", "")
	writeFile(t, dir, "sums.md5", emptyMD5+"  data.bin\n")

	code, stdout, _ := runCLI(t, "-dir", dir)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "sums.md5")
	assert.Contains(t, stdout, "1 matched")
}

func TestRunVerifyMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.bin", "changed")
	writeFile(t, dir, "sums.md5", emptyMD5+"  data.bin\n")

	code, stdout, _ := runCLI(t, "-dir", dir)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "MISMATCH")
}

func TestRunVerifyMissingDir(t *testing.T) {
	code, _, stderr := runCLI(t, "-dir", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, exitFailure, code)
	assert.NotEmpty(t, stderr)
}

func TestRunComputeWithConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.bin", "")
	cfgPath := writeFile(t, dir, "multisum.toml", `
[hash]
algorithms = ["sha1"]

[output]
format = "csv"
`)

	code, stdout, _ := runCLI(t, "-config", cfgPath, "-i", filepath.Join(dir, "empty.bin"))
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "file,algorithm,digest")
	assert.Contains(t, stdout, "da39a3ee5e6b4b0d3255bfef95601890afd80709")
	assert.NotContains(t, stdout, emptyMD5)
}

func TestRunComputeSidecars(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "empty.bin", "")
	cfgPath := writeFile(t, dir, "multisum.toml", `
[hash]
algorithms = ["md5"]

[output]
generate_sidecars = true
`)

	code, _, _ := runCLI(t, "-config", cfgPath, "-i", target)
	require.Equal(t, exitOK, code)

	sidecar, err := os.ReadFile(target + ".md5")
	require.NoError(t, err)
	assert.Equal(t, emptyMD5+"\n", string(sidecar))
}

func TestRunComputeSumsFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.bin", "")
	cfgPath := writeFile(t, dir, "multisum.toml", `
[hash]
algorithms = ["md5"]

[output]
generate_sums = true
`)

	code, _, _ := runCLI(t, "-config", cfgPath, "-dir", dir, "-i", filepath.Join(dir, "empty.bin"))
	require.Equal(t, exitOK, code)

	sums, err := os.ReadFile(filepath.Join(dir, "MD5SUMS"))
	require.NoError(t, err)
	assert.Equal(t, emptyMD5+"  empty.bin\n", string(sums))
}
