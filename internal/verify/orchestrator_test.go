package verify

import (
	"context"
	"crypto/md5" // #nosec G501 -- test fixtures for md5 manifests
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multisum/multisum/internal/hashing"
	"github.com/multisum/multisum/internal/scheduler"
)

func newOrchestrator(t *testing.T, algos ...string) *Orchestrator {
	t.Helper()
	if len(algos) == 0 {
		algos = []string{"md5", "sha1", "sha256"}
	}
	r, err := hashing.NewRegistry(algos)
	require.NoError(t, err)
	return New(hashing.NewHasher(r), scheduler.New(4))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func md5Hex(content string) string {
	sum := md5.Sum([]byte(content)) // #nosec G401 -- test fixture
	return hex.EncodeToString(sum[:])
}

func sha256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestRunMatchesAllFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.txt", "alpha content")
	writeFile(t, dir, "beta.txt", "beta content")
	writeFile(t, dir, "gamma.bin", "gamma content")

	// GNU multi-entry manifest.
	writeFile(t, dir, "checksums.sha256", fmt.Sprintf("%s  alpha.txt\n%s *beta.txt\n",
		sha256Hex("alpha content"), sha256Hex("beta content")))
	// BSD manifest.
	writeFile(t, dir, "bsd.md5", fmt.Sprintf("MD5 (alpha.txt) = %s\n", md5Hex("alpha content")))
	// Bare-hash sidecar.
	writeFile(t, dir, "gamma.bin.md5", md5Hex("gamma content")+"\n")

	summary, err := newOrchestrator(t).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Matched)
	assert.Zero(t, summary.Mismatched)
	assert.Zero(t, summary.Missing)
	assert.Zero(t, summary.Errors)
	assert.Empty(t, summary.SkippedManifests)
	assert.True(t, summary.OK())
}

func TestRunDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.txt", "actual content")
	writeFile(t, dir, "data.txt.sha256", sha256Hex("declared different content")+"\n")

	summary, err := newOrchestrator(t).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Mismatched)
	assert.False(t, summary.OK())

	require.Len(t, summary.Reports, 1)
	outcome := summary.Reports[0].Outcomes[0]
	assert.Equal(t, StatusMismatched, outcome.Status)
	assert.Equal(t, sha256Hex("declared different content"), outcome.Expected)
	assert.Equal(t, sha256Hex("actual content"), outcome.Actual)
}

func TestRunMissingTargetDoesNotStopSiblings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "present.txt", "present")
	writeFile(t, dir, "checksums.md5", fmt.Sprintf("%s  vanished.txt\n%s  present.txt\n",
		md5Hex("anything"), md5Hex("present")))

	summary, err := newOrchestrator(t).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 1, summary.Matched)

	outcomes := summary.Reports[0].Outcomes
	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusMissingTarget, outcomes[0].Status)
	assert.Equal(t, StatusMatched, outcomes[1].Status)
}

func TestRunFollowsSymlinkedTargets(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "real.dat", "linked content")
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.dat")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.dat"), filepath.Join(dir, "dangling.dat")))

	writeFile(t, dir, "sums.md5", fmt.Sprintf("%s  link.dat\n%s  dangling.dat\n",
		md5Hex("linked content"), md5Hex("linked content")))

	summary, err := newOrchestrator(t).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, 0, summary.Errors)

	require.Len(t, summary.Reports, 1)
	byName := make(map[string]Outcome)
	for _, outcome := range summary.Reports[0].Outcomes {
		byName[outcome.Filename] = outcome
	}
	assert.Equal(t, StatusMatched, byName["link.dat"].Status)
	assert.Equal(t, StatusMissingTarget, byName["dangling.dat"].Status)
}

func TestRunSkipsGarbageManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.txt", "payload")
	writeFile(t, dir, "broken.md5", "nothing parseable here\nat all\n")
	writeFile(t, dir, "data.txt.sha256", sha256Hex("payload")+"\n")

	summary, err := newOrchestrator(t).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "broken.md5")}, summary.SkippedManifests)
	assert.Equal(t, 1, summary.Matched)
	assert.False(t, summary.OK())
}

func TestRunTransientAlgorithmActivation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.bin", "binary payload")
	writeFile(t, dir, "file.bin.md5", md5Hex("binary payload")+"\n")

	// Only sha256 enabled; the .md5 manifest must still verify without
	// mutating the enabled set.
	o := newOrchestrator(t, "sha256")
	summary, err := o.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Matched)
	assert.False(t, o.hasher.Registry().IsEnabled(hashing.MD5))
}

func TestRunIgnoresNonManifestFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "not a manifest")
	writeFile(t, dir, "archive.tar", "not one either")

	summary, err := newOrchestrator(t).Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, summary.Reports)
	assert.True(t, summary.OK())
}

func TestRunUnreadableDirectory(t *testing.T) {
	_, err := newOrchestrator(t).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestDiscoverCaseInsensitiveExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.MD5", "x")
	writeFile(t, dir, "b.Sha256", "x")
	writeFile(t, dir, "c.txt", "x")

	manifests, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.MD5"),
		filepath.Join(dir, "b.Sha256"),
	}, manifests)
}

func TestSummaryEntries(t *testing.T) {
	s := &Summary{Matched: 3, Mismatched: 1, Missing: 2, Errors: 1}
	assert.Equal(t, 7, s.Entries())
	assert.False(t, s.OK())
}
