package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/pdfsort/internal/config"
	"github.com/backmassage/pdfsort/internal/pdftext"
	"github.com/backmassage/pdfsort/internal/rules"
)

// mockLogger records messages per level.
type mockLogger struct {
	lines map[string][]string
}

func newMockLogger() *mockLogger { return &mockLogger{lines: map[string][]string{}} }

func (m *mockLogger) add(level, format string, args ...interface{}) {
	m.lines[level] = append(m.lines[level], fmt.Sprintf(format, args...))
}
func (m *mockLogger) Info(f string, a ...interface{})    { m.add("info", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{}) { m.add("success", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})    { m.add("warn", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})   { m.add("error", f, a...) }
func (m *mockLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		m.add("debug", f, a...)
	}
}

func withoutPdftotext(t *testing.T) {
	t.Helper()
	orig := lookPath
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	t.Cleanup(func() { lookPath = orig })
}

func testConfig(t *testing.T) config.Config {
	cfg := config.DefaultConfig()
	cfg.RulesFile = filepath.Join(t.TempDir(), "pdf_rules.json")
	return cfg
}

func TestRunCheck_MissingRulesIsFine(t *testing.T) {
	withoutPdftotext(t)
	cfg := testConfig(t)
	log := newMockLogger()

	assert.True(t, RunCheck(&cfg, log))
	assert.NotEmpty(t, log.lines["warn"])
	assert.NoFileExists(t, cfg.RulesFile, "check must not create the rules file")
}

func TestRunCheck_RequiredPdftotextMissing(t *testing.T) {
	withoutPdftotext(t)
	cfg := testConfig(t)
	cfg.Extractor = pdftext.ModePdftotext
	log := newMockLogger()

	assert.False(t, RunCheck(&cfg, log))
	assert.NotEmpty(t, log.lines["error"])
}

func TestRunCheck_RulesAndFolder(t *testing.T) {
	withoutPdftotext(t)
	cfg := testConfig(t)
	require.NoError(t, rules.Save(cfg.RulesFile, append(rules.SampleRules(), rules.Rule{Name: "catch all"})))
	cfg.Folder = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Folder, "a.pdf"), nil, 0o644))
	log := newMockLogger()

	assert.True(t, RunCheck(&cfg, log))
	assert.Contains(t, log.lines["success"], fmt.Sprintf("Folder: %s (1 PDF)", cfg.Folder))
	assert.Contains(t, log.lines["warn"], `  Rule "catch all" has no conditions and matches every PDF`)
}

func TestRunCheck_MalformedRules(t *testing.T) {
	withoutPdftotext(t)
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.RulesFile, []byte("{"), 0o644))

	assert.False(t, RunCheck(&cfg, newMockLogger()))
}

func TestCheckDeps(t *testing.T) {
	withoutPdftotext(t)

	cfg := testConfig(t)
	assert.NoError(t, CheckDeps(&cfg))

	cfg.Extractor = pdftext.ModePdftotext
	assert.ErrorIs(t, CheckDeps(&cfg), pdftext.ErrToolNotFound)

	cfg = testConfig(t)
	require.NoError(t, os.WriteFile(cfg.RulesFile, []byte("["), 0o644))
	assert.ErrorIs(t, CheckDeps(&cfg), rules.ErrMalformedRules)

	cfg = testConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.Folder = file
	assert.ErrorIs(t, CheckDeps(&cfg), ErrNotADirectory)

	cfg.DryRun = true
	assert.NoError(t, CheckDeps(&cfg))
}

func TestFolderWritable_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := folderWritable(dir)
	assert.True(t, errors.Is(err, ErrFolderNotWritable))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "pdftotext version 24.02.0", firstLine("\npdftotext version 24.02.0\nCopyright\n"))
	assert.Equal(t, "", firstLine("  "))
}
