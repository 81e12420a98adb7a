package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/pdfsort/internal/fsutil"
	"github.com/backmassage/pdfsort/internal/logging"
	"github.com/backmassage/pdfsort/internal/processor"
	"github.com/backmassage/pdfsort/internal/rules"
)

var fixedNow = time.Date(2031, time.June, 1, 12, 0, 0, 0, time.UTC)

// countingExtractor returns canned text per base name and counts calls.
type countingExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	calls map[string]int
}

func newCountingExtractor(texts map[string]string) *countingExtractor {
	return &countingExtractor{texts: texts, calls: make(map[string]int)}
}

func (c *countingExtractor) Name() string { return "counting" }

func (c *countingExtractor) Extract(_ context.Context, path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := filepath.Base(path)
	c.calls[name]++
	return c.texts[name], nil
}

func (c *countingExtractor) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func sampleEnv(t *testing.T, ext *countingExtractor) (*Env, *bytes.Buffer) {
	t.Helper()
	list := rules.SampleRules()
	require.NoError(t, rules.Compile(list))
	var buf bytes.Buffer
	return &Env{
		Engine:    rules.NewEngine(list),
		Extractor: ext,
		FS:        fsutil.OS{},
		Log:       logging.NewWriterLogger(&buf),
		MaxSize:   processor.DefaultMaxSize,
		Now:       func() time.Time { return fixedNow },
	}, &buf
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

// --- Discover tests ---

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.pdf")
	touch(t, dir, "A.PDF")
	touch(t, dir, "c.Pdf")
	touch(t, dir, "notes.txt")
	touch(t, dir, ".hidden.pdf")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	touch(t, filepath.Join(dir, "sub"), "nested.pdf")
	require.NoError(t, os.Symlink(filepath.Join(dir, "notes.txt"), filepath.Join(dir, "link.pdf")))

	files, err := Discover(fsutil.OS{}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.PDF", "b.pdf", "c.Pdf", "link.pdf"}, basenames(files))
	for _, f := range files {
		assert.Equal(t, dir, filepath.Dir(f))
	}
}

func TestDiscover_EmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	files, err := Discover(fsutil.OS{}, dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = Discover(fsutil.OS{}, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

// --- RunStats tests ---

func TestRunStats(t *testing.T) {
	var s RunStats
	s.Record(processor.Outcome{Status: processor.StatusMoved, Size: 10})
	s.Record(processor.Outcome{Status: processor.StatusMoved, Size: 5})
	s.Record(processor.Outcome{Status: processor.StatusWouldMove, Size: 99})
	s.Record(processor.Outcome{Status: processor.StatusSkipped})
	s.Record(processor.Outcome{Status: processor.StatusFailed})

	assert.Equal(t, 2, s.Moved)
	assert.Equal(t, int64(15), s.BytesMoved)
	assert.Equal(t, 3, s.Processed())
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)
}

// --- RunOnce tests ---

func TestRunOnce(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	touch(t, dir, "b.pdf")
	touch(t, dir, "c.pdf")
	touch(t, dir, "d.pdf")
	ext := newCountingExtractor(map[string]string{
		"a.pdf": "INVOICE no. 7, issued 2024-03-15",
		"b.pdf": "Account statement for March 3, 2023",
		"c.pdf": "a holiday photo",
		"d.pdf": "",
	})
	env, buf := sampleEnv(t, ext)

	stats := RunOnce(context.Background(), env, dir)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Moved)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	assert.FileExists(t, filepath.Join(dir, "Invoices", "Invoice_2024_2024.pdf"))
	assert.FileExists(t, filepath.Join(dir, "Banking", "Statements", "Bank_Statement_2023.pdf"))
	assert.FileExists(t, filepath.Join(dir, "c.pdf"))
	assert.FileExists(t, filepath.Join(dir, "d.pdf"))
	assert.Contains(t, buf.String(), "[1/4] a.pdf")
	assert.Contains(t, buf.String(), "Processed 2 out of 4 PDFs")
}

func TestRunOnce_DryRun(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	touch(t, dir, "b.pdf")
	ext := newCountingExtractor(map[string]string{"a.pdf": "invoice 2024", "b.pdf": "invoice 2024"})
	env, buf := sampleEnv(t, ext)
	env.DryRun = true

	stats := RunOnce(context.Background(), env, dir)

	assert.Equal(t, 2, stats.WouldMove)
	assert.Equal(t, 2, stats.Processed())
	assert.NoDirExists(t, filepath.Join(dir, "Invoices"))
	assert.Contains(t, buf.String(), "Invoices/Invoice_2024_2024.pdf")
	assert.Contains(t, buf.String(), "Invoices/Invoice_2024_2024_1.pdf")
	assert.Contains(t, buf.String(), "dry run")
}

func TestRunOnce_MissingFolder(t *testing.T) {
	env, _ := sampleEnv(t, newCountingExtractor(nil))
	stats := RunOnce(context.Background(), env, filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, stats.ScanErrors)
	assert.Equal(t, 0, stats.Total)
}

func TestRunOnce_Cancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	ext := newCountingExtractor(map[string]string{"a.pdf": "invoice"})
	env, _ := sampleEnv(t, ext)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := RunOnce(ctx, env, dir)

	assert.Equal(t, 0, stats.Processed())
	assert.Equal(t, 0, ext.count("a.pdf"))
	assert.FileExists(t, filepath.Join(dir, "a.pdf"))
}

// --- Watch tests ---

func runWatch(t *testing.T, env *Env, dir string, state *WatchState) (cancel func() RunStats) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan RunStats, 1)
	go func() { done <- Watch(ctx, env, dir, 10*time.Millisecond, state) }()
	return func() RunStats {
		stop()
		select {
		case s := <-done:
			return s
		case <-time.After(5 * time.Second):
			t.Fatal("Watch did not return after cancel")
			return RunStats{}
		}
	}
}

func TestWatch_ProcessesEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "photo.pdf")
	ext := newCountingExtractor(map[string]string{
		"photo.pdf": "no rule matches this",
		"late.pdf":  "invoice 2025",
	})
	env, _ := sampleEnv(t, ext)
	state := NewWatchState()

	stop := runWatch(t, env, dir, state)

	require.Eventually(t, func() bool { return ext.count("photo.pdf") == 1 }, 2*time.Second, 5*time.Millisecond)
	touch(t, dir, "late.pdf")
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "Invoices", "Invoice_2025_2025.pdf"))
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond) // several more polls
	stats := stop()

	assert.Equal(t, 1, ext.count("photo.pdf"), "skipped files stay in the seen set")
	assert.Equal(t, 1, ext.count("late.pdf"))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 1, stats.Skipped)
	assert.True(t, state.Seen(filepath.Join(dir, "photo.pdf")))
}

func TestWatch_RenamedInPlaceIsNotReprocessed(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "scan.pdf")
	list := []rules.Rule{{Name: "rename", Actions: rules.Actions{RenamePattern: "Doc_{year}{ext}"}}}
	ext := newCountingExtractor(map[string]string{"scan.pdf": "2024", "Doc_2024.pdf": "2024"})
	env, _ := sampleEnv(t, ext)
	env.Engine = rules.NewEngine(list)
	state := NewWatchState()

	stop := runWatch(t, env, dir, state)
	require.Eventually(t, func() bool { return state.Seen(filepath.Join(dir, "Doc_2024.pdf")) }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	stop()

	assert.Equal(t, 1, ext.count("scan.pdf"))
	assert.Equal(t, 0, ext.count("Doc_2024.pdf"))
	assert.FileExists(t, filepath.Join(dir, "Doc_2024.pdf"))
}

func TestWatch_AlreadyCancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")
	ext := newCountingExtractor(map[string]string{"a.pdf": "invoice"})
	env, _ := sampleEnv(t, ext)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := Watch(ctx, env, dir, time.Hour, nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, ext.count("a.pdf"))
}

func TestWatchState(t *testing.T) {
	s := NewWatchState()
	assert.False(t, s.Seen("/in/a.pdf"))
	s.Add("/in/./a.pdf")
	assert.True(t, s.Seen("/in/a.pdf"))
	assert.Equal(t, 1, s.Len())
}

// --- Notifier tests ---

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Create}))
	assert.True(t, relevant(fsnotify.Event{Name: "/in/a.PDF", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Rename}))
	assert.False(t, relevant(fsnotify.Event{Name: "/in/a.pdf", Op: fsnotify.Remove}))
	assert.False(t, relevant(fsnotify.Event{Name: "/in/a.txt", Op: fsnotify.Create}))
	assert.False(t, relevant(fsnotify.Event{Name: "/in/.a.pdf", Op: fsnotify.Create}))
}

func TestNotifier_WakesOnPDF(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	n, err := StartNotifier(context.Background(), dir, logging.NewWriterLogger(&buf), false)
	require.NoError(t, err)
	defer n.Close()

	touch(t, dir, "new.pdf")
	select {
	case <-n.C:
	case <-time.After(5 * time.Second):
		t.Fatal("no wake-up after creating a PDF")
	}
}

// --- Organize tests ---

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, "Images", CategoryFor(DefaultCategories, "a.JPG"))
	assert.Equal(t, "Documents", CategoryFor(DefaultCategories, "b.pdf"))
	assert.Equal(t, "Code", CategoryFor(DefaultCategories, "c.py"))
	assert.Equal(t, OtherCategory, CategoryFor(DefaultCategories, "d.xyz"))
	assert.Equal(t, OtherCategory, CategoryFor(DefaultCategories, "Makefile"))
}

func TestOrganize(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "photo.png")
	touch(t, dir, "song.mp3")
	touch(t, dir, "report.pdf")
	touch(t, dir, "blob.bin")
	touch(t, dir, ".env")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Documents"), 0o755))
	touch(t, filepath.Join(dir, "Documents"), "report.pdf")
	var buf bytes.Buffer
	log := logging.NewWriterLogger(&buf)

	stats := Organize(context.Background(), fsutil.OS{}, log, dir, DefaultCategories, false)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Moved)
	assert.Equal(t, 1, stats.Skipped)
	assert.FileExists(t, filepath.Join(dir, "Images", "photo.png"))
	assert.FileExists(t, filepath.Join(dir, "Music", "song.mp3"))
	assert.FileExists(t, filepath.Join(dir, "Other", "blob.bin"))
	assert.FileExists(t, filepath.Join(dir, "report.pdf"), "existing destination is never overwritten")
	assert.FileExists(t, filepath.Join(dir, ".env"))
}

func TestOrganize_DryRun(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "photo.png")
	var buf bytes.Buffer

	stats := Organize(context.Background(), fsutil.OS{}, logging.NewWriterLogger(&buf), dir, DefaultCategories, true)

	assert.Equal(t, 1, stats.Moved)
	assert.NoDirExists(t, filepath.Join(dir, "Images"))
	assert.FileExists(t, filepath.Join(dir, "photo.png"))
	assert.Contains(t, buf.String(), "[DRY] Would move")
}
