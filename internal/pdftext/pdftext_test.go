package pdftext

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	args   []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.args = append([]string{name}, args...)
	return m.output, m.err
}

type stubExtractor struct {
	name string
	text string
	err  error
	hits int
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(context.Context, string) (string, error) {
	s.hits++
	return s.text, s.err
}

func TestPoppler_Extract(t *testing.T) {
	runner := &mockRunner{output: []byte("page one\fpage two\f")}
	p := NewWithRunner(runner)

	text, err := p.Extract(context.Background(), "/docs/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "page one\npage two\n", text)
	assert.Equal(t, []string{"pdftotext", "-layout", "-enc", "UTF-8", "/docs/a.pdf", "-"}, runner.args)
}

func TestPoppler_RunnerError(t *testing.T) {
	p := NewWithRunner(&mockRunner{err: errors.New("exit status 1")})
	_, err := p.Extract(context.Background(), "/docs/a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestPoppler_BinaryMissing(t *testing.T) {
	p := NewWithRunner(&mockRunner{err: &exec.Error{Name: "pdftotext", Err: exec.ErrNotFound}})
	_, err := p.Extract(context.Background(), "/docs/a.pdf")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	t.Run("first non-empty wins", func(t *testing.T) {
		a := &stubExtractor{name: "a", text: "  \n"}
		b := &stubExtractor{name: "b", text: "hello"}
		c := &stubExtractor{name: "c", text: "unused"}
		text, err := Chain{a, b, c}.Extract(ctx, "x.pdf")
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
		assert.Equal(t, 0, c.hits)
	})

	t.Run("error falls through", func(t *testing.T) {
		a := &stubExtractor{name: "a", err: errors.New("boom")}
		b := &stubExtractor{name: "b", text: "ok"}
		text, err := Chain{a, b}.Extract(ctx, "x.pdf")
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	})

	t.Run("all fail", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Chain{&stubExtractor{name: "a", err: boom}, &stubExtractor{name: "b", err: boom}}.Extract(ctx, "x.pdf")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty text without error", func(t *testing.T) {
		a := &stubExtractor{name: "a", err: errors.New("boom")}
		b := &stubExtractor{name: "b"}
		text, err := Chain{a, b}.Extract(ctx, "x.pdf")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Chain{&stubExtractor{name: "a", text: "x"}}.Extract(cctx, "x.pdf")
		assert.ErrorIs(t, err, context.Canceled)
	})

	assert.Equal(t, "a+b", Chain{&stubExtractor{name: "a"}, &stubExtractor{name: "b"}}.Name())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"auto": ModeAuto, " PDFTOTEXT ": ModePdftotext, "native": ModeNative} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("ocr")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	e, err := New(ModeNative)
	require.NoError(t, err)
	assert.Equal(t, "native", e.Name())

	e, err = New(ModeAuto)
	require.NoError(t, err)
	assert.NotNil(t, e)

	_, err = New(Mode("bogus"))
	assert.Error(t, err)
}

func TestNative_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := NewNative().Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestInstallInstructions(t *testing.T) {
	s := InstallInstructions()
	assert.Contains(t, s, "pdftotext")
	assert.Contains(t, s, "brew install poppler")
	assert.Contains(t, s, "apt install poppler-utils")
}

// Integration test - only runs if pdftotext is available.
func TestPoppler_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not available, skipping integration test")
	}
	_, err := NewPoppler().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
