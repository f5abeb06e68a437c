package generation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGenerate_DefaultArgumentsAndResult(t *testing.T) {
	outDir := t.TempDir()
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := newTestService(t, outDir, runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "Q4 Sales Review"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, runner.calls())

	cmd := runner.last()
	require.Equal(t, "python3", cmd.Name)
	output := filepath.Join(outDir, "presentation_fixedid.html")
	require.Equal(t, []string{
		"search.py", "--presentation",
		"--type", "business_presentation",
		"--audience", "general_employees",
		"--duration", "15",
		"--tone", "professional",
		"--industry", "",
		"--output", output,
		"--presentation-format", "reveal_js",
		"--", "Q4 Sales Review",
	}, cmd.Args)

	require.Equal(t, "presentation_fixedid.html", res.Filename)
	require.Equal(t, "/output/presentation_fixedid.html", res.URL)
	require.Empty(t, res.Error)
}

func TestGenerate_AuthorFlagAppended(t *testing.T) {
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := newTestService(t, t.TempDir(), runner)

	_, err := svc.Generate(context.Background(), Request{Topic: "Roadmap", Author: "  Ada  ", Duration: 30})
	require.NoError(t, err)
	args := runner.last().Args
	require.Equal(t, []string{"--author", "Ada", "--", "Roadmap"}, args[len(args)-4:])
	require.Contains(t, args, "30")
}

func TestGenerate_DashLeadingTopicStaysPositional(t *testing.T) {
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := newTestService(t, t.TempDir(), runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "-growth"})
	require.NoError(t, err)
	require.True(t, res.Success)
	args := runner.last().Args
	require.Equal(t, []string{"--", "-growth"}, args[len(args)-2:])
	require.NotContains(t, args[:len(args)-2], "-growth")
}

func TestGenerate_RejectsMissingTopicWithoutSpawning(t *testing.T) {
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := newTestService(t, t.TempDir(), runner)

	for _, topic := range []string{"", "   ", "\n\t"} {
		res, err := svc.Generate(context.Background(), Request{Topic: topic})
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, CodeInvalidInput))
		require.False(t, res.Success)
		require.Equal(t, "topic is required", res.Error)
	}
	require.Zero(t, runner.calls())
}

func TestGenerate_NonzeroExitUsesStderr(t *testing.T) {
	runner := &stubRunner{fn: func(Command) (Outcome, error) {
		return Outcome{ExitCode: 2, Stderr: "  Traceback: boom\n"}, nil
	}}
	svc := newTestService(t, t.TempDir(), runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "Fail"})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, CodeGenerationFailed, res.Code)
	require.Equal(t, "Traceback: boom", res.Error)
}

func TestGenerate_NonzeroExitWithoutStderr(t *testing.T) {
	runner := &stubRunner{fn: func(Command) (Outcome, error) {
		return Outcome{ExitCode: 1}, nil
	}}
	svc := newTestService(t, t.TempDir(), runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "Fail"})
	require.NoError(t, err)
	require.Equal(t, "generator exited with status 1", res.Error)
}

func TestGenerate_ZeroExitWithoutOutput(t *testing.T) {
	runner := &stubRunner{fn: func(Command) (Outcome, error) {
		return Outcome{Stdout: "nothing written\n"}, nil
	}}
	svc := newTestService(t, t.TempDir(), runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "Empty"})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, CodeNoOutput, res.Code)
	require.NotEmpty(t, res.Error)
}

func TestGenerate_NestedArtifactReportsNoOutput(t *testing.T) {
	outDir := t.TempDir()
	runner := &stubRunner{fn: func(Command) (Outcome, error) {
		decks := filepath.Join(outDir, "decks")
		if err := os.MkdirAll(decks, 0o755); err != nil {
			return Outcome{}, err
		}
		path := filepath.Join(decks, "presentation_fixedid.html")
		if err := os.WriteFile(path, []byte("<html>deck</html>"), 0o644); err != nil {
			return Outcome{}, err
		}
		return Outcome{Stdout: "Reveal.js 已保存: " + path + "\n"}, nil
	}}
	svc := newTestService(t, outDir, runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "Nested"})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, CodeNoOutput, res.Code)
	require.Empty(t, res.URL)
}

func TestGenerate_IgnoresOtherInvocationsFiles(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "presentation_zzzzzz.html"), []byte("other"), 0o644))
	runner := &stubRunner{fn: func(Command) (Outcome, error) {
		return Outcome{}, nil
	}}
	svc := newTestService(t, outDir, runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "Mine"})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, CodeNoOutput, res.Code)
}

func TestGenerate_StatusLineSuppliesTitleAndCount(t *testing.T) {
	outDir := t.TempDir()
	runner := &stubRunner{fn: func(cmd Command) (Outcome, error) {
		path := filepath.Join(outDir, "presentation_fixedid-v2.html")
		if err := os.WriteFile(path, []byte("<html></html>"), 0o644); err != nil {
			return Outcome{}, err
		}
		stdout := "planning slides\n" + `{"output":"` + path + `","title":"Q4 Sales Review","slide_count":12}` + "\n"
		return Outcome{Stdout: stdout}, nil
	}}
	svc := newTestService(t, outDir, runner)

	res, err := svc.Generate(context.Background(), Request{Topic: "Q4 Sales Review"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "presentation_fixedid-v2.html", res.Filename)
	require.Equal(t, "Q4 Sales Review", res.Title)
	require.Equal(t, 12, res.SlideCount)
}

func TestGenerate_TimeoutKillsAndReportsDistinctCode(t *testing.T) {
	runner := &stubRunner{fn: nil, block: true}
	svc := NewService(Config{
		Python:    "python3",
		Script:    "search.py",
		OutputDir: t.TempDir(),
		Timeout:   20 * time.Millisecond,
	}, runner, nil, nil, newTestLogger())

	res, err := svc.Generate(context.Background(), Request{Topic: "Slow"})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, CodeGenerationTimeout, res.Code)
	require.Contains(t, res.Error, "timed out")
}

func TestGenerate_CallerCancellation(t *testing.T) {
	runner := &stubRunner{block: true}
	svc := newTestService(t, t.TempDir(), runner)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	res, err := svc.Generate(ctx, Request{Topic: "Gone"})
	require.NoError(t, err)
	require.Equal(t, CodeGenerationCanceled, res.Code)
}

func TestGenerate_ConcurrentRequestsGetDistinctFiles(t *testing.T) {
	outDir := t.TempDir()
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := NewService(Config{
		Python:    "python3",
		Script:    "search.py",
		OutputDir: outDir,
		Timeout:   time.Second,
	}, runner, nil, nil, newTestLogger())

	const n = 8
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Generate(context.Background(), Request{Topic: "Topic " + string(rune('A'+i))})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, res := range results {
		require.True(t, res.Success)
		_, dup := seen[res.Filename]
		require.False(t, dup, "duplicate filename %s", res.Filename)
		seen[res.Filename] = struct{}{}
	}
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, n)
}

func TestGenerate_MaxConcurrentBoundsRunningProcesses(t *testing.T) {
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	runner := &stubRunner{fn: func(cmd Command) (Outcome, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
		return writeRequestedOutput(cmd)
	}}
	svc := NewService(Config{
		Python:        "python3",
		OutputDir:     t.TempDir(),
		Timeout:       time.Second,
		MaxConcurrent: 2,
	}, runner, nil, nil, newTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Generate(context.Background(), Request{Topic: "Bounded"})
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, peak, 2)
	require.Equal(t, 6, runner.calls())
}

func TestExport_UsesPPTXFormat(t *testing.T) {
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := newTestService(t, t.TempDir(), runner)

	res, err := svc.Export(context.Background(), Request{Topic: "Deck"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "presentation_fixedid.pptx", res.Filename)
	args := runner.last().Args
	require.Equal(t, []string{"--presentation-format", "pptx"}, args[len(args)-4:len(args)-2])
}

func TestGenerate_SuccessHooks(t *testing.T) {
	runner := &stubRunner{fn: writeRequestedOutput}
	topics := &recordingTracker{}
	mirror := &recordingMirror{err: errors.New("bucket offline")}
	svc := NewService(Config{
		Python:    "python3",
		Script:    "search.py",
		OutputDir: t.TempDir(),
		Timeout:   time.Second,
	}, runner, topics, mirror, newTestLogger()).(*service)
	svc.newID = func() string { return "fixedid" }

	res, err := svc.Generate(context.Background(), Request{Topic: " Launch Plan "})
	require.NoError(t, err)
	require.True(t, res.Success, "mirror failures must not fail generation")
	require.Equal(t, []string{"Launch Plan"}, topics.topics)
	require.Len(t, mirror.artifacts, 1)
	require.Equal(t, res.Filename, mirror.artifacts[0].Filename)
	require.Equal(t, FormatRevealJS, mirror.artifacts[0].Format)
}

func TestRender_WritesAuthoredDeckThroughTemplate(t *testing.T) {
	outDir := t.TempDir()
	runner := &stubRunner{fn: writeRequestedOutput}
	tracker := &recordingTracker{}
	svc := NewService(Config{
		Python:       "python3",
		Script:       "search.py",
		RenderScript: "render_deck.py",
		OutputDir:    outDir,
		Timeout:      time.Second,
	}, runner, tracker, nil, newTestLogger()).(*service)
	svc.newID = func() string { return "fixedid" }

	res, err := svc.Render(context.Background(), RenderRequest{
		Title:    "  Quarterly Review ",
		Template: "corporate-blue",
		Slides: []Slide{
			{Type: "title", Title: "Q3"},
			{Title: "Numbers", Contents: []json.RawMessage{json.RawMessage(`"Revenue up"`)}},
		},
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "presentation_fixedid.html", res.Filename)
	require.Equal(t, "/output/presentation_fixedid.html", res.URL)
	require.Equal(t, "Quarterly Review", res.Title)
	require.Equal(t, 2, res.SlideCount)
	require.Empty(t, tracker.topics)

	cmd := runner.last()
	require.Equal(t, []string{
		"render_deck.py", "--template", "corporate-blue",
		"--output", filepath.Join(outDir, "presentation_fixedid.html"),
		"--input", "-",
	}, cmd.Args)

	var deck RenderRequest
	require.NoError(t, json.Unmarshal(cmd.Stdin, &deck))
	require.Equal(t, "Quarterly Review", deck.Title)
	require.Equal(t, "content", deck.Slides[1].Type)
	require.JSONEq(t, `"Revenue up"`, string(deck.Slides[1].Contents[0]))
}

func TestRender_RequiresTitleAndSlides(t *testing.T) {
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := NewService(Config{
		Python:       "python3",
		RenderScript: "render_deck.py",
		OutputDir:    t.TempDir(),
		Timeout:      time.Second,
	}, runner, nil, nil, newTestLogger())

	for _, req := range []RenderRequest{
		{Slides: []Slide{{Title: "x"}}},
		{Title: "Deck"},
		{Title: "Deck", Template: "neon", Slides: []Slide{{Title: "x"}}},
	} {
		res, err := svc.Render(context.Background(), req)
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, CodeInvalidInput))
		require.Equal(t, CodeInvalidInput, res.Code)
	}
	require.Zero(t, runner.calls())
}

func TestRender_DisabledWithoutScript(t *testing.T) {
	runner := &stubRunner{fn: writeRequestedOutput}
	svc := newTestService(t, t.TempDir(), runner)

	res, err := svc.Render(context.Background(), RenderRequest{Title: "Deck", Slides: []Slide{{Title: "x"}}})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, CodeRenderDisabled, res.Code)
	require.Zero(t, runner.calls())
}

func newTestService(t *testing.T, outDir string, runner Runner) Service {
	t.Helper()
	svc := NewService(Config{
		Python:    "python3",
		Script:    "search.py",
		OutputDir: outDir,
		Timeout:   time.Second,
	}, runner, nil, nil, newTestLogger()).(*service)
	svc.newID = func() string { return "fixedid" }
	return svc
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeRequestedOutput behaves like the generator: it writes the file named by --output.
func writeRequestedOutput(cmd Command) (Outcome, error) {
	for i := 0; i < len(cmd.Args)-1; i++ {
		if cmd.Args[i] == "--output" {
			path := cmd.Args[i+1]
			if err := os.WriteFile(path, []byte("<html>deck</html>"), 0o644); err != nil {
				return Outcome{}, err
			}
			return Outcome{Stdout: "Reveal.js saved: " + path + "\n"}, nil
		}
	}
	return Outcome{ExitCode: 2, Stderr: "missing --output"}, nil
}

type stubRunner struct {
	mu       sync.Mutex
	fn       func(Command) (Outcome, error)
	block    bool
	commands []Command
}

func (s *stubRunner) Run(ctx context.Context, cmd Command) (Outcome, error) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return Outcome{ExitCode: -1}, ctx.Err()
	}
	return s.fn(cmd)
}

func (s *stubRunner) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands)
}

func (s *stubRunner) last() Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands[len(s.commands)-1]
}

type recordingTracker struct {
	topics []string
}

func (r *recordingTracker) Track(_ context.Context, topic string) error {
	r.topics = append(r.topics, topic)
	return nil
}

type recordingMirror struct {
	artifacts []Artifact
	err       error
}

func (r *recordingMirror) Mirror(_ context.Context, artifact Artifact) error {
	r.artifacts = append(r.artifacts, artifact)
	return r.err
}
