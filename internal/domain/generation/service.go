package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"

	apperrors "github.com/yanqian/slidegen/pkg/errors"
	"github.com/yanqian/slidegen/pkg/metrics"
	"github.com/yanqian/slidegen/pkg/tracer"
)

// Service runs the external generator for wizard submissions.
type Service interface {
	// Generate renders the deck in the configured format. The error is non-nil only for invalid input;
	// generator failures are reported in-band through Result.
	Generate(ctx context.Context, req Request) (Result, error)
	// Export renders the deck as PPTX.
	Export(ctx context.Context, req Request) (Result, error)
	// Render writes an authored deck through a catalog template.
	Render(ctx context.Context, req RenderRequest) (Result, error)
}

// Command is a single process invocation. Stdin is nil for the generator.
type Command struct {
	Name  string
	Args  []string
	Stdin []byte
}

// Outcome captures a finished process.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a command to completion. It returns an error when the process could not be started or
// was killed because ctx ended; a nonzero exit is reported through Outcome.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Outcome, error)
}

// TopicTracker counts successfully generated topics.
type TopicTracker interface {
	Track(ctx context.Context, topic string) error
}

// Artifact describes a produced file.
type Artifact struct {
	Filename string
	Path     string
	Format   Format
}

// ArtifactMirror copies produced files somewhere durable.
type ArtifactMirror interface {
	Mirror(ctx context.Context, artifact Artifact) error
}

type service struct {
	cfg    Config
	runner Runner
	topics TopicTracker
	mirror ArtifactMirror
	slots  *semaphore.Weighted
	newID  func() string
	logger *slog.Logger
}

// NewService wires the invoker. topics and mirror may be nil.
func NewService(cfg Config, runner Runner, topics TopicTracker, mirror ArtifactMirror, logger *slog.Logger) Service {
	if cfg.Format == "" {
		cfg.Format = FormatRevealJS
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &service{
		cfg:    cfg,
		runner: runner,
		topics: topics,
		mirror: mirror,
		newID:  defaultIDSource,
		logger: logger.With("component", "generation.service"),
	}
	if cfg.MaxConcurrent > 0 {
		s.slots = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return s
}

func (s *service) Generate(ctx context.Context, req Request) (Result, error) {
	return s.generate(ctx, req, s.cfg.Format)
}

func (s *service) Export(ctx context.Context, req Request) (Result, error) {
	return s.generate(ctx, req, FormatPPTX)
}

func (s *service) generate(ctx context.Context, req Request, format Format) (Result, error) {
	normalized, err := Normalize(req)
	if err != nil {
		return Failure(CodeInvalidInput, apperrors.MessageOf(err)), err
	}
	result := s.invoke(ctx, format, func(output string) Command {
		return Command{Name: s.cfg.Python, Args: buildArgs(s.cfg.Script, normalized, output, format)}
	})
	if result.Success {
		s.afterSuccess(ctx, normalized.Topic, result, format)
	}
	return result, nil
}

func (s *service) Render(ctx context.Context, req RenderRequest) (Result, error) {
	normalized, err := NormalizeRender(req)
	if err != nil {
		return Failure(CodeInvalidInput, apperrors.MessageOf(err)), err
	}
	if s.cfg.RenderScript == "" {
		return Failure(CodeRenderDisabled, "template rendering is not configured"), nil
	}
	deck, err := json.Marshal(normalized)
	if err != nil {
		return Failure(CodeInvalidInput, err.Error()), apperrors.Wrap(CodeInvalidInput, "encode deck", err)
	}
	result := s.invoke(ctx, FormatTemplate, func(output string) Command {
		return Command{
			Name:  s.cfg.Python,
			Args:  renderArgs(s.cfg.RenderScript, normalized.Template, output),
			Stdin: deck,
		}
	})
	if result.Success {
		if result.Title == "" {
			result.Title = normalized.Title
		}
		if result.SlideCount == 0 {
			result.SlideCount = len(normalized.Slides)
		}
		s.afterSuccess(ctx, "", result, FormatTemplate)
	}
	return result, nil
}

// invoke runs one command built around the requested output path and resolves what it produced.
func (s *service) invoke(parent context.Context, format Format, build func(output string) Command) Result {
	id := s.newID()
	base := filenamePrefix + id
	ext := format.Extension()
	requested := filepath.Join(s.cfg.OutputDir, base+ext)
	log := s.logger.With("id", id, "format", string(format))

	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		log.Error("create output directory failed", "error", err)
		return Failure(CodeGenerationFailed, fmt.Sprintf("output directory unavailable: %v", err))
	}

	if s.slots != nil {
		if err := s.slots.Acquire(parent, 1); err != nil {
			return Failure(CodeGenerationCanceled, "generation canceled while waiting for a free slot")
		}
		defer s.slots.Release(1)
	}

	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "generation.invoke")
	defer span.End()
	span.SetAttributes(
		attribute.String("generation.id", id),
		attribute.String("generation.format", string(format)),
	)

	cmd := build(requested)
	start := time.Now()
	metrics.GenerationInFlight.Inc()
	outcome, runErr := s.runner.Run(ctx, cmd)
	metrics.GenerationInFlight.Dec()
	elapsed := time.Since(start)

	result := s.interpret(ctx, runErr, outcome, base, ext, requested)
	outcomeLabel := "success"
	if !result.Success {
		outcomeLabel = result.Code
		span.SetStatus(codes.Error, result.Code)
	}
	metrics.ObserveGeneration(string(format), outcomeLabel, elapsed.Seconds())
	log.Info("generation finished",
		"outcome", outcomeLabel,
		"exit_code", outcome.ExitCode,
		"duration_ms", elapsed.Milliseconds(),
		"filename", result.Filename,
	)
	return result
}

func (s *service) interpret(ctx context.Context, runErr error, outcome Outcome, base, ext, requested string) Result {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Failure(CodeGenerationTimeout, fmt.Sprintf("generation timed out after %s", s.cfg.Timeout))
	case errors.Is(ctx.Err(), context.Canceled):
		return Failure(CodeGenerationCanceled, "generation canceled")
	case runErr != nil:
		return Failure(CodeGenerationFailed, fmt.Sprintf("failed to start generator: %v", runErr))
	case outcome.ExitCode != 0:
		message := strings.TrimSpace(outcome.Stderr)
		if message == "" {
			message = fmt.Sprintf("generator exited with status %d", outcome.ExitCode)
		}
		return Failure(CodeGenerationFailed, message)
	}

	path, report, ok := resolveArtifact(s.cfg.OutputDir, base, ext, requested, outcome.Stdout)
	if !ok {
		return Failure(CodeNoOutput, "generation finished but no output file was produced")
	}
	filename := filepath.Base(path)
	return Result{
		Success:    true,
		URL:        "/output/" + filename,
		Filename:   filename,
		Title:      report.Title,
		SlideCount: report.SlideCount,
		Path:       path,
	}
}

// afterSuccess counts topic (when set) and mirrors the artifact. Neither can fail the request.
func (s *service) afterSuccess(ctx context.Context, topic string, result Result, format Format) {
	if s.topics != nil && topic != "" {
		if err := s.topics.Track(ctx, topic); err != nil {
			s.logger.Warn("track topic failed", "error", err)
		}
	}
	if s.mirror != nil {
		artifact := Artifact{Filename: result.Filename, Path: result.Path, Format: format}
		if err := s.mirror.Mirror(ctx, artifact); err != nil {
			s.logger.Warn("mirror artifact failed", "filename", result.Filename, "error", err)
		}
	}
}
