package generation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Format selects the exporter the generator runs after planning the slides.
type Format string

const (
	FormatRevealJS Format = "reveal_js"
	FormatPPTX     Format = "pptx"
	// FormatTemplate is HTML produced by the template renderer from an authored deck.
	FormatTemplate Format = "template"
)

// Extension returns the file extension written for the format.
func (f Format) Extension() string {
	if f == FormatPPTX {
		return ".pptx"
	}
	return ".html"
}

// DefaultTimeout bounds a single generator run when Config.Timeout is unset.
const DefaultTimeout = 5 * time.Minute

// Config carries the generator invocation settings.
type Config struct {
	Python        string
	Script        string
	// RenderScript renders authored decks; empty disables Render.
	RenderScript  string
	OutputDir     string
	Format        Format
	Timeout       time.Duration
	MaxConcurrent int64
}

// Request is the wizard submission.
type Request struct {
	Topic    string  `json:"topic"`
	Type     string  `json:"type,omitempty"`
	Audience string  `json:"audience,omitempty"`
	Duration Minutes `json:"duration,omitempty"`
	Tone     string  `json:"tone,omitempty"`
	Industry string  `json:"industry,omitempty"`
	Template string  `json:"template,omitempty"`
	Author   string  `json:"author,omitempty"`
}

// Minutes accepts either a JSON number or a numeric string.
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			return nil
		}
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*m = Minutes(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("duration must be a whole number of minutes, got %s", string(data))
	}
	*m = Minutes(int(f))
	return nil
}

// Result is returned verbatim to the client.
type Result struct {
	Success    bool   `json:"success"`
	URL        string `json:"url,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Title      string `json:"title,omitempty"`
	SlideCount int    `json:"slide_count,omitempty"`
	Error      string `json:"error,omitempty"`
	Code       string `json:"code,omitempty"`

	// Path is the resolved artifact on disk.
	Path string `json:"-"`
}

// Failure codes reported in Result.Code.
const (
	CodeInvalidJSON        = "invalid_json"
	CodeInvalidInput       = "invalid_input"
	CodeGenerationFailed   = "generation_failed"
	CodeNoOutput           = "no_output"
	CodeGenerationTimeout  = "generation_timeout"
	CodeGenerationCanceled = "generation_canceled"
	CodeGenerationDisabled = "generation_disabled"
	CodeRenderDisabled     = "render_disabled"
)

// Failure builds an unsuccessful result.
func Failure(code, message string) Result {
	return Result{Success: false, Error: message, Code: code}
}
