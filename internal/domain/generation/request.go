package generation

import (
	"strings"

	"github.com/yanqian/slidegen/internal/domain/catalog"
	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

// Normalize trims the request, fills defaults and rejects values outside the catalogs.
func Normalize(req Request) (Request, error) {
	out := Request{
		Topic:    strings.TrimSpace(req.Topic),
		Type:     strings.TrimSpace(req.Type),
		Audience: strings.TrimSpace(req.Audience),
		Duration: req.Duration,
		Tone:     strings.TrimSpace(req.Tone),
		Industry: strings.TrimSpace(req.Industry),
		Template: strings.TrimSpace(req.Template),
		Author:   strings.TrimSpace(req.Author),
	}
	if out.Topic == "" {
		return Request{}, apperrors.Wrap(CodeInvalidInput, "topic is required", nil)
	}
	if out.Type == "" {
		out.Type = catalog.DefaultType
	}
	if out.Audience == "" {
		out.Audience = catalog.DefaultAudience
	}
	if out.Tone == "" {
		out.Tone = catalog.DefaultTone
	}
	if out.Template == "" {
		out.Template = catalog.DefaultTemplate
	}
	if out.Duration == 0 {
		out.Duration = catalog.DefaultDuration
	}

	switch {
	case out.Duration < 0:
		return Request{}, apperrors.Wrap(CodeInvalidInput, "duration must be a positive number of minutes", nil)
	case !catalog.IsPresentationType(out.Type):
		return Request{}, apperrors.Wrap(CodeInvalidInput, "unknown presentation type: "+out.Type, nil)
	case !catalog.IsAudience(out.Audience):
		return Request{}, apperrors.Wrap(CodeInvalidInput, "unknown audience: "+out.Audience, nil)
	case !catalog.IsTone(out.Tone):
		return Request{}, apperrors.Wrap(CodeInvalidInput, "unknown tone: "+out.Tone, nil)
	case !catalog.IsTemplate(out.Template):
		return Request{}, apperrors.Wrap(CodeInvalidInput, "unknown template: "+out.Template, nil)
	}
	return out, nil
}
