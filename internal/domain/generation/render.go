package generation

import (
	"encoding/json"
	"strings"

	"github.com/yanqian/slidegen/internal/domain/catalog"
	apperrors "github.com/yanqian/slidegen/pkg/errors"
)

const defaultLogoIcon = "📊"

// RenderRequest is a fully authored deck rendered with one of the catalog templates, skipping planning.
type RenderRequest struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Author   string  `json:"author,omitempty"`
	Date     string  `json:"date,omitempty"`
	Template string  `json:"template,omitempty"`
	Industry string  `json:"industry,omitempty"`
	LogoIcon string  `json:"logo_icon,omitempty"`
	Slides   []Slide `json:"slides"`
}

// Slide is one page of a RenderRequest. Contents are passed to the renderer untouched.
type Slide struct {
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Subtitle string            `json:"subtitle,omitempty"`
	Contents []json.RawMessage `json:"contents,omitempty"`
	Notes    string            `json:"notes,omitempty"`
}

// NormalizeRender requires a title and at least one slide and fills template defaults.
func NormalizeRender(req RenderRequest) (RenderRequest, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Template = strings.TrimSpace(req.Template)
	if req.Title == "" || len(req.Slides) == 0 {
		return RenderRequest{}, apperrors.Wrap(CodeInvalidInput, "title and slides are required", nil)
	}
	if req.Template == "" {
		req.Template = catalog.DefaultTemplate
	}
	if !catalog.IsTemplate(req.Template) {
		return RenderRequest{}, apperrors.Wrap(CodeInvalidInput, "unknown template: "+req.Template, nil)
	}
	if req.LogoIcon == "" {
		req.LogoIcon = defaultLogoIcon
	}
	for i := range req.Slides {
		if req.Slides[i].Type == "" {
			req.Slides[i].Type = "content"
		}
	}
	return req, nil
}
