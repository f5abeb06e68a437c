package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/slidegen/internal/domain/generation"
	"github.com/yanqian/slidegen/internal/domain/history"
	"github.com/yanqian/slidegen/pkg/util"
)

const maxRequestBody = 1 << 20

// Generate runs the generator for the wizard submission and reports the outcome in-band.
func (h *Handler) Generate(c *gin.Context) {
	req, ok := h.decodeGenerationRequest(c)
	if !ok {
		return
	}
	result, err := h.generationSvc.Generate(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	if result.Success {
		h.recordHistory(c, req, result)
	}
	c.JSON(http.StatusOK, result)
}

// ExportPPTX renders the submission as PPTX and streams it as an attachment.
func (h *Handler) ExportPPTX(c *gin.Context) {
	req, ok := h.decodeGenerationRequest(c)
	if !ok {
		return
	}
	result, err := h.generationSvc.Export(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}

	file, err := os.Open(result.Path)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "export_failed", "exported file unavailable", err))
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "export_failed", "exported file unavailable", err))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), util.PPTXContentType, file, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", result.Filename),
	})
}

// RenderTemplate renders an authored deck with a catalog template into the output directory.
func (h *Handler) RenderTemplate(c *gin.Context) {
	var req generation.RenderRequest
	if !h.decodeJSONBody(c, &req) {
		return
	}
	result, err := h.generationSvc.Render(c.Request.Context(), req)
	switch {
	case err != nil:
		c.JSON(http.StatusBadRequest, result)
	case result.Code == generation.CodeRenderDisabled:
		c.JSON(http.StatusServiceUnavailable, result)
	case !result.Success:
		c.JSON(http.StatusInternalServerError, result)
	default:
		c.JSON(http.StatusOK, result)
	}
}

// decodeGenerationRequest writes the error response itself and reports false when the handler must stop.
func (h *Handler) decodeGenerationRequest(c *gin.Context) (generation.Request, bool) {
	var req generation.Request
	return req, h.decodeJSONBody(c, &req)
}

// decodeJSONBody reads a bounded JSON body into dst. Preview mode and malformed bodies are answered in the
// GenerationResult shape.
func (h *Handler) decodeJSONBody(c *gin.Context, dst any) bool {
	if !h.generationEnabled {
		c.JSON(http.StatusServiceUnavailable, generation.Failure(generation.CodeGenerationDisabled,
			"generation is disabled in preview mode"))
		return false
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
	if err != nil {
		status := http.StatusInternalServerError
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, generation.Failure(generation.CodeInvalidJSON, err.Error()))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.logger.Warn("malformed request body", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, generation.Failure(generation.CodeInvalidJSON, err.Error()))
		return false
	}
	return true
}

func (h *Handler) recordHistory(c *gin.Context, req generation.Request, result generation.Result) {
	if h.historySvc == nil {
		return
	}
	userID := history.AnonymousUserID
	if claims, ok := getClaims(c); ok {
		userID = claims.UserID
	} else if h.authSvc != nil && h.authSvc.Enabled() {
		return
	}
	normalized, err := generation.Normalize(req)
	if err != nil {
		return
	}
	title := result.Title
	if title == "" {
		title = normalized.Topic
	}
	_, err = h.historySvc.Record(c.Request.Context(), history.Entry{
		UserID:           userID,
		Title:            title,
		TemplateID:       normalized.Template,
		PresentationType: normalized.Type,
		Audience:         normalized.Audience,
		Duration:         int(normalized.Duration),
		Tone:             normalized.Tone,
		Industry:         normalized.Industry,
		OutputFilename:   result.Filename,
		SlideCount:       result.SlideCount,
	})
	if err != nil {
		h.logger.Warn("record presentation history failed", "filename", result.Filename, "error", err)
	}
}
