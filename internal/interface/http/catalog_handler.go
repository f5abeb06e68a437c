package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/slidegen/internal/domain/catalog"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	healthMessage   = "PPT Generator API is running"
)

type catalogBodies struct {
	health    []byte
	templates []byte
	types     []byte
	audiences []byte
}

func encodeCatalogs() (catalogBodies, error) {
	var (
		out catalogBodies
		err error
	)
	if out.health, err = json.Marshal(gin.H{"status": "ok", "message": healthMessage}); err != nil {
		return catalogBodies{}, err
	}
	if out.templates, err = json.Marshal(gin.H{"templates": catalog.Templates()}); err != nil {
		return catalogBodies{}, err
	}
	if out.types, err = json.Marshal(gin.H{"types": catalog.PresentationTypes()}); err != nil {
		return catalogBodies{}, err
	}
	if out.audiences, err = json.Marshal(gin.H{"audiences": catalog.Audiences()}); err != nil {
		return catalogBodies{}, err
	}
	return out, nil
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.Data(http.StatusOK, jsonContentType, h.catalog.health)
}

// Templates lists the visual templates.
func (h *Handler) Templates(c *gin.Context) {
	c.Data(http.StatusOK, jsonContentType, h.catalog.templates)
}

// PresentationTypes lists the supported presentation types.
func (h *Handler) PresentationTypes(c *gin.Context) {
	c.Data(http.StatusOK, jsonContentType, h.catalog.types)
}

// Audiences lists the supported audiences.
func (h *Handler) Audiences(c *gin.Context) {
	c.Data(http.StatusOK, jsonContentType, h.catalog.audiences)
}
