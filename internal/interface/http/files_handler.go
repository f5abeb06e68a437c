package http

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/slidegen/pkg/util"
)

const (
	htmlContentType   = "text/html; charset=utf-8"
	binaryContentType = "application/octet-stream"
	indexDocument     = "index.html"
)

const outputNotFoundPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>404 Not Found</title></head>
<body><h1>404 Not Found</h1><p>The requested presentation does not exist.</p></body></html>
`

const landingPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>PPT Generator</title>
<style>
body{font-family:system-ui,-apple-system,sans-serif;max-width:720px;margin:48px auto;padding:0 16px;color:#1f2937}
code{background:#f3f4f6;padding:2px 6px;border-radius:4px}
li{margin:6px 0}
</style>
</head>
<body>
<h1>PPT Generator</h1>
<p>The page you requested was not found. The web front end has not been built, or the path does not exist.</p>
<h2>API</h2>
<ul>
<li><code>GET /api/health</code> service status</li>
<li><code>GET /api/templates</code> visual templates</li>
<li><code>GET /api/presentation-types</code> presentation types</li>
<li><code>GET /api/audiences</code> audiences</li>
<li><code>POST /api/generate</code> generate a deck from <code>{"topic": "..."}</code></li>
<li><code>GET /output/&lt;filename&gt;</code> generated decks</li>
<li><code>GET /api/docs</code> interactive API documentation</li>
</ul>
</body>
</html>
`

// ServeOutput streams a generated deck. Only the last path segment is honoured.
func (h *Handler) ServeOutput(c *gin.Context) {
	name := path.Base(c.Param("filepath"))
	if name == "." || name == ".." || name == "/" {
		c.Data(http.StatusNotFound, htmlContentType, []byte(outputNotFoundPage))
		return
	}
	served, err := h.serveFile(c, filepath.Join(h.outputDir, name), htmlContentType)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "file_error", "failed to read output file", err))
		return
	}
	if !served {
		c.Data(http.StatusNotFound, htmlContentType, []byte(outputNotFoundPage))
	}
}

// ServeStatic serves the front-end bundle and answers every unmatched request.
func (h *Handler) ServeStatic(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodHead {
		c.Data(http.StatusNotFound, htmlContentType, []byte(landingPage))
		return
	}
	clean := path.Clean("/" + c.Request.URL.Path)
	if clean == "/" {
		clean = "/" + indexDocument
	}
	served, err := h.serveFile(c, filepath.Join(h.staticDir, filepath.FromSlash(clean)), binaryContentType)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "file_error", "failed to read static file", err))
		return
	}
	if !served {
		c.Data(http.StatusNotFound, htmlContentType, []byte(landingPage))
	}
}

// serveFile reports false without writing when full is missing or not a regular file.
func (h *Handler) serveFile(c *gin.Context, full, fallbackType string) (bool, error) {
	file, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	c.Header("Content-Type", util.ContentTypeFor(full, fallbackType))
	http.ServeContent(c.Writer, c.Request, filepath.Base(full), info.ModTime(), file)
	return true, nil
}
