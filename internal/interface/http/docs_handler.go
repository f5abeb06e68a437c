package http

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PPT Generator API</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
window.onload = function () {
  SwaggerUIBundle({ url: "/api/openapi.json", dom_id: "#swagger-ui" });
};
</script>
</body>
</html>
`

func openAPIJSON() ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// OpenAPI serves the API description as JSON.
func (h *Handler) OpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, jsonContentType, h.openAPI)
}

// Docs serves the Swagger UI page.
func (h *Handler) Docs(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, []byte(swaggerUIPage))
}
