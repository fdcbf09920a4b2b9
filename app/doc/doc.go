// Package doc serves the OpenAPI document and a browsable reference for it.
package doc

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

type server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

var bearerScheme = map[string]interface{}{
	"type":         "http",
	"scheme":       "bearer",
	"bearerFormat": "PASETO",
	"description":  "Enter a v2.local PASETO token",
}

// Init mounts /swagger/doc.json and the /docs viewer; env picks the servers
// advertised in the document.
func Init(r *gin.Engine, env string) {
	r.GET("/swagger/doc.json", documentHandler(env))
	r.GET("/docs/*any", serveElements)
}

func documentHandler(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := render(env)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render API document"})
			return
		}
		c.Data(http.StatusOK, "application/json", doc)
	}
}

// render decorates the generated document with servers and the bearer scheme.
func render(env string) ([]byte, error) {
	raw, err := swag.ReadDoc()
	if err != nil {
		return nil, err
	}

	var spec map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}

	spec["servers"] = serversFor(env)

	components, _ := spec["components"].(map[string]interface{})
	if components == nil {
		components = map[string]interface{}{}
		spec["components"] = components
	}
	schemes, _ := components["securitySchemes"].(map[string]interface{})
	if schemes == nil {
		schemes = map[string]interface{}{}
		components["securitySchemes"] = schemes
	}
	schemes["BearerAuth"] = bearerScheme

	return json.Marshal(spec)
}

func serversFor(env string) []server {
	servers := []server{{URL: "http://localhost:8080/api/v1", Description: "Local"}}
	switch env {
	case "staging":
		servers = append(servers, server{URL: "https://staging.settle.dev/api/v1", Description: "Staging"})
	case "production":
		servers = append(servers,
			server{URL: "https://staging.settle.dev/api/v1", Description: "Staging"},
			server{URL: "https://api.settle.dev/api/v1", Description: "Production"},
		)
	}
	return servers
}

const elementsPage = `<!DOCTYPE html>
<html>
<head>
    <title>Settle API Reference</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
    <style>
        body { margin: 0; height: 100vh; }
        elements-api { height: 100%; }
    </style>
</head>
<body>
    <elements-api apiDescriptionUrl="/swagger/doc.json" router="hash" layout="sidebar"></elements-api>
</body>
</html>`

func serveElements(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(elementsPage))
}
