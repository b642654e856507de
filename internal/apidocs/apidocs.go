// Package apidocs describes the JSON API as an OpenAPI 3 document and serves
// an interactive Swagger UI page for it.
package apidocs

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Spec builds and validates the OpenAPI document for POST /generate.
func Spec(ctx context.Context, version string) (*openapi3.T, error) {
	modelProp := openapi3.NewStringSchema()
	modelProp.Description = "Gemini model identifier"
	promptProp := openapi3.NewStringSchema()
	promptProp.Description = "Text prompt for Gemini"

	request := openapi3.NewObjectSchema().
		WithProperty("model", modelProp).
		WithProperty("prompt", promptProp).
		WithRequired([]string{"model", "prompt"})

	success := openapi3.NewObjectSchema().WithProperty("response", openapi3.NewStringSchema())
	failure := openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema())

	op := openapi3.NewOperation()
	op.Tags = []string{"Gemini API"}
	op.Summary = "Generate content using Gemini model"
	op.OperationID = "generate"
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(request),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("The generated response from Gemini").
				WithJSONSchema(success),
		}),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Malformed body or missing field").
				WithJSONSchema(failure),
		}),
		openapi3.WithStatus(http.StatusInternalServerError, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("The generation service failed").
				WithJSONSchema(failure),
		}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Gemini Chat Dashboard API",
			Version: version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath("/generate", &openapi3.PathItem{Post: op})),
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidocs: invalid spec: %w", err)
	}
	return doc, nil
}

// SpecHandler serves doc as JSON. The document is encoded once.
func SpecHandler(doc *openapi3.T) (http.Handler, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("apidocs: encode spec: %w", err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	}), nil
}

var uiTemplate = template.Must(template.New("apidocs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
        window.ui = SwaggerUIBundle({ url: {{.}}, dom_id: "#swagger-ui" });
    </script>
</body>
</html>
`))

// UIHandler serves a Swagger UI page that loads the spec from specURL.
func UIHandler(specURL string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := uiTemplate.Execute(w, specURL); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
