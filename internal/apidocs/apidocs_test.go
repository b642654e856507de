package apidocs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec(t *testing.T) {
	doc, err := Spec(context.Background(), "1.0.0")
	require.NoError(t, err)

	item := doc.Paths.Value("/generate")
	require.NotNil(t, item)
	require.NotNil(t, item.Post)

	schema := item.Post.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.ElementsMatch(t, []string{"model", "prompt"}, schema.Required)
	assert.NotNil(t, item.Post.Responses.Status(http.StatusOK))
	assert.NotNil(t, item.Post.Responses.Status(http.StatusBadRequest))
	assert.NotNil(t, item.Post.Responses.Status(http.StatusInternalServerError))
}

func TestSpecHandler(t *testing.T) {
	doc, err := Spec(context.Background(), "1.0.0")
	require.NoError(t, err)
	h, err := SpecHandler(doc)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apispec.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/generate")
}

func TestUIHandler(t *testing.T) {
	w := httptest.NewRecorder()
	UIHandler("/apispec.json").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/apidocs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SwaggerUIBundle")
	assert.Contains(t, w.Body.String(), "apispec.json")
}
