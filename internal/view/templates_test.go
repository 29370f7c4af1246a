package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderStatusWritesPage(t *testing.T) {
	engine, err := NewEngine()
	if !assert.NoError(t, err) {
		return
	}
	rec := httptest.NewRecorder()
	err = engine.RenderStatus(rec, http.StatusNotFound, "pages/error.html", TemplateData{Title: "Not Found", Data: "The page you are looking for does not exist."})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "does not exist")
}

func TestRenderUnknownTemplateFailsCleanly(t *testing.T) {
	engine, err := NewEngine()
	if !assert.NoError(t, err) {
		return
	}
	rec := httptest.NewRecorder()
	assert.Error(t, engine.RenderStatus(rec, http.StatusOK, "pages/missing.html", TemplateData{}))
	assert.Empty(t, rec.Body.String())
}

func TestIsActivePrefix(t *testing.T) {
	assert.True(t, isActivePrefix("/doctors/12", "/doctors"))
	assert.False(t, isActivePrefix("/doctorsx", "/doctors"))
}
