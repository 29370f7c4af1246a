package app

import (
	"log/slog"
	"mime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticTypesRegistered(t *testing.T) {
	for ext := range staticTypes {
		assert.NotEmpty(t, mime.TypeByExtension(ext), ext)
	}
	assert.Zero(t, registerStaticTypes(slog.New(slog.DiscardHandler)), "second pass adds nothing")
}
