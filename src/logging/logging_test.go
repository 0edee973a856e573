package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/biznex/bizconsole/src/oops"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPrettyWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(NewPrettyZerologWriter(&buf))

	logger.Info().Str("username", "alice").Err(oops.New(errors.New("boom"), "login failed")).Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "login failed: boom")
	assert.Contains(t, out, `username: "alice"`)
}

func TestPrettyWriterPassesThroughNonJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrettyZerologWriter(&buf)

	n, err := w.Write([]byte("not json\n"))
	assert.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "not json\n", buf.String())
}

func TestExtractLogger(t *testing.T) {
	t.Run("falls back to global", func(t *testing.T) {
		assert.Same(t, GlobalLogger(), ExtractLogger(context.Background()))
	})
	t.Run("attached", func(t *testing.T) {
		logger := zerolog.Nop()
		ctx := AttachLoggerToContext(&logger, context.Background())
		assert.Same(t, &logger, ExtractLogger(ctx))
	})
}
