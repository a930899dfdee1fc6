package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresentError_MasksSecrets(t *testing.T) {
	err := errors.New("dial postgres://app:s3cret@db:5432/tokens: refused")
	assert.Equal(t, "open store: dial postgres://*:*@db:5432/tokens: refused", PresentError("open store", err))
	assert.Equal(t, "", PresentError("open store", nil))
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "")
	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	log = NewLogger(&buf, "debug")
	log.Debug().Str("component", "test").Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "component=test")
}
