package logtrace

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitLogger("warn", &buf))
	t.Cleanup(func() { zerolog.DefaultContextLogger = nil })

	log.Info().Msg("hidden")
	log.Ctx(context.Background()).Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	assert.Error(t, InitLogger("loud", &buf))
}

func TestRequestId(t *testing.T) {
	ctx := WithRequestId(context.Background(), "abc")
	assert.Equal(t, "abc", RequestIdFromContext(ctx))
	assert.Equal(t, "", RequestIdFromContext(context.Background()))
}
