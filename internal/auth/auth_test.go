package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPassword(t *testing.T) {
	a, err := New("admin", "")
	require.NoError(t, err)
	assert.NoError(t, a.Check("admin", "admin"))
	assert.ErrorIs(t, a.Check("admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Check("root", "admin"), ErrInvalidCredentials)
}

func TestConfiguredHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	a, err := New("manager", hash)
	require.NoError(t, err)
	assert.NoError(t, a.Check("manager", "s3cret"))
	assert.Error(t, a.Check("manager", "admin"))

	_, err = New("manager", "plain-text")
	assert.Error(t, err)

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestOperatorContext(t *testing.T) {
	ctx := WithOperator(context.Background(), "admin")
	assert.Equal(t, "admin", Operator(ctx))
	assert.Equal(t, "", Operator(context.Background()))
}
