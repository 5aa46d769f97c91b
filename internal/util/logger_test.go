package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerNamesTheService(t *testing.T) {
	require.NoError(t, InitLogger("production"))
	defer SyncLogger()

	assert.NotNil(t, GetLogger())
	assert.Equal(t, serviceName, GetLogger().Name())
}

func TestInitLoggerDevelopment(t *testing.T) {
	require.NoError(t, InitLogger("development"))
	defer SyncLogger()

	assert.NotNil(t, GetLogger())
}
