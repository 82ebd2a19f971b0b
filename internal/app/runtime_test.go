package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/backoffice/internal/testing/guard"
)

func TestGuardEnablesTestMode(t *testing.T) {
	assert.Equal(t, guard.Env, testModeEnv)
	t.Cleanup(RefreshTestMode)
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
