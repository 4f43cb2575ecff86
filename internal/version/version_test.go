package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	prev := Version
	t.Cleanup(func() { Version = prev })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", Get())

	Version = ""
	assert.NotEmpty(t, Get())
}
