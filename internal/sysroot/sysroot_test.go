package sysroot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	s := New("/srv/root")
	assert.Equal(t, filepath.Join("/srv/root", "boot", "loader.1"), s.Path("boot", "loader.1"))
	assert.Equal(t, "/srv/root", s.Path())
}

func TestNewDoesNotProbe(t *testing.T) {
	s := New(t.TempDir())
	assert.False(t, s.BootedDeployment)
}
