package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })

	Version, GitCommit, BuildTime = "1.2.3", "abc123", "2026-01-01"
	assert.Equal(t, "1.2.3 (commit abc123, built 2026-01-01)", String())
}

