package aquasim

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert := require.New(t)

	assert.NoError(Version.Validate())
	assert.Empty(Version.Pre, "released versions carry no pre-release tag")

	// Version must stay comparable for downstream compatibility checks.
	floor := semver.MustParse("0.1.0")
	assert.True(Version.GTE(floor))
}
