package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("4.0.2")
	require.NoError(t, err)
	assert.Equal(t, 4, v.Major)
	assert.Equal(t, 0, v.Minor)
	assert.Equal(t, 2, v.Patch)

	v, err = Parse("v3.1.0-rc.2+build5")
	require.NoError(t, err)
	assert.Equal(t, "rc.2", v.Prerelease)
	assert.Equal(t, "build5", v.Build)

	_, err = Parse("not-a-version")
	assert.Error(t, err)

	_, err = Parse("4.0")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	v, err := Parse("4.1.0-rc.1+abc")
	require.NoError(t, err)
	assert.Equal(t, "4.1.0-rc.1+abc", v.String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"4.0.2", "4.0.2", 0},
		{"4.0.2", "4.0.1", 1},
		{"4.0.2", "4.1.0", -1},
		{"5.0.0", "4.9.9", 1},
		{"4.0.0", "4.0.0-rc.1", 1},
		{"4.0.0-rc.1", "4.0.0", -1},
		{"4.0.0-rc.2", "4.0.0-rc.1", 1},
		{"4.0.0-rc.1", "4.0.0-rc.10", -1},
	}
	for _, tt := range tests {
		a, err := Parse(tt.a)
		require.NoError(t, err)
		b, err := Parse(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, a.Compare(b), "%s vs %s", tt.a, tt.b)
	}
}

func TestAtLeast(t *testing.T) {
	supported, err := Parse(DefaultSupportedVersion)
	require.NoError(t, err)

	newer, err := Parse("4.1.0")
	require.NoError(t, err)
	assert.True(t, newer.AtLeast(supported))

	older, err := Parse("4.0.1")
	require.NoError(t, err)
	assert.False(t, older.AtLeast(supported))

	equal, err := Parse("4.0.2")
	require.NoError(t, err)
	assert.True(t, equal.AtLeast(supported))
}
