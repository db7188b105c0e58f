package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_Normalize(t *testing.T) {
	assert.Equal(t, DefaultBuildType, Info{}.Normalize().BuildType)
	assert.Equal(t, "release", Info{BuildType: "release"}.Normalize().BuildType)
}

func TestInfo_UpdateKind(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"no update flagged", Info{CurrentVersion: "1.0.0", LatestVersion: "2.0.0"}, UpdateNone},
		{"major", Info{CurrentVersion: "1.9.3", LatestVersion: "v2.0.0", HasUpdate: true}, UpdateMajor},
		{"minor", Info{CurrentVersion: "v1.2.3", LatestVersion: "1.3.0", HasUpdate: true}, UpdateMinor},
		{"patch", Info{CurrentVersion: "1.2.3", LatestVersion: "1.2.4", HasUpdate: true}, UpdatePatch},
		{"not semver", Info{CurrentVersion: "dev", LatestVersion: "1.2.4", HasUpdate: true}, UpdateOther},
		{"flag disagrees", Info{CurrentVersion: "1.3.0", LatestVersion: "1.2.0", HasUpdate: true}, UpdateOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.UpdateKind())
		})
	}
}

func TestCanonical(t *testing.T) {
	got, ok := Canonical("1.2.3")
	assert.True(t, ok)
	assert.Equal(t, "v1.2.3", got)

	got, ok = Canonical("v1.2")
	assert.True(t, ok)
	assert.Equal(t, "v1.2.0", got)

	_, ok = Canonical("not-semver")
	assert.False(t, ok)
}
