// Package version models the backend's version and update status.
package version

import (
	"golang.org/x/mod/semver"
)

// DefaultBuildType is assumed when the backend does not report one.
const DefaultBuildType = "source"

// ReleaseInfo describes the latest published release.
type ReleaseInfo struct {
	Name        string `json:"name"`
	Body        string `json:"body"`
	PublishedAt string `json:"published_at"`
	HTMLURL     string `json:"html_url"`
}

// Info is the update-check payload.
type Info struct {
	CurrentVersion string       `json:"current_version"`
	LatestVersion  string       `json:"latest_version"`
	HasUpdate      bool         `json:"has_update"`
	BuildType      string       `json:"build_type"`
	ReleaseInfo    *ReleaseInfo `json:"release_info,omitempty"`
	// Cached is set when the value was served from the client cache.
	Cached  bool   `json:"cached"`
	Warning string `json:"warning,omitempty"`
}

// Normalize fills defaults the UI relies on.
func (i Info) Normalize() Info {
	if i.BuildType == "" {
		i.BuildType = DefaultBuildType
	}
	return i
}

// Update kinds returned by Info.UpdateKind.
const (
	UpdateNone  = ""
	UpdateMajor = "major"
	UpdateMinor = "minor"
	UpdatePatch = "patch"
	// UpdateOther is returned when an update is flagged but the versions are
	// not comparable as semver.
	UpdateOther = "update"
)

// UpdateKind classifies the pending update. It returns UpdateNone when no
// update is flagged.
func (i Info) UpdateKind() string {
	if !i.HasUpdate {
		return UpdateNone
	}

	current, okC := Canonical(i.CurrentVersion)
	latest, okL := Canonical(i.LatestVersion)
	if !okC || !okL || semver.Compare(current, latest) >= 0 {
		return UpdateOther
	}

	switch {
	case semver.Major(current) != semver.Major(latest):
		return UpdateMajor
	case semver.MajorMinor(current) != semver.MajorMinor(latest):
		return UpdateMinor
	default:
		return UpdatePatch
	}
}

// Canonical returns the semver form of v, accepting versions with or
// without the leading "v".
func Canonical(v string) (string, bool) {
	if semver.IsValid(v) {
		return semver.Canonical(v), true
	}

	withPrefix := "v" + v
	if semver.IsValid(withPrefix) {
		return semver.Canonical(withPrefix), true
	}

	return "", false
}
