// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

const buildInfoUnknown = "N/A"

// BuildInfo is the build-time metadata injected with linker flags.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewBuildInfo fills empty values with "N/A".
func NewBuildInfo(version, date, commit string) BuildInfo {
	return BuildInfo{
		Version: orUnknown(version),
		Date:    orUnknown(date),
		Commit:  orUnknown(commit),
	}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", b.Version, b.Date, b.Commit)
}

func orUnknown(v string) string {
	if v == "" {
		return buildInfoUnknown
	}
	return v
}
