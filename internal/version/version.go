// Package version holds the build identity of zendesk-intray. Version and Commit are
// set with -ldflags "-X".
package version

import "runtime"

var (
	Version = "development"
	Commit  = "unknown"
)

// String is the version shown by the version command, with the commit appended when known.
func String() string {
	if Commit == "" || Commit == "unknown" {
		return Version
	}
	return Version + "+" + Commit
}

// UserAgent identifies API requests, e.g. "zendesk-intray/1.2.0+abc1234 (linux)".
func UserAgent() string {
	return "zendesk-intray/" + String() + " (" + runtime.GOOS + ")"
}
