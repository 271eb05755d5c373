// SPDX-License-Identifier: MPL-2.0

//go:build !linux

package session

// processStartTime has no portable implementation off Linux; the session key
// falls back to the parent pid alone.
func processStartTime(int) string {
	return ""
}
