// SPDX-License-Identifier: MPL-2.0

package session

import (
	"os"
	"strconv"
	"strings"
)

// processStartTime returns the kernel start time (clock ticks since boot) of
// pid, read from /proc/<pid>/stat. The comm field can contain spaces and
// parentheses, so fields are counted from after the closing paren: starttime
// is field 22 overall, the 20th after comm.
func processStartTime(pid int) string {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return ""
	}
	stat := string(data)
	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return ""
	}
	fields := strings.Fields(stat[end+1:])
	if len(fields) < 20 {
		return ""
	}
	return fields[19]
}
