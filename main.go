// SPDX-License-Identifier: MPL-2.0

package main

import cmd "shellac-cli/cmd/shellac"

func main() {
	cmd.Execute()
}
