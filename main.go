// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/lumenlang/lumen/cmd/lumen"

func main() {
	cmd.Execute()
}
