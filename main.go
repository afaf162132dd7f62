// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/mxrun/mx/cmd/mx"

func main() {
	cmd.Execute()
}
