// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"colloml/cmd/colloml/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
