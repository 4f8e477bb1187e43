// Compdb writes a compile_commands.json for a C/C++ source tree.
package main

import "github.com/albertocavalcante/compdb/cmd/compdb/internal/cli"

func main() {
	cli.Execute()
}
