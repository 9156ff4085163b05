// Command isagen generates a typed Go instruction-encoding API from an
// x86-64 instruction-set document.
package main

import "github.com/keurnel/assembler/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
