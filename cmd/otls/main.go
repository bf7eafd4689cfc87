package main

import "github.com/OpenTraceLab/OpenTraceLS/cmd/otls/cmd"

func main() {
	cmd.Execute()
}
