package main

import "github.com/sergiobayona/lexi-orchestrator/internal/cmd"

func main() {
	cmd.Execute()
}
