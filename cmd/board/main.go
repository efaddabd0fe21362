package main

import (
	"os"

	"github.com/wonny/marketboard/cmd/board/commands"
)

// main is the entry point for the board CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/board [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
