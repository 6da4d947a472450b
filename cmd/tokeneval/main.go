package main

import (
	"github.com/tokenbench/tokeneval/internal/commands"
)

func main() {
	commands.Execute()
}
