package main

import (
	"os"

	"github.com/rebeliceyang/lazyfilter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
