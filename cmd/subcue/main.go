package main

import (
	"os"

	"github.com/communitysubs/subcue/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
