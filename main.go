package main

import (
	"os"

	"github.com/reviewbridge/reviewbridge/cmd"
	"github.com/reviewbridge/reviewbridge/logger"
)

func main() {
	defer logger.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
