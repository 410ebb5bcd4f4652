package main

import (
	"os"

	"github.com/gmahli/fsaas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
