package main

import (
	"os"

	"github.com/Vidhi35/Kisan-Mitra/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
