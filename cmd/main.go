package main

import (
	"os"

	"github.com/ZurcLeo/melzao-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
