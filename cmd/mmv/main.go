package main

import (
	"os"

	"github.com/arthur-debert/mmv/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[0], os.Args[1:]))
}
