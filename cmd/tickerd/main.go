package main

import (
	"os"

	_ "time/tzdata"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
