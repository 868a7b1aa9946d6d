package main

import (
	"os"

	"github.com/discipleshipbydesign/blueprint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
