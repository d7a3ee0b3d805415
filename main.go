package main

import (
	"os"

	"github.com/vintervu/vintervu/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
