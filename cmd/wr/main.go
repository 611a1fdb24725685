package main

import (
	"os"

	"github.com/bnema/wallet-resources/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
