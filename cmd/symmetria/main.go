package main

import (
	"errors"
	"os"

	"github.com/irsearch/symmetria/cmd/symmetria/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, cmd.ErrMalformedInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
