package main

import (
	"os"

	"github.com/waveformhq/wavetray/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
