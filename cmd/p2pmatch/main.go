package main

import (
	"os"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/cmd/p2pmatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
