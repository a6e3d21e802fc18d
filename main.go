package main

import (
	"fmt"
	"os"

	"github.com/NikoAndroid/Splitties/cmd"
	"github.com/NikoAndroid/Splitties/internal/domain"
)

func main() {
	if err := cmd.InitCommands(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize commands: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		if domain.IsCancelled(err) {
			fmt.Fprintln(os.Stderr, "Release cancelled.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
