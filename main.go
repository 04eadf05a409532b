// Package main provides the entry point for agbsim.
// Agbsim is a handheld console CPU and bus emulator.
//
// For the full CLI, use: go run ./cmd/agbsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("agbsim - handheld console CPU and bus emulator")
	fmt.Println("")
	fmt.Println("Usage: agbsim [options] <image.gba>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -frames      Number of display frames to run")
	fmt.Println("  -waitstates  Path to wait-state configuration JSON file")
	fmt.Println("  -bios        Path to a BIOS image")
	fmt.Println("  -trace       Log exception entries and undefined encodings")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/agbsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/agbsim' instead.")
	}
}
