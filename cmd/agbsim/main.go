// Package main provides the entry point for agbsim.
// Agbsim is a handheld console CPU and bus emulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/agbsim/agbsim/emu"
	"github.com/agbsim/agbsim/gba"
	"github.com/agbsim/agbsim/loader"
	"github.com/agbsim/agbsim/timing/waitstate"
)

var (
	frames     = flag.Int("frames", 60, "Number of display frames to run")
	configPath = flag.String("waitstates", "", "Path to wait-state configuration JSON file")
	biosPath   = flag.String("bios", "", "Path to a BIOS image")
	trace      = flag.Bool("trace", false, "Log exception entries and undefined encodings")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: agbsim [options] <image.gba>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	imagePath := flag.Arg(0)

	cart, err := loader.Load(imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", imagePath)
		fmt.Printf("Title: %s\n", cart.Title)
		fmt.Printf("Game code: %s\n", cart.GameCode)
		fmt.Printf("Size: %d bytes\n", len(cart.Data))
	}

	os.Exit(run(cart))
}

func run(cart *loader.Cartridge) int {
	var cfg *waitstate.Config
	if *configPath != "" {
		var err error
		cfg, err = waitstate.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading wait-state config: %v\n", err)
			return 1
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid wait-state config: %v\n", err)
			return 1
		}
	} else {
		cfg = waitstate.DefaultConfig()
	}

	cpuOpts := []emu.Option{
		emu.WithCycleModel(waitstate.New(cfg)),
	}
	if *trace {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		cpuOpts = append(cpuOpts, emu.WithHook(emu.LogHook{Logger: logger}))
	}

	sysOpts := []gba.Option{gba.WithCPUOptions(cpuOpts...)}
	if *biosPath != "" {
		bios, err := os.ReadFile(*biosPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading BIOS: %v\n", err)
			return 1
		}
		sysOpts = append(sysOpts, gba.WithBIOS(bios))
	}

	system := gba.NewSystem(cart.Data, sysOpts...)

	for i := 0; i < *frames; i++ {
		if err := system.RunFrame(); err != nil {
			fmt.Fprintf(os.Stderr, "Error on frame %d: %v\n", i, err)
			return 1
		}
	}

	if *verbose {
		fmt.Printf("\nFrames run: %d\n", *frames)
		fmt.Printf("Instructions executed: %d\n", system.CPU.InstructionCount())
		fmt.Printf("Cycles: %d\n", system.CPU.CycleCount())
	}

	return 0
}
