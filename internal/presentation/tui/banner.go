package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the startup banner.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	s1 := termenv.String("   ___ ___ ____ _ __ ___   ___  ").Foreground(p.Color("#60a5fa"))
	s2 := termenv.String("  / __/ _ \\_  /| '_ ` _ \\ / _ \\ ").Foreground(p.Color("#818cf8"))
	s3 := termenv.String(" | (_| (_) / / | | | | | | (_) |").Foreground(p.Color("#a78bfa"))
	s4 := termenv.String("  \\___\\___/___||_| |_| |_|\\___/ ").Foreground(p.Color("#c084fc"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Printf("  cozmo-cli %s. Type help() for commands.\n\n", version)
}
