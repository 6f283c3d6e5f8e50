// Command trackpace builds speed profiles for closed tracks and races the
// path follower around them.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/trackpace/internal/config"
	"github.com/banshee-data/trackpace/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printHelp(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "profile":
		err = runProfile(args, os.Stdout)
	case "sim":
		err = runSim(args, os.Stdout)
	case "runs":
		err = runRuns(args, os.Stdout)
	case "version":
		fmt.Println(version.String())
	case "help", "-h", "--help":
		printHelp(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printHelp(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `Usage: trackpace <command> [flags]

Commands:
  profile   build a path from a track and print its speed profile
  sim       race the path follower around a track
  runs      list recorded runs for a track
  version   print build information

Run 'trackpace <command> -h' for command flags.
`)
}

// loadConfig returns the tuning file at path, or the built-in defaults when
// path is empty.
func loadConfig(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.DefaultTuningConfig(), nil
	}
	return config.LoadTuningConfig(path)
}
