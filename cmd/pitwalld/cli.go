package main

import (
	"flag"
	"fmt"
	"os"

	"pitwall/server/internal/config"
)

// Version is stamped at build time in release builds; left as a
// development placeholder otherwise.
var Version = "0.1.0-dev"

// RunCLI handles subcommand execution. Returns true if a subcommand was
// handled; false leaves main() to fall through to normal server startup.
func RunCLI(args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "version":
		fmt.Printf("pitwalld %s\n", Version)
		return true
	case "status":
		return cliStatus(args[1:])
	default:
		return false
	}
}

func cliStatus(args []string) bool {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "server_cfg.yml", "path to the server YAML configuration")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Server: %s\n", cfg.Server.Name)
	fmt.Printf("Track: %s (%s)\n", cfg.Track, cfg.TrackConfig)
	fmt.Printf("Cars configured: %d\n", len(cfg.Cars))
	fmt.Printf("Sessions: %d\n", len(cfg.Sessions))
	fmt.Printf("TCP port: %d  UDP port: %d  HTTP port: %d\n", cfg.Server.TCPPort, cfg.Server.UDPPort, cfg.Server.HTTPPort)
	fmt.Printf("Version: %s\n", Version)
	return true
}
