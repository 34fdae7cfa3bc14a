package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neutronic/internal/games/neutronic"
	"github.com/vovakirdan/neutronic/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the neutronic SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the level menu.
Results and recordings are stored per-server (all users share them).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.neutronic/host_key

Examples:
  neutronic serve                           # Listen on the configured address (:23234)
  neutronic serve --ssh :2222               # Listen on port 2222
  neutronic serve --host-key ./my_host_key  # Use specific host key
  neutronic serve --db ./neutronic.db       # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (default from config)")
}

func runServe(_ *cobra.Command, _ []string) {
	a, err := newApp(true)
	exitOnError("loading", err)
	defer a.Close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = a.cfg.SSH.Address
	cfg.HostKeyPath = a.cfg.SSH.HostKeyPath
	cfg.IdleTimeout = a.cfg.IdleTimeout()
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	cfg.Session = tui.SessionConfig{
		GameID:  neutronic.GameID,
		Levels:  a.levels,
		Store:   a.store,
		Runtime: a.runtime(),
	}

	server, err := tui.NewSSHServer(cfg, newLogger("neutronic-ssh"))
	if err != nil {
		a.Close()
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting neutronic SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		a.Close()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
