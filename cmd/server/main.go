package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"netcode/internal/config"
	"netcode/internal/gameserver"
	"netcode/internal/logging"
	"netcode/internal/metrics"
)

var errBadArgs = errors.New("bad arguments")

var (
	configPath  string
	debug       bool
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "netcode-server <port>",
	Short: "Run the authoritative netcode server",
	Long: `netcode-server runs the authoritative world simulation and accepts
client connections on the given TCP port.

Examples:
  netcode-server 7777
  netcode-server 7777 --config server.yaml --debug`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: expected exactly one argument <port>, got %d", errBadArgs, len(args))
		}
		return nil
	},
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML file overriding default tuning constants")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (empty disables metrics)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errBadArgs, err)
	})
}

func runServer(cmd *cobra.Command, args []string) error {
	logging.SetDebug(debug)

	cfg, err := config.LoadFile(config.Default(), configPath)
	if err != nil {
		return err
	}

	srv := gameserver.New(cfg)

	if metricsAddr != "" {
		reg := srv.Metrics()
		go func() {
			if err := metrics.Serve(metricsAddr, reg); err != nil {
				logging.Error("metrics server stopped", err, nil)
			}
		}()
		logging.Info("metrics listening", map[string]any{"addr": metricsAddr})
	}

	port := args[0]
	go waitForStopSignal(srv)

	logging.Info("server starting", map[string]any{"port": port})
	return srv.Serve(":" + port)
}

// waitForStopSignal mirrors original_source/server.hpp's std::cin.get()
// exit gesture: any line on stdin stops the server cleanly.
func waitForStopSignal(srv *gameserver.Server) {
	bufio.NewReader(os.Stdin).ReadString('\n')
	logging.Info("stopping server", nil)
	srv.Stop()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errBadArgs) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
