package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"netcode/internal/config"
	"netcode/internal/frontend"
	"netcode/internal/gameclient"
	"netcode/internal/logging"
)

var errBadArgs = errors.New("bad arguments")

var (
	configPath string
	debug      bool
	noPredict  bool
)

var rootCmd = &cobra.Command{
	Use:   "netcode-client <host> <port>",
	Short: "Connect to a netcode server",
	Long: `netcode-client joins a running netcode server, predicts local
movement, and smooths remote players with entity interpolation.

Input is line-oriented: type letters and press Enter to set the
buttons held for the next frames (w/a/s/d/r/f to move, q to quit,
1 to toggle the debug overlay, 2 to toggle prediction).

Examples:
  netcode-client localhost 7777
  netcode-client 10.0.0.4 7777 --debug`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("%w: expected exactly two arguments <host> <port>, got %d", errBadArgs, len(args))
		}
		return nil
	},
	SilenceUsage: true,
	RunE:         runClient,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML file overriding default tuning constants")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug-level logging and the raw-snapshot overlay")
	rootCmd.Flags().BoolVar(&noPredict, "no-predict", false, "start with client-side prediction and interpolation disabled")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errBadArgs, err)
	})
}

func runClient(cmd *cobra.Command, args []string) error {
	logging.SetDebug(debug)

	cfg, err := config.LoadFile(config.Default(), configPath)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(args[0], args[1])

	input := frontend.NewStdinInput(os.Stdin)
	presenter := frontend.NewTextPresenter(os.Stdout, 200*time.Millisecond)

	c := gameclient.New(cfg, input, presenter)
	if noPredict {
		c.SetPredictAndInterpolate(false)
	}
	if debug {
		c.SetDebug(true)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logging.Info("stopping client", nil)
		c.Stop()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Connect(ctx, addr); err != nil {
		return err
	}
	logging.Info("joining game", nil)
	if err := c.WaitUntilReady(ctx); err != nil {
		return fmt.Errorf("join never completed: %w", err)
	}

	c.Run()
	return nil
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
