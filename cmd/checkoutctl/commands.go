package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"himalayanbjj/internal/catalog"
	"himalayanbjj/internal/checkout"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is up and Stripe is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			res, err := newClient(cmd).Ping(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:      %s\n", res.Status)
			fmt.Fprintf(out, "time:        %s\n", res.Timestamp.Format(time.RFC3339))
			fmt.Fprintf(out, "credential:  %s\n", yesNo(res.CredentialAvailable))
			fmt.Fprintf(out, "gateway:     %s\n", yesNo(res.GatewayInitialized))
			return nil
		},
	}
}

func intentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intent [program]",
		Short: "Create a payment intent, as the embedded card form would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := purchaseFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			return runCheckout(cmd, checkout.NewEmbedded(newClient(cmd)), p)
		},
	}
	purchaseFlags(cmd)
	return cmd
}

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session [program]",
		Short: "Create a hosted checkout session and print the redirect URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := purchaseFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			return runCheckout(cmd, checkout.NewHosted(newClient(cmd)), p)
		},
	}
	purchaseFlags(cmd)
	return cmd
}

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [program]",
		Short: "Run a simulated checkout that never contacts the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := purchaseFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			delay, _ := cmd.Flags().GetDuration("delay")
			sim := checkout.NewSimulated()
			sim.Delay = delay
			return runCheckout(cmd, sim, p)
		},
	}
	purchaseFlags(cmd)
	cmd.Flags().Duration("delay", checkout.DefaultSimulatedDelay, "Simulated processing time")
	return cmd
}

func purchaseFlags(cmd *cobra.Command) {
	cmd.Flags().Int64P("amount", "a", 0, "Amount in paise (default: catalog price)")
	cmd.Flags().StringP("name", "n", "", "Product name shown on the checkout page")
	cmd.Flags().StringP("description", "d", "", "Product description")
}

// purchaseFromFlags fills the purchase from the catalog. Unknown programs
// are allowed when an amount is given.
func purchaseFromFlags(cmd *cobra.Command, programID string) (checkout.Purchase, error) {
	amount, _ := cmd.Flags().GetInt64("amount")
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	p := checkout.Purchase{ProgramID: programID, Amount: amount, Name: name, Description: description}
	if program, ok := catalog.Lookup(programID); ok {
		p.ProgramID = program.ID
		if p.Amount == 0 {
			p.Amount = program.Price
		}
	}
	if p.Amount == 0 {
		return p, fmt.Errorf("unknown program %q, pass --amount", programID)
	}
	return p, nil
}

func runCheckout(cmd *cobra.Command, strategy checkout.Strategy, p checkout.Purchase) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	verbose, _ := cmd.Flags().GetBool("verbose")
	out := cmd.OutOrStdout()

	ctrl := checkout.NewController(strategy, newLogger(cmd.ErrOrStderr(), verbose),
		checkout.WithObserver(func(s checkout.Snapshot) {
			if verbose {
				fmt.Fprintf(out, "-> %s\n", s.State)
			}
		}),
	)
	defer ctrl.Close()

	err := ctrl.Purchase(ctx, p)
	snap := ctrl.Snapshot()
	if err != nil {
		if errors.Is(err, checkout.ErrClosed) {
			return err
		}
		return errors.New(snap.Error)
	}

	switch snap.State {
	case checkout.ShowingEmbeddedForm:
		fmt.Fprintf(out, "client secret: %s\n", snap.ClientSecret)
	case checkout.Redirecting:
		fmt.Fprintf(out, "redirect to: %s\n", snap.RedirectURL)
	case checkout.Succeeded:
		fmt.Fprintf(out, "session:  %s\n", snap.SessionID)
		fmt.Fprintf(out, "continue: %s\n", snap.SuccessURL)
	}
	return nil
}

func newClient(cmd *cobra.Command) *checkout.Client {
	server, _ := cmd.Flags().GetString("server")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return checkout.NewClient(server, timeout)
}

func newLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Sugar()
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
