package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/twin"
)

var (
	twinAddr          string
	twinProcessorAddr string
)

// twinCmd serves an in-memory stand-in for the catalog backend and the
// payment processor. Both listeners share one store, so an intent created
// through the backend address can be confirmed through the processor one.
// State resets on restart.
var twinCmd = &cobra.Command{
	Use:   "twin",
	Short: "Serve the development backend and processor",
	Long: `Serves an in-memory twin of the catalog backend and the Stripe-style
payment processor for local development.

Seeded accounts: demo/demo (500 loyalty points) and admin/admin.
A card number ending in 0002 is declined; anything else succeeds.
POST /twin/faults/orders {"enabled":true} makes order submission fail,
which exercises the payment-succeeded-order-failed path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		router := twin.NewHandler(twin.NewStore()).Router()

		backendSrv := &http.Server{
			Addr:              twinAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
		processorSrv := &http.Server{
			Addr:              twinProcessorAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 2)
		go func() {
			logger.Info("twin backend listening", zap.String("addr", twinAddr))
			errCh <- backendSrv.ListenAndServe()
		}()
		go func() {
			logger.Info("twin processor listening", zap.String("addr", twinProcessorAddr))
			errCh <- processorSrv.ListenAndServe()
		}()

		fmt.Printf("Twin backend on %s, processor on %s\n", twinAddr, twinProcessorAddr)
		fmt.Println("Accounts: demo/demo, admin/admin. Card ending 0002 declines.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = processorSrv.Shutdown(ctx)
			if err := backendSrv.Shutdown(ctx); err != nil {
				return err
			}
			fmt.Println("\nTwin stopped.")
		}
		return nil
	},
}

func init() {
	twinCmd.Flags().StringVar(&twinAddr, "addr", ":8900", "Backend listen address")
	twinCmd.Flags().StringVar(&twinProcessorAddr, "processor-addr", ":8901", "Processor listen address")
}
