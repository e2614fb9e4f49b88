package cmd

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/colors"
	"github.com/waveformhq/wavetray/internal/devserver"
	"github.com/waveformhq/wavetray/internal/domain"
)

var (
	devserverAddr  string
	devserverToken string
	devserverDemo  time.Duration
)

// devserverCmd represents the devserver command
var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local stand-in for the notification backend",
	Long: `Run a local in-memory notification backend.

Serves the REST endpoints and the websocket push feed on one address, so
the tray can be pointed at it with:

    WAVETRAY_API_ORIGIN=http://localhost:8787 \
    WAVETRAY_PUSH_ORIGIN=ws://localhost:8787 \
    WAVETRAY_INSECURE_SKIP_AUTH=true wavetray tray

With --demo, sample notifications are injected periodically.`,
	RunE: runDevserver,
}

func init() {
	devserverCmd.Flags().StringVar(&devserverAddr, "addr", "localhost:8787", "listen address")
	devserverCmd.Flags().StringVar(&devserverToken, "auth-token", "", "require this token (empty disables auth)")
	devserverCmd.Flags().DurationVar(&devserverDemo, "demo", 0, "inject a sample notification at this interval (0 disables)")
	rootCmd.AddCommand(devserverCmd)
}

var demoSamples = []domain.Notification{
	{Title: "Release approved", Message: "Your release passed review and is being delivered to stores.", Category: domain.CategoryReleaseUpdate, Priority: domain.PriorityHigh},
	{Title: "Payout sent", Message: "Your monthly royalties were paid out.", Category: domain.CategoryPaymentStatus, Priority: domain.PriorityNormal},
	{Title: "Support reply", Message: "An agent replied to your ticket.", Category: domain.CategoryTicketUpdate, Priority: domain.PriorityNormal},
	{Title: "Scheduled maintenance", Message: "Uploads pause tonight at 02:00 UTC.", Category: domain.CategorySystemAlert, Priority: domain.PriorityUrgent},
	{Title: "New feature", Message: "Pre-save links are now available for all releases.", Category: domain.CategoryAdminMessage, Priority: domain.PriorityLow},
}

func runDevserver(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []devserver.Option{}
	if devserverToken != "" {
		opts = append(opts, devserver.WithToken(devserverToken))
	}
	srv := devserver.New(opts...)
	go srv.Run(ctx)

	if devserverDemo > 0 {
		go runDemoGenerator(ctx, srv, devserverDemo)
	}

	httpSrv := &http.Server{
		Addr:              devserverAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	colors.Info("devserver listening on http://" + devserverAddr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runDemoGenerator(ctx context.Context, srv *devserver.Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			srv.Inject(demoSamples[rand.Intn(len(demoSamples))])
		}
	}
}
