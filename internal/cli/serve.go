package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiftlink/internal/auth"
	"swiftlink/internal/config"
	intdb "swiftlink/internal/db"
	"swiftlink/internal/gateway"
	api "swiftlink/internal/http"
	"swiftlink/internal/http/handlers"
	"swiftlink/internal/metrics"
	"swiftlink/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "Create the schema before serving")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, conn, dialect, err := open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if m, _ := cmd.Flags().GetBool("migrate"); m || dialect == intdb.SQLite {
		if err := intdb.Migrate(ctx, conn, dialect); err != nil {
			return err
		}
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	notifier, closeNotifier := buildNotifier(env)
	defer closeNotifier()

	var gw gateway.Gateway = gateway.Simulated{}
	if env.StripeSecretKey != "" {
		gw = gateway.NewStripeGateway(env.StripeSecretKey)
	}

	r := api.NewRouter(handlers.Deps{
		DB:     conn,
		Tokens: auth.NewTokenIssuer(env.JWTSecret, env.TokenTTL),
		Notify: notify.Dispatcher{
			Notifier: notifier,
			Timeout:  5 * time.Second,
			OnError: func(msg notify.Message, err error) {
				metrics.NotificationFailures.WithLabelValues(msg.Event).Inc()
			},
		},
		Gateway:                  gw,
		Currency:                 env.PaymentCurrency,
		RequirePhoneVerification: env.RequirePhoneVerification,
	}, env.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("server listening on %s (db=%s)", env.AppAddr, dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("server stopped cleanly")
	return nil
}

// buildNotifier always logs and adds Kafka and RabbitMQ when configured. A
// broker that cannot be reached at startup is skipped with a warning.
func buildNotifier(env config.Env) (notify.Notifier, func()) {
	fan := notify.Fanout{notify.LogNotifier{}}
	var closers []func() error

	if env.KafkaBroker != "" {
		kp := notify.NewKafkaPublisher(env.KafkaBroker, env.KafkaTopic)
		fan = append(fan, kp)
		closers = append(closers, kp.Close)
	}
	if env.RabbitMQURL != "" {
		sms, err := notify.DialRabbitSMS(env.RabbitMQURL, env.SMSQueue)
		if err != nil {
			log.Printf("warning: sms queue disabled: %v", err)
		} else {
			fan = append(fan, sms)
			closers = append(closers, sms.Close)
		}
	}
	return fan, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("warning: notifier close: %v", err)
			}
		}
	}
}
