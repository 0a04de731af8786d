package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm"
	"pkt.systems/rhinoterm/internal/appconfig"
	"pkt.systems/rhinoterm/internal/content"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var disableAuditTrails bool
	var noBanner bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio terminal over HTTP and SSH",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if disableAuditTrails {
				cfg.Logging.DisableAuditTrails = true
			}
			store, err := content.Open(cfg.Content.Path)
			if err != nil {
				return err
			}
			logMode := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_MODE")))
			if !noBanner && logMode != "json" && logMode != "structured" {
				writeServeBanner(cmd.OutOrStdout(), store.Current())
			}

			var opts []rhinoterm.ServerOption
			if strings.TrimSpace(cfg.HTTP.Addr) != "" {
				opts = append(opts, rhinoterm.WithHTTP())
			}
			if strings.TrimSpace(cfg.SSH.Addr) != "" {
				opts = append(opts, rhinoterm.WithSSH())
			}
			server, err := rhinoterm.New(rhinoterm.ConfigFromApp(cfg), rhinoterm.ServerDeps{Content: store}, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&disableAuditTrails, "disable-audit-trails", false, "disable audit trail logging for commands")
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "disable startup banner")
	return cmd
}

// writeServeBanner prints the catalog title art in the rhino green.
func writeServeBanner(w io.Writer, cat *content.Catalog) {
	if cat == nil || len(cat.Banner.Title) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("\x1b[38;2;13;188;121m")
	for _, line := range cat.Banner.Title {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\x1b[0m")
	_, _ = fmt.Fprint(w, b.String())
}
