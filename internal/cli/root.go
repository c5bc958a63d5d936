// Package cli implements panelctl, a terminal driver for the panel widgets.
package cli

import (
	"github.com/spf13/cobra"

	"panelkit/internal/client"
	"panelkit/internal/config"
	"panelkit/internal/panelutil"
)

type globalOptions struct {
	logLevel string
	baseURL  string
	cookie   string
	cfg      config.Cfg
}

// NewRootCmd creates the root command with the list, patch and notifications
// subcommands.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "panelctl",
		Short:         "Drive panel list, field and notification endpoints from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			if !cmd.Flags().Changed("log-level") && cfg.App.LogLevel != "" {
				opts.logLevel = cfg.App.LogLevel
			}
			if opts.baseURL == "" {
				opts.baseURL = cfg.App.BaseURL
			}
			config.InitLogger(opts.logLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base", "", "server base URL for relative endpoints (default APP_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.cookie, "cookie", "", `Cookie header to send, e.g. "sessionid=...; csrftoken=..."`)

	cmd.AddCommand(newListCmd(opts), newPatchCmd(opts), newNotificationsCmd(opts))
	return cmd
}

func (o *globalOptions) httpClient() *client.HTTPClient {
	c := client.NewHTTPClient(o.cfg.Client.UserAgent, o.cfg.Client.TimeoutSec)
	c.SetBaseURL(o.baseURL)
	if o.cookie != "" {
		c.SetHeader("Cookie", o.cookie)
	}
	return c
}

func (o *globalOptions) csrf() client.TokenSource {
	name := o.cfg.Sec.CSRFCookieName
	if name == "" {
		name = panelutil.CSRFCookieName
	}
	return func() string {
		v, _ := panelutil.Cookie(o.cookie, name)
		return v
	}
}

func (o *globalOptions) csrfHeader() string {
	if o.cfg.Sec.CSRFHeaderName != "" {
		return o.cfg.Sec.CSRFHeaderName
	}
	return client.DefaultCSRFHeader
}
