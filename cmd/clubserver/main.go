package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roboclub/clubcms/submit"
)

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "clubserver",
		Short:         "Serve the robotics club website",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ./clubcms.yaml)")
	f.String("prefix", "example_site", "path to the content tree")
	f.Bool("git", false, "prefix is a git repo")
	f.String("branch", "master", "branch to serve in git mode")
	f.String("bind", "localhost:8080", "address or path to bind to")
	f.String("net", "tcp", `"tcp", "tcp4", "tcp6", "unix" or "unixpacket"`)
	f.Bool("debug", false, "set debug output")
	f.String("db", "clubcms.db", "sqlite database for submissions")
	f.String("html", "tidy", `page output: "tidy", "minify" or "raw"`)
	f.Bool("unsafe", false, "do not sanitize rendered content")

	for key, flag := range map[string]string{
		"content.dir":    "prefix",
		"content.git":    "git",
		"content.branch": "branch",
		"bind":           "bind",
		"net":            "net",
		"debug":          "debug",
		"db.dsn":         "db",
		"html.mode":      "html",
		"html.unsafe":    "unsafe",
	} {
		if err := v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(cfg config) error {
	DEBUG = cfg.Debug
	setupLogging(cfg.Debug)

	var svc *submit.Service
	if cfg.DSN != "" {
		var err error
		if svc, err = submit.Open(cfg.DSN); err != nil {
			return err
		}
		defer svc.Close()
		if cfg.SMTP.Host != "" {
			svc.SetNotifier(submit.NewMailer(cfg.SMTP))
		}
	} else {
		slog.Warn("No database configured, newsletter and contact forms are disabled")
	}

	ln, err := net.Listen(cfg.Net, cfg.Bind)
	if err != nil {
		return errors.Wrapf(err, "Cannot listen on %s %q", cfg.Net, cfg.Bind)
	}
	defer ln.Close()
	if strings.HasPrefix(cfg.Net, "unix") {
		if err := os.Chmod(cfg.Bind, 0666); err != nil {
			return errors.Wrapf(err, "Cannot chmod socket %q", cfg.Bind)
		}
	}

	slog.Info("Starting", "addr", cfg.Bind, "net", cfg.Net)
	slog.Debug("Content", "prefix", cfg.ContentDir, "git", cfg.Git, "branch", cfg.Branch, "html", cfg.HTMLMode)
	return http.Serve(ln, newServer(cfg, svc).handler())
}

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
