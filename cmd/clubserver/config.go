package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/roboclub/clubcms/backend"
	"github.com/roboclub/clubcms/submit"
)

type option struct {
	Key     string
	Default any
	Comment string
}

var options = []option{
	{Key: "content.dir", Default: "example_site", Comment: "Path to the content tree or git repository"},
	{Key: "content.git", Default: false, Comment: "Serve the head of content.branch instead of the working tree"},
	{Key: "content.branch", Default: "master", Comment: "Branch served in git mode"},
	{Key: "bind", Default: "localhost:8080", Comment: "Address or socket path to bind to"},
	{Key: "net", Default: "tcp", Comment: `"tcp", "tcp4", "tcp6", "unix" or "unixpacket"`},
	{Key: "debug", Default: false, Comment: "Debug logging and stack traces"},
	{Key: "db.dsn", Default: "clubcms.db", Comment: "SQLite database for submissions; empty disables the API"},
	{Key: "html.mode", Default: "tidy", Comment: `Page post-processing: "tidy", "minify" or "raw"`},
	{Key: "html.unsafe", Default: false, Comment: "Skip sanitizing rendered content"},
	{Key: "site.title", Default: "Robotics Club", Comment: "Site title shown in every page"},
	{Key: "site.email", Default: "", Comment: "Contact address shown on the contact page"},
	{Key: "smtp.host", Default: "", Comment: "SMTP server for contact notifications; empty disables mail"},
	{Key: "smtp.port", Default: 587, Comment: "SMTP port"},
	{Key: "smtp.user", Default: "", Comment: "SMTP user"},
	{Key: "smtp.password", Default: "", Comment: "SMTP password"},
	{Key: "smtp.from", Default: "", Comment: "Sender of contact notifications"},
	{Key: "smtp.to", Default: "", Comment: "Recipient of contact notifications"},
}

var htmlModes = map[string]bool{"tidy": true, "minify": true, "raw": true}

type config struct {
	ContentDir   string
	Git          bool
	Branch       string
	Bind         string
	Net          string
	Debug        bool
	DSN          string
	HTMLMode     string
	Unsafe       bool
	SiteTitle    string
	ContactEmail string
	SMTP         submit.MailConfig
}

// loadConfig resolves configuration with precedence defaults < file < env
// < flags bound to v.
func loadConfig(v *viper.Viper) (config, error) {
	for _, o := range options {
		v.SetDefault(o.Key, o.Default)
	}

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("clubcms")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config{}, errors.Wrap(err, "Cannot read config")
		}
	}

	v.SetEnvPrefix("clubcms")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := config{
		ContentDir:   v.GetString("content.dir"),
		Git:          v.GetBool("content.git"),
		Branch:       v.GetString("content.branch"),
		Bind:         v.GetString("bind"),
		Net:          v.GetString("net"),
		Debug:        v.GetBool("debug"),
		DSN:          v.GetString("db.dsn"),
		HTMLMode:     strings.ToLower(v.GetString("html.mode")),
		Unsafe:       v.GetBool("html.unsafe"),
		SiteTitle:    v.GetString("site.title"),
		ContactEmail: v.GetString("site.email"),
		SMTP: submit.MailConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			User:     v.GetString("smtp.user"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
			To:       v.GetString("smtp.to"),
		},
	}
	if !htmlModes[c.HTMLMode] {
		return c, errors.Errorf("Unknown html.mode: %q", c.HTMLMode)
	}
	if c.SMTP.Host != "" && c.SMTP.To == "" {
		c.SMTP.To = c.ContactEmail
	}
	return c, nil
}

func (c config) backend() (backend.Backend, error) {
	if c.Git {
		return backend.Git(c.ContentDir, c.Branch)
	}
	return backend.Dir(c.ContentDir)
}
