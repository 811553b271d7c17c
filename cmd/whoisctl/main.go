// Command whoisctl runs one lookup, or parses a saved WHOIS response, and
// prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/cache"
	"github.com/vit0-9/whois_api/pkg/config"
	"github.com/vit0-9/whois_api/pkg/enrich"
	"github.com/vit0-9/whois_api/pkg/logger"
	"github.com/vit0-9/whois_api/pkg/lookup"
	"github.com/vit0-9/whois_api/pkg/service"
	"github.com/vit0-9/whois_api/pkg/whois"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "whoisctl",
		Usage:     "look up domains, IPs and AS numbers over RDAP and WHOIS",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			{
				Name:      "lookup",
				Usage:     "resolve a query through cache, RDAP and WHOIS",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "no-rdap", Usage: "skip RDAP and go straight to WHOIS"},
					&cli.IntFlag{Name: "follow", Value: -1, Usage: "override the WHOIS referral depth"},
					&cli.BoolFlag{Name: "no-cache", Usage: "do not read or write the configured cache"},
				},
				Action: runLookup,
			},
			{
				Name:      "parse",
				Usage:     "normalize a saved WHOIS response",
				ArgsUsage: "<file|->",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Required: true, Usage: "the name the response was fetched for"},
				},
				Action: runParse,
			},
		},
	}
}

func runLookup(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: whoisctl lookup <query>", 2)
	}
	_ = config.LoadDotEnv()
	cfg := config.Load()
	if c.Bool("no-rdap") {
		cfg.RDAPEnabled = false
	}
	if n := c.Int("follow"); n >= 0 {
		cfg.MaxWhoisFollow = n
		cfg.MaxIPWhoisFollow = n
	}

	zlog, err := logger.New(logger.Options{Level: c.String("log-level"), Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	var store cache.Store = cache.None{}
	if !c.Bool("no-cache") {
		if store, err = cache.New(cfg.CacheOptions(), zlog); err != nil {
			return err
		}
	}
	defer store.Close()

	geo := enrich.OpenGeoIP(cfg.MMDBCityPath, cfg.MMDBASNPath, zap.NewNop())
	defer geo.Close()

	ctx, cancel := context.WithTimeout(c.Context, cfg.LookupTimeout)
	defer cancel()

	res := service.New(cfg, store, geo, zlog).Lookup(ctx, c.Args().First())
	if err := writeJSON(c.App.Writer, res); err != nil {
		return err
	}
	if !res.Status {
		return cli.Exit("", 1)
	}
	return nil
}

func runParse(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: whoisctl parse --query <name> <file|->", 2)
	}

	var (
		raw []byte
		err error
	)
	if path := c.Args().First(); path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrap(err, "failed to read whois response")
	}

	rec, err := whois.ParseWhoisData(string(raw), c.String("query"))
	res := &lookup.Result{Status: err == nil, Source: lookup.SourceWhois, Result: rec}
	if err != nil {
		res.Error = err.Error()
	}
	if err := writeJSON(c.App.Writer, res); err != nil {
		return err
	}
	if !res.Status {
		return cli.Exit("", 1)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
