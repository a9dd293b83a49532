package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/store"
)

func cmdServe(ctx context.Context, o *IO, s *store.Store, cfg config.Config, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td serve [options]")
		o.Println("")
		o.Println("Run the local HTTP API until interrupted. The listen address")
		o.Println("must be loopback; the API has no authentication.")
		o.Println("")
		o.Println("Options:")
		o.Println("  --listen <addr>    Listen address [default: from config]")

		return nil
	}

	flagSet := flag.NewFlagSet("serve", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	listen := flagSet.String("listen", cfg.ListenAddr, "Listen address")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	err = requireLoopback(*listen)
	if err != nil {
		return err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	return api.NewServer(s, log).Serve(ctx, *listen)
}

func requireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}

	if host == "localhost" {
		return nil
	}

	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("refusing to listen on non-loopback address %q", addr)
	}

	return nil
}
