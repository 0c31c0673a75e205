package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Transport struct {
	mode string
	addr string
}

func (x *Transport) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "transport",
			Usage:       "MCP transport: 'stdio' or 'http'",
			Category:    "Transport",
			Value:       TransportStdio,
			Destination: &x.mode,
			Sources:     cli.EnvVars("SLACK_MCP_TRANSPORT"),
		},
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address for the http transport",
			Category:    "Transport",
			Value:       "127.0.0.1:13080",
			Destination: &x.addr,
			Sources:     cli.EnvVars("SLACK_MCP_ADDR"),
		},
	}
}

// Validate checks the transport selection.
func (x *Transport) Validate() error {
	switch x.mode {
	case TransportStdio, TransportHTTP:
		return nil
	default:
		return goerr.Wrap(ErrInvalidTransport, "must be 'stdio' or 'http'", goerr.V("transport", x.mode))
	}
}

// Mode returns the selected transport.
func (x *Transport) Mode() string {
	return x.mode
}

// Addr returns the http listen address.
func (x *Transport) Addr() string {
	return x.addr
}

func (x Transport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", x.mode),
		slog.String("addr", x.addr),
	)
}
