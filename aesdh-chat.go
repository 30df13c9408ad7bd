package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx := &bootContext{}
	app := &cli.App{
		Name:    app_name,
		Usage:   "AES/ECB-CTR-GCM chat over a hand-rolled Diffie-Hellman key exchange",
		Version: versionString(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to aesdh-chat.ini", Destination: &ctx.configFile},
			&cli.StringFlag{Name: "listen", Usage: "address to bind when acting as the listening side", Destination: &ctx.listen},
			&cli.StringFlag{Name: "peer", Usage: "peer address to dial, e.g. tcp://host:port or kcp://host:port", Destination: &ctx.peer},
			&cli.StringFlag{Name: "mode", Value: "CTR", Usage: "cipher mode: ECB, CTR, or GCM", Destination: &ctx.mode},
			&cli.IntFlag{Name: "keysize", Value: 128, Usage: "AES key size in bits: 128, 192, or 256", Destination: &ctx.keySize},
			&cli.IntFlag{Name: "v", Value: 1, Usage: "log verbosity", Destination: &ctx.verbosity},
		},
		Before: ctx.initialize,
		Action: ctx.startCommandHandler,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
