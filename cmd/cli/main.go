package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/minidrive/internal/client/cli"
	"github.com/dmitrijs2005/minidrive/internal/client/config"
	"github.com/dmitrijs2005/minidrive/internal/flagx"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer app.Close()

	return app.Run(ctx, flagx.StripArgs(os.Args[1:], config.FlagNames))
}
