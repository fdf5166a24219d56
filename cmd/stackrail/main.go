package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibrathesheriff/stackrail/internal/client/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	streams := cli.Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
	root := cli.NewRootCommand(cli.DefaultFactory, streams)
	code := cli.Execute(ctx, root, os.Args[1:], os.Stderr)

	stop()
	os.Exit(code)
}
