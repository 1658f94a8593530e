package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/pipedeck/cmd/pipedeck/cmds"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := cmds.NewRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
