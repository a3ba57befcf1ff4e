package main

import (
	"context"
	"os"
	"os/signal"

	"fjacquet/txcat/cmd/ledger"
	"fjacquet/txcat/cmd/report"
	"fjacquet/txcat/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(ledger.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.Cmd.ExecuteContext(ctx)
	stop()

	// PersistentPostRunE is skipped when a command fails.
	if root.AppContainer != nil {
		_ = root.AppContainer.Close()
	}
	if err != nil {
		root.Log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
