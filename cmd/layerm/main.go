package main

import (
	"context"
	"os"

	app "github.com/lwmacct/251207-go-pkg-layerm/internal/command/layerm"
	"github.com/lwmacct/251219-go-pkg-logm/pkg/logm"
)

func main() {
	_ = logm.Init(logm.PresetAuto()...)
	if err := app.Command.Run(context.Background(), os.Args); err != nil {
		app.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
