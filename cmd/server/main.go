package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/shipmarket/internal/buildinfo"
	"github.com/dmitrijs2005/shipmarket/internal/server"
	"github.com/dmitrijs2005/shipmarket/internal/server/config"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("maxprocs: %v", err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
