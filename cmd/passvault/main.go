package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/passvault/internal/client/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.New(os.Args[1:]).ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("error: %v", err)
	}
}
