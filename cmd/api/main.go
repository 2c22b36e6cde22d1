package main

import (
	"context"
	"log"

	"ldap-seeder/cmd/api/app"
	"ldap-seeder/cmd/api/server"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}
