package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/contactform/internal/admincli"
	"github.com/dmitrijs2005/contactform/internal/server"
	"github.com/dmitrijs2005/contactform/internal/server/config"
	"github.com/dmitrijs2005/contactform/internal/server/services"
)

func main() {

	global, cmd, rest := admincli.SplitArgs(os.Args[1:])

	// server flags precede the command; its own flags must not reach LoadConfig
	os.Args = append([]string{os.Args[0]}, global...)

	ctx := context.Background()

	if cmd == "" || cmd == "help" {
		admincli.NewApp(nil, os.Stdin, os.Stdout, int(os.Stdin.Fd())).Usage()
		return
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	store, err := server.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer store.Close()

	us := services.NewUserService(store.DB, store.Manager)
	app := admincli.NewApp(us, os.Stdin, os.Stdout, int(os.Stdin.Fd()))

	if err := app.Run(ctx, cmd, rest); err != nil {
		log.Printf("%v", err)
		store.Close()
		os.Exit(1)
	}

}
