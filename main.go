package main

import (
	"log/slog"

	"dealership/api"
)

func main() {
	args := ParseArgs()
	if err := args.Validate(); err != nil {
		panic(err)
	}
	server, err := api.NewServer(args.ServerConfig)
	if err != nil {
		panic(err)
	}
	defer server.Close()

	router := server.Router()
	slog.Info("Start listening", slog.String("addr", args.ServerURL))
	if err := router.Run(args.ServerURL); err != nil {
		panic(err)
	}
}
