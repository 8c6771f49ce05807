package main

import (
	"log/slog"

	"objreloc/internal/objreloc/cmd"
	"objreloc/internal/objreloc/log"
)

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("Application terminated due to unhandled panic")
	})

	cmd.Execute()
}
