package main

import (
	"log/slog"
	"os"

	"qrhrm/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
