package main

import (
	"flag"

	"Hearthvale/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	dbPath := flag.String("db", "hearthvale.db", "path to the availability SQLite file (empty disables persistence)")
	contentDir := flag.String("content", "", "optional directory of extra dialogue graph JSON files")
	flag.Parse()

	cfg := server.DefaultAppConfig()
	cfg.DBPath = *dbPath
	cfg.ContentDir = *contentDir

	server.StartApp(*addr, cfg)
}
