// Command sheetengine wires an engine, an optional PostgreSQL-backed
// workbook store, and the live WebSocket server together. It is
// intentionally not a general CLI (spec.md's non-goals exclude a
// command-line surface): there is exactly one thing to run.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"sheetengine/engine"
	"sheetengine/funcs"
	"sheetengine/notify"
	"sheetengine/workbook"
	"sheetengine/workbook/pgstore"
	"sheetengine/wsserver"
)

func main() {
	ctx := context.Background()

	eng := engine.New(funcs.NewRegistry(), "Sheet1")

	if dsn := os.Getenv("SHEETENGINE_DATABASE_URL"); dsn != "" {
		store, err := pgstore.Open(ctx, dsn)
		if err != nil {
			log.Fatalf("sheetengine: open store: %v", err)
		}
		defer store.Close()

		snapshot, err := store.Load(ctx)
		if err != nil {
			log.Fatalf("sheetengine: load workbook: %v", err)
		}
		if err := workbook.ApplyTo(eng, snapshot); err != nil {
			log.Fatalf("sheetengine: apply workbook: %v", err)
		}
	}

	srv := wsserver.New(eng)

	if notifyAddr := os.Getenv("SHEETENGINE_NOTIFY_ADDR"); notifyAddr != "" {
		pub, err := notify.NewPublisher(ctx, notifyAddr)
		if err != nil {
			log.Fatalf("sheetengine: open notify publisher: %v", err)
		}
		defer pub.Close()
		srv.Notifier = pub
	}

	http.HandleFunc("/ws", srv.HandleWebSocket)

	addr := os.Getenv("SHEETENGINE_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("sheetengine: listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("sheetengine: serve: %v", err)
	}
}
