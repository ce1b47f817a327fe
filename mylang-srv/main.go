package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"
)

var (
	dbName     = flag.String("dbName", "mylang.db", "run log db name, next to the executable unless absolute.")
	addr       = flag.String("addr", "localhost:8080", "TCP address to listen to")
	expire     = flag.Duration("expire", 5*time.Minute, "how long a logged run is kept after its last access")
	cleanEvery = flag.Duration("cleanEvery", 5*time.Minute, "how often expired runs are removed")
)

func main() {
	// Parse command-line flags.
	flag.Parse()
	dbPath := *dbName
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(filepath.Dir(os.Args[0]), dbPath)
	}
	if err := OpenDb(dbPath); err != nil {
		log.Fatalf("open %s: %v", dbPath, err)
	}
	expiredDuration = *expire
	if err := StartExpiredCleanSchedule(*cleanEvery); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	go func() {
		if err := Serve(*addr); err != nil {
			log.Fatalf("error in ListenAndServe: %v", err)
		}
	}()

	// Make a signal channel. Register SIGINT.
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)

	// Wait for the signal.
	<-sigch

	fmt.Println("Interrupted. Exiting.")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdown(ctx)
}
