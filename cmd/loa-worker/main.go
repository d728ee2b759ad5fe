// Command loa-worker processes inbound communications into case
// state: it classifies messages, extracts entities, matches cases,
// and executes the decided actions with a full audit trail.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/fieldgate/loa-worker/internal/config"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "process":
		err = runProcess(cfg, args)
	case "cases":
		err = runCases(cfg, args)
	case "audit":
		err = runAudit(cfg, args)
	case "classify":
		err = runClassify(cfg, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: loa-worker <command> [flags]

commands:
  process   process a message batch from a dataset or drop folder
  cases     list persisted cases
  audit     inspect the audit trail
  classify  classify a single ad hoc message`)
}
