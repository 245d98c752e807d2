package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/mitchellh/go-homedir"

	"room-planner/internal/cli"
	"room-planner/internal/editor"
	"room-planner/internal/storage"
)

// ============================================================
// Design CLI
// ============================================================

func main() {
	h, err := homedir.Dir()
	if err != nil {
		log.Fatalf("home dir: %v", err)
	}
	home := filepath.Join(h, ".room-planner")

	var (
		dbPath string
		user   string
	)
	fs := flag.NewFlagSet("designctl", flag.ExitOnError)
	fs.StringVar(&dbPath, "db", filepath.Join(home, "designs.db"), "SQLite database path")
	fs.StringVar(&user, "user", "local", "workspace owner")
	_ = fs.Parse(os.Args[1:])

	// Keep store warnings out of the prompt line.
	log.SetOutput(io.Discard)
	if os.Getenv("PLANNER_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	}

	db, err := storage.Open(storage.DriverSQLite, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ws, err := editor.NewWorkspaces(storage.NewKV(db)).Get(user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open workspace: %v\n", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(home, "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	c := cli.NewCLI(ws, rl.Stdout())
	for _, script := range fs.Args() {
		if err := c.ExecuteScript(script); err != nil {
			fmt.Fprintf(os.Stderr, "Error executing script %s: %v\n", script, err)
		}
	}

	fmt.Println("Room Planner. Use 'help' for the list of commands.")
	rl.SetPrompt(c.Prompt)
	for {
		err := c.Run(rl)
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Println("Use 'exit' or 'quit' to exit the program.")
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, cli.ErrExit) {
				break
			}
			fmt.Println("Error:", err)
		}
		rl.SetPrompt(c.Prompt)
	}
	fmt.Println("Goodbye!")
}
