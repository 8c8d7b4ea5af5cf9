/*
Lrkc builds an LR(k) parser from a TOML grammar file and drives it
interactively, one line of whitespace-separated tokens at a time.

It reads in a grammar description and starts a readline-backed REPL,
printing the semantic value each accepted line produces or a parse error
naming the offending input, until EOF or the "QUIT" command is entered.

Usage:

	lrkc [flags]

The flags are:

	-g, --grammar FILE
		The TOML grammar file to build a parser from. Defaults to
		"grammar.toml" in the current working directory.

	-c, --cache FILE
		SQLite build-cache file to memoize table construction in. Defaults
		to "lrkc.cache.db" in the current working directory.

	-t, --table
		Print the constructed action/goto table and exit without starting
		the REPL.

	-d, --direct
		Force reading directly from stdin instead of going through
		readline.

	--http ADDR
		Serve a debug HTTP inspector of the built table at ADDR (e.g.
		":8080") instead of starting the REPL.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/lrk/cache"
	"github.com/dekarrin/lrk/cmd/lrkc/httpviz"
	"github.com/dekarrin/lrk/lrtable"
	"github.com/dekarrin/lrk/matcher"
	"github.com/dekarrin/lrk/parse"
)

const (
	ExitSuccess = iota
	ExitBuildError
	ExitRuntimeError
)

var (
	returnCode  int     = ExitSuccess
	grammarFile *string = pflag.StringP("grammar", "g", "grammar.toml", "The TOML grammar file to build a parser from")
	cacheFile   *string = pflag.StringP("cache", "c", "lrkc.cache.db", "SQLite build-cache file")
	showTable   *bool   = pflag.BoolP("table", "t", false, "Print the constructed table and exit")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of readline")
	httpAddr    *string = pflag.String("http", "", "Serve a debug HTTP table inspector at this address instead of the REPL")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	cfg, err := loadGrammarConfig(*grammarFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBuildError
		return
	}

	g, err := cfg.toGrammar()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBuildError
		return
	}

	c, err := cache.Open(*cacheFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitBuildError
		return
	}
	defer c.Close()

	table, buildID, err := c.BuildOrLoad(context.Background(), g, cfg.K, lrtable.Options{KeepStatesOnError: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: building table: %s\n", err.Error())
		returnCode = ExitBuildError
		return
	}
	fmt.Fprintf(os.Stderr, "build %s ready: %d states\n", buildID, len(table.DFA.States()))

	if *showTable {
		fmt.Println(table.String())
		return
	}

	bound := matcher.Bind(table, matcher.Default())

	if *httpAddr != "" {
		if err := httpviz.Serve(*httpAddr, table); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitRuntimeError
		}
		return
	}

	if err := runREPL(bound, *forceDirect); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRuntimeError
	}
}

// runREPL drives a line-oriented loop: each line is split on whitespace
// into string tokens, parsed with the default extract function, and the
// resulting semantic value or error is printed. "QUIT" (case-insensitive,
// the sole command the REPL recognizes) ends the session. Grounded on
// tunaq's cmd/tqi main loop (read a command, run it, repeat until quit).
func runREPL(bound *matcher.Table, direct bool) error {
	driver := parse.New(bound)

	var rl *readline.Instance
	if !direct {
		var err error
		rl, err = readline.NewEx(&readline.Config{Prompt: "lrkc> "})
		if err != nil {
			return fmt.Errorf("create readline session: %w", err)
		}
		defer rl.Close()
	}

	stdin := bufio.NewScanner(os.Stdin)
	for {
		var line string
		var err error
		if rl != nil {
			line, err = rl.Readline()
		} else {
			fmt.Print("lrkc> ")
			if !stdin.Scan() {
				return nil
			}
			line = stdin.Text()
		}
		if err != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") {
			return nil
		}

		tokens := strings.Fields(line)
		stream := parse.NewSliceStream(toAnySlice(tokens)...)

		result, err := driver.Parse(stream, nil)
		if err != nil {
			fmt.Printf("parse error: %s\n", err.Error())
			continue
		}
		fmt.Printf("=> %v\n", result)
	}
}

func toAnySlice(tokens []string) []any {
	out := make([]any, len(tokens))
	for i, t := range tokens {
		out[i] = t
	}
	return out
}
