package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/par5er/internal/batch"
	"github.com/karupanerura/par5er/internal/expression"
	"github.com/karupanerura/par5er/internal/server"
	"github.com/karupanerura/par5er/internal/types"
	"github.com/mattn/go-isatty"
)

type Option struct {
	Exprs       []string `short:"e" long:"expr" description:"[OPTIONAL] Expression to evaluate (repeatable)" required:"false"`
	File        string   `short:"f" long:"file" description:"[OPTIONAL] Batch file of expressions (JSON or YAML)" required:"false"`
	Listen      string   `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the evaluation API" required:"false"`
	Concurrency int      `short:"j" long:"concurrency" description:"[OPTIONAL] Maximum number of expressions evaluated at once (0 means unlimited)" default:"0"`
	Format      string   `long:"fmt" description:"[OPTIONAL] Result formatting verb" default:"%g"`
	JSON        bool     `long:"json" description:"[OPTIONAL] Dump results as JSON"`
	Echo        bool     `long:"echo" description:"[OPTIONAL] Print parse trees"`
	Debug       bool     `long:"debug" description:"[OPTIONAL] Dump tokens and parse trees to the log"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] [EXPRESSION...]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}
	exprs := append(opt.Exprs, rest...)
	if opt.Listen != "" && (len(exprs) != 0 || opt.File != "") {
		parser.WriteHelp(stdout)
		return 1
	}
	if opt.Debug {
		expression.SetDebugOutput(true)
	}

	// server mode
	if opt.Listen != "" {
		if err = serveEvaluations(opt.Listen); err != nil {
			log.Printf("failed to serve evaluations: %v", err)
			return 1
		}
		return 0
	}

	entries, err := loadEntries(opt.File, exprs, stdin)
	if err != nil {
		log.Printf("failed to load expressions: %v", err)
		return 1
	}

	results, err := batch.Run(context.Background(), entries, opt.Concurrency)
	if err != nil {
		log.Printf("failed to evaluate expressions: %v", err)
		return 1
	}

	if opt.JSON {
		if err = dumpJSON(stdout, map[string][]batch.Result{"results": results}); err != nil {
			log.Printf("failed to dump results: %v", err)
			return 1
		}
	} else {
		for _, r := range results {
			if err = printResult(stdout, stderr, r, opt.Format, opt.Echo); err != nil {
				log.Printf("failed to print result: %v", err)
				return 1
			}
		}
	}

	if batch.Failed(results) {
		return 1
	}
	return 0
}

func loadEntries(filePath string, exprs []string, stdin io.Reader) ([]batch.Entry, error) {
	var entries []batch.Entry
	if filePath != "" {
		fileEntries, err := batch.LoadFile(filePath)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}
	if len(exprs) != 0 {
		entries = append(entries, batch.EntriesFromSources(exprs)...)
	}
	if filePath != "" || len(exprs) != 0 {
		return entries, nil
	}

	// no expressions given: one expression per non-empty stdin line
	var lines []string
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Scan: %w", err)
	}
	return batch.EntriesFromSources(lines), nil
}

func printResult(stdout, stderr io.Writer, r batch.Result, format string, echo bool) error {
	if echo && r.Tree != "" {
		if _, err := fmt.Fprintln(stdout, r.Tree); err != nil {
			return fmt.Errorf("fmt.Fprintln: %w", err)
		}
	}

	if r.Err == nil {
		if _, err := fmt.Fprintf(stdout, format+"\n", r.Value); err != nil {
			return fmt.Errorf("fmt.Fprintf: %w", err)
		}
		return nil
	}

	exception := types.AsException(r.Err)
	if _, err := fmt.Fprintf(stderr, "%s: %s\n", r.Name, exception.Error()); err != nil {
		return fmt.Errorf("fmt.Fprintf: %w", err)
	}
	return dumpJSON(stderr, exception.Exception())
}

func serveEvaluations(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
