package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/variant"
)

func main() {
	var (
		witFile     = flag.String("wit", "", "Path to WIT JSON (wasm-tools component wit --json)")
		cases       = flag.String("cases", "", "Ad hoc variant cases (none,some:u32,label:string)")
		typeName    = flag.String("type", "", "Only show types containing this name")
		value       = flag.String("value", "", "Encode a value of -type: case=value")
		verbose     = flag.Bool("v", false, "Log variant lifecycle events")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *witFile == "" && *cases == "" {
		fmt.Fprintln(os.Stderr, "Usage: variantinfo -wit <types.json> [-type name] [-value case=value]")
		fmt.Fprintln(os.Stderr, "       variantinfo -cases none,some:u32 [-value some=42]")
		fmt.Fprintln(os.Stderr, "       variantinfo -wit <types.json> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			variant.SetLogger(logger)
			defer logger.Sync()
		}
	}

	entries, err := loadEntries(*witFile, *cases, *typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(entries); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(entries, *value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(entries []entry, value string) error {
	if len(entries) == 0 {
		return fmt.Errorf("no variant-like types found")
	}

	styled := false
	width := 80
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		styled = true
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	if value == "" {
		for _, e := range entries {
			fmt.Println(renderEntry(e, styled, width))
		}
		return nil
	}

	if len(entries) != 1 {
		return fmt.Errorf("-value needs exactly one type, %d match", len(entries))
	}

	s, err := newScratch()
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.encode(entries[0], value)
	if err != nil {
		return err
	}
	fmt.Println(renderEntry(entries[0], styled, width))
	fmt.Println(renderResult(res, styled))
	return nil
}
