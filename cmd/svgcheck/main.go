// Command svgcheck validates device illustrations and prints the issues found.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"piper/internal/svgdoc"
)

func main() {
	dir := flag.String("dir", "data/svgs", "Directory with device illustrations")
	quiet := flag.Bool("quiet", false, "Only print warnings and errors")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join(*dir, "*.svg"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad directory: %v\n", err)
			os.Exit(1)
		}
		files = matches
	}
	if len(files) == 0 {
		fmt.Println("Usage: svgcheck [-dir data/svgs] [-quiet] [file.svg ...]")
		os.Exit(1)
	}

	if _, err := os.Stat(filepath.Join(*dir, svgdoc.LookupFile)); err == nil {
		if _, err := svgdoc.LoadLookup(os.DirFS(*dir)); err != nil {
			fmt.Printf("%s: %v\n", svgdoc.LookupFile, err)
			os.Exit(1)
		}
	}

	failed := 0
	for _, path := range files {
		doc, err := svgdoc.LoadFile(path)
		if err != nil {
			fmt.Printf("%s: error: %v\n", path, err)
			failed++
			continue
		}

		issues := svgdoc.Check(doc)
		for _, is := range issues {
			if *quiet && is.Level == svgdoc.LevelInfo {
				continue
			}
			fmt.Printf("%s: %s: %s\n", path, is.Level, is.Message)
		}
		if svgdoc.HasErrors(issues) {
			failed++
		}
	}

	fmt.Printf("\nChecked %d files, %d failed\n", len(files), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
