// Command graphlint validates dialogue graph content files. It checks the
// seeded graphs plus any JSON files given as arguments and exits nonzero if
// anything is flagged, so it can gate a content build.
package main

import (
	"flag"
	"fmt"
	"os"

	"Hearthvale/internal/dialogue"
	"Hearthvale/internal/game"
)

func main() {
	seeded := flag.Bool("seeded", true, "also validate the built-in seeded dialogues")
	flag.Parse()

	defects := 0

	if *seeded {
		graphs, err := game.SeedDialogues()
		if err != nil {
			fmt.Fprintf(os.Stderr, "seeded dialogues: %v\n", err)
			os.Exit(1)
		}
		for _, g := range graphs {
			defects += report(g)
		}
	}

	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			defects++
			continue
		}
		g, err := dialogue.DecodeGraph(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			defects++
			continue
		}
		defects += report(g)
	}

	if defects > 0 {
		fmt.Fprintf(os.Stderr, "%d defect(s)\n", defects)
		os.Exit(1)
	}
}

func report(g *dialogue.DialogueGraph) int {
	errs := dialogue.Validate(g)
	for _, msg := range errs {
		fmt.Printf("%s: %s\n", g.ID, msg)
	}
	return len(errs)
}
