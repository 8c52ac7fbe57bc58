// Clothterm previews a cloth scenario in the terminal. The cloth is drawn
// with Braille characters and can be turned with the arrow keys.
package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phanxgames/gfxlab"
)

func main() {
	path := flag.String("scenario", "", "scenario JSON file (default: built-in cloth)")
	flag.Parse()

	s := gfxlab.DefaultScenario()
	if *path != "" {
		var err error
		if s, err = gfxlab.LoadScenarioFile(*path); err != nil {
			log.Fatal(err)
		}
	}

	m, err := newModel(s)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
