//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

// Crawl builds the citation network around paperID (depth 1, citations) and
// writes CSV, renderings, and a metrics textfile under output/.
func Crawl(paperID string) error {
	ensureBuilt()
	fmt.Printf("[crawl] %s\n", paperID)
	return sh.RunV(binPath, "crawl", paperID,
		"--render",
		"--metrics-file", filepath.Join("output", "metrics", "citegraph.prom"),
	)
}

// Collab derives the author network from a crawl's CSV output.
func Collab(papersCSV, connectionsCSV string) error {
	ensureBuilt()
	return sh.RunV(binPath, "collab", "--papers", papersCSV, "--connections", connectionsCSV)
}
