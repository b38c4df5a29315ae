//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search pages through the Semantic Scholar corpus for a free-text query and
// saves the results as JSON under output/.
func Search(query string) error {
	mg.Deps(Build)
	fmt.Printf("[search] %q\n", query)
	return sh.RunV(binPath, "search", "--query", query, "--format", "json")
}
