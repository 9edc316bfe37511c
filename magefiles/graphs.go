//go:build mage

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Graphs generates a whole-document graph for every text in texts/.
func Graphs() error {
	mg.Deps(Build)

	files, err := textFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := sh.RunV(binPath, "generate", f); err != nil {
			return fmt.Errorf("generating %s: %w", f, err)
		}
	}
	return nil
}

// Render converts every graphs/*.dot file to PNG with GraphViz.
func Render() error {
	dots, err := filepath.Glob(filepath.Join("graphs", "*.dot"))
	if err != nil {
		return err
	}
	if len(dots) == 0 {
		fmt.Println("No graphs to render. Run mage graphs first.")
		return nil
	}
	for _, dot := range dots {
		png := strings.TrimSuffix(dot, ".dot") + ".png"
		if err := sh.Run("dot", "-Tpng", dot, "-o", png); err != nil {
			return fmt.Errorf("rendering %s: %w", dot, err)
		}
		fmt.Println("  ", png)
	}
	return nil
}

// Index adds every text in texts/ to the annotation index.
func Index() error {
	mg.Deps(Build)

	files, err := textFiles()
	if err != nil {
		return err
	}
	return sh.RunV(binPath, append([]string{"index", "add"}, files...)...)
}
