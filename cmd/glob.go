// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// .lisp files found recursively under the given directory, and drops paths
// matching any of excludes.  Other arguments pass through unchanged.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			out = append(out, arg)
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := findLispFiles(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s", arg)
		}
		out = append(out, files...)
	}
	return filterExcludes(out, excludes), nil
}

func findLispFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".lisp" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var kept []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			kept = append(kept, p)
		}
	}
	return kept
}

// matchesAny reports whether a pattern matches path, its base name, or one
// of its directory components.
func matchesAny(path string, patterns []string) bool {
	parts := splitPath(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pat, part); ok {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	return strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
}
