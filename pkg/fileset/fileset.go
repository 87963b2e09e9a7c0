// Package fileset expands a directory tree into the ordered, deduplicated
// list of repository-relative file paths selected for serialization.
package fileset

import (
	"io/fs"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"

	"repocat/pkg/ignore"
)

// infraDirs are version-control and dependency-cache directories that are
// never enumerated, regardless of patterns.
var infraDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// Resolve produces the ordered file set for root under spec. Reserved holds
// root-relative slash-separated paths (the ignore spec file, the output
// file, the preamble file) that are removed from the result even when a
// re-include pattern matches them.
//
// The result is deterministic for a fixed tree and pattern set: one lexical
// enumeration feeds both the exclude filtering and the re-include
// resurrection, and the union preserves first-insertion order.
func Resolve(root string, spec ignore.Spec, reserved []string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	all, err := enumerate(root, logger)
	if err != nil {
		return nil, err
	}

	excludes := compilePatterns(spec.Exclude, logger)
	reincludes := compilePatterns(spec.Reinclude, logger)

	reservedSet := make(map[string]bool, len(reserved))
	for _, p := range reserved {
		reservedSet[filepath.ToSlash(p)] = true
	}

	// Survivors: the enumeration minus excluded and reserved paths.
	var survivors []string
	for _, path := range all {
		if reservedSet[path] || matchesAny(excludes, path) {
			continue
		}
		survivors = append(survivors, path)
	}

	// Resurrected: re-include matches against the unfiltered enumeration,
	// so a broad exclude cannot shadow an unrelated re-include.
	var resurrected []string
	for _, re := range reincludes {
		for _, path := range all {
			if re.MatchString(path) {
				resurrected = append(resurrected, path)
			}
		}
	}

	// Order-stable deduplicating union, with a second reserved-path strip in
	// case a re-include resurrected one of them.
	seen := make(map[string]bool, len(survivors)+len(resurrected))
	resolved := make([]string, 0, len(survivors))
	for _, path := range append(survivors, resurrected...) {
		if seen[path] || reservedSet[path] {
			continue
		}
		seen[path] = true
		resolved = append(resolved, path)
	}

	logger.Debug("Resolved file set",
		zap.Int("enumerated", len(all)),
		zap.Int("resolved", len(resolved)))
	return resolved, nil
}

// enumerate walks root lexically and returns every regular file as a
// slash-separated relative path, pruning only the fixed infra directories.
// Per-path walk errors warn and skip rather than aborting the walk.
func enumerate(root string, logger *zap.Logger) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if path != root && infraDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			logger.Warn("Unable to determine relative path",
				zap.String("path", path), zap.Error(relErr))
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// compilePatterns compiles each pattern, logging and skipping malformed
// ones; a single bad glob never aborts resolution.
func compilePatterns(patterns []string, logger *zap.Logger) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := ignore.Compile(p)
		if err != nil {
			logger.Debug("Skipping malformed ignore pattern",
				zap.String("pattern", p), zap.Error(err))
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

func matchesAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
