// Package ignore parses ignore-specification files into exclude and
// re-include pattern lists and compiles individual patterns into anchored
// regular expressions for path matching.
package ignore

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Convention is the path-separator convention patterns are normalized to at
// parse time. It is threaded in explicitly so parsing never consults the
// host platform at call time.
type Convention int

const (
	// ForwardSlash leaves `/` separators untouched.
	ForwardSlash Convention = iota
	// Backslash rewrites every `/` in a pattern to `\`.
	Backslash
)

// HostConvention returns the convention matching the running platform's
// file-path separator.
func HostConvention() Convention {
	if os.PathSeparator == '\\' {
		return Backslash
	}
	return ForwardSlash
}

// Spec is an ordered ignore specification. Exclude holds plain patterns;
// Reinclude holds patterns whose source line began with `!`, with the marker
// stripped. Blank lines and comment lines are never materialized.
type Spec struct {
	Exclude   []string
	Reinclude []string
}

// Parse splits content into lines (tolerating \r\n endings), trims each
// line, drops blanks and `#` comments, routes `!`-prefixed lines into the
// re-include list, and rewrites separators for conv. Glob syntax is not
// validated here; Compile reports malformed patterns downstream.
func Parse(content []byte, conv Convention) Spec {
	var spec Spec
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		negate := false
		if strings.HasPrefix(line, "!") {
			negate = true
			line = strings.TrimPrefix(line, "!")
		}

		// A leading `\#` or `\!` escapes the marker character.
		if strings.HasPrefix(line, `\#`) || strings.HasPrefix(line, `\!`) {
			line = line[1:]
		}

		if conv == Backslash {
			line = strings.ReplaceAll(line, "/", `\`)
		}

		if negate {
			spec.Reinclude = append(spec.Reinclude, line)
		} else {
			spec.Exclude = append(spec.Exclude, line)
		}
	}
	return spec
}

// Load reads the ignore file at path and parses it. Read errors are
// propagated unchanged so the caller can decide between fatal and
// default-empty handling.
func Load(path string, conv Convention) (Spec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, err
	}
	return Parse(content, conv), nil
}

// Precompiled regular expressions used when translating glob patterns.
var (
	doubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
	singleStarPattern         = regexp.MustCompile(`\*`)
)

// Compile translates one glob pattern into an anchored regexp matching
// slash-separated relative paths. `*` matches within a path segment, `**`
// across segments, `?` a single character; character classes pass through
// to the regexp engine, so a malformed class surfaces as a compile error
// rather than silently matching nothing.
func Compile(pattern string) (*regexp.Regexp, error) {
	// Patterns may arrive host-normalized; matching always runs in slash form.
	slashed := strings.ReplaceAll(pattern, `\`, "/")

	expr := escapeSpecialChars(slashed)
	expr = handleDoubleStarPatterns(expr)
	expr = wildcardToRegex(expr)
	expr = expandDoubleStars(expr)
	expr = anchorPattern(expr, slashed)

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("malformed pattern %q: %w", pattern, err)
	}
	return re, nil
}

// escapeSpecialChars escapes regex special characters except for '*', '?',
// '/', and the character-class brackets.
func escapeSpecialChars(pattern string) string {
	specialChars := `.+()|^${}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// Placeholders keep '**' expansions out of reach of the single-star and '?'
// rewrites; they never occur in a trimmed pattern line.
const (
	doubleStarMiddle   = "\x00"
	doubleStarTrailing = "\x01"
	doubleStarLeading  = "\x02"
)

// handleDoubleStarPatterns replaces '**' globs with opaque placeholders.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddlePattern.ReplaceAllString(pattern, doubleStarMiddle)
	pattern = doubleStarTrailingPattern.ReplaceAllString(pattern, doubleStarTrailing)
	pattern = doubleStarLeadingPattern.ReplaceAllString(pattern, doubleStarLeading)
	return pattern
}

// expandDoubleStars rewrites the placeholders into their regex equivalents.
func expandDoubleStars(pattern string) string {
	pattern = strings.ReplaceAll(pattern, doubleStarMiddle, `(/|/.+/)`)
	pattern = strings.ReplaceAll(pattern, doubleStarTrailing, `(/.*)?`)
	pattern = strings.ReplaceAll(pattern, doubleStarLeading, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts the remaining '*' and '?' wildcards.
func wildcardToRegex(pattern string) string {
	pattern = singleStarPattern.ReplaceAllString(pattern, `[^/]*`)
	return strings.ReplaceAll(pattern, "?", ".")
}

// anchorPattern anchors the expression to the full path. A trailing '/'
// matches the whole subtree; a pattern without a leading '/' matches at any
// depth.
func anchorPattern(pattern string, originalPattern string) string {
	if strings.HasSuffix(originalPattern, "/") {
		pattern += ".*$"
	} else {
		pattern += "(|/.*)$"
	}

	if strings.HasPrefix(originalPattern, "/") {
		return "^" + strings.TrimPrefix(pattern, "/")
	}
	return "^(|.*/)" + pattern
}
