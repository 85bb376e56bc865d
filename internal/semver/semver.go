// Package semver implements the version-resolution scheme used by
// specification URIs of the form .../<name>/<version>/ where <version>
// is MAJOR, MAJOR.MINOR, MAJOR.MINOR.PATCH or the literal "latest".
package semver

import (
	"strconv"
	"strings"
)

// Version is a parsed semantic version with 1 to 3 numeric parts.
type Version struct {
	Parts []int
}

// Parse parses "1", "1.2" or "1.2.3". It returns false for anything
// else, including "latest".
func Parse(s string) (Version, bool) {
	if s == "" {
		return Version{}, false
	}
	fields := strings.Split(s, ".")
	if len(fields) > 3 {
		return Version{}, false
	}
	v := Version{Parts: make([]int, 0, len(fields))}
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Version{}, false
		}
		v.Parts = append(v.Parts, n)
	}
	return v, true
}

// Compare returns -1, 0 or 1 ordering a against b. Missing parts compare
// as zero, so 1.2 == 1.2.0.
func Compare(a, b Version) int {
	for i := 0; i < 3; i++ {
		av, bv := 0, 0
		if i < len(a.Parts) {
			av = a.Parts[i]
		}
		if i < len(b.Parts) {
			bv = b.Parts[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// SplitURI splits a spec URI into its base path and trailing version
// segment. The version segment is the last path element when it parses
// as a semver or equals "latest"; otherwise the whole URI is the base.
// The returned base keeps its trailing slash.
func SplitURI(uri string) (base, version string) {
	trimmed := strings.TrimSuffix(uri, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return uri, ""
	}
	last := trimmed[idx+1:]
	if _, ok := Parse(last); !ok && last != "latest" {
		return uri, ""
	}
	return trimmed[:idx+1], last
}

// Resolve maps uri onto a registered URI. An exact hit wins; otherwise
// candidates are generated from most specific to least specific
// (1.2.3 -> 1.2 -> 1 -> latest), and "latest" picks the highest semver
// among the registered siblings under the same base path.
//
// exists reports whether a URI is registered; all lists every registered
// URI (used for "latest" sibling scans).
func Resolve(uri string, exists func(string) bool, all func() []string) (string, bool) {
	if exists(uri) {
		return uri, true
	}

	base, version := SplitURI(uri)
	if version == "" {
		return "", false
	}

	for _, cand := range fallbacks(version) {
		if cand == "latest" {
			if hit, ok := resolveLatest(base, exists, all); ok {
				return hit, true
			}
			continue
		}
		for _, form := range []string{base + cand + "/", base + cand} {
			if exists(form) {
				return form, true
			}
		}
	}
	return "", false
}

// fallbacks lists the version candidates tried after an exact miss,
// most specific first.
func fallbacks(version string) []string {
	if version == "latest" {
		return []string{"latest"}
	}
	v, ok := Parse(version)
	if !ok {
		return nil
	}
	var out []string
	for n := len(v.Parts) - 1; n >= 1; n-- {
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = strconv.Itoa(v.Parts[i])
		}
		out = append(out, strings.Join(parts, "."))
	}
	out = append(out, "latest")
	return out
}

// resolveLatest returns the registered sibling of base with the highest
// semver segment.
func resolveLatest(base string, exists func(string) bool, all func() []string) (string, bool) {
	for _, form := range []string{base + "latest/", base + "latest"} {
		if exists(form) {
			return form, true
		}
	}

	best := ""
	var bestVer Version
	for _, reg := range all() {
		regBase, regVersion := SplitURI(reg)
		if regBase != base || regVersion == "" || regVersion == "latest" {
			continue
		}
		v, ok := Parse(regVersion)
		if !ok {
			continue
		}
		if best == "" || Compare(v, bestVer) > 0 {
			best = reg
			bestVer = v
		}
	}
	return best, best != ""
}
