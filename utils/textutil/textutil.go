// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutil holds the string helpers shared by the finder, the web
// pages and the command line.
package textutil

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold trims s and lowercases it, so that two names differing only in case
// compare equal. Lowercasing never expands a letter: "STRASSE" and "Straße"
// stay different.
func Fold(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	numOfDigits := len(in)
	if n < 0 {
		numOfDigits-- // First character is the - sign (not a digit)
	}

	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}

// FormatFloat renders f with the shortest representation that round-trips,
// always keeping a decimal point ("39.0", "-82.9988"). Very large and very
// small magnitudes switch to exponent notation ("1e+16", "1.5e-05").
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(f, 'e', -1, 64)

	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err == nil && f != 0 && (exp < -4 || exp >= 16) {
		return e
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
