// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeutil provides utilities for make: Makefile generation and
// depfile parsing.
package makeutil

import (
	"bytes"
	"context"
	"strings"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/makegen/o11y/clog"
)

// Rule is a rule in depfile.
//
//	<targets...>: <deps...>
type Rule struct {
	Targets []string
	Deps    []string
}

// ParseRules parses depfile contents, e.g. output of `gcc -MM -MP`.
// '\'+newline continues the line, '\'+space is escaped space.
// Lines without rule separator are ignored.
func ParseRules(ctx context.Context, b []byte) []Rule {
	var rules []Rule
	for lineno := 1; len(b) > 0; lineno++ {
		var line []byte
		line, b = nextLine(b)
		i := ruleSep(line)
		if i < 0 {
			if log.V(1) && len(bytes.TrimSpace(line)) > 0 {
				clog.Infof(ctx, "depfile:%d: no rule separator %q", lineno, line)
			}
			continue
		}
		rules = append(rules, Rule{
			Targets: tokens(line[:i]),
			Deps:    tokens(line[i+1:]),
		})
	}
	return rules
}

// ParseDeps parses deps and returns a list of inputs of the first rule.
// Following rules (e.g. phony rules for headers by -MP) are ignored.
func ParseDeps(b []byte) []string {
	rules := ParseRules(context.Background(), b)
	if len(rules) == 0 {
		return nil
	}
	return rules[0].Deps
}

// nextLine returns next logical line in s, and rest of s.
func nextLine(s []byte) ([]byte, []byte) {
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			continue
		}
		if i > 1 && s[i-1] == '\r' && s[i-2] == '\\' {
			continue
		}
		return s[:i], s[i+1:]
	}
	return s, nil
}

// ruleSep returns index of ':' that separates targets and deps.
// ':' must be followed by whitespace, a line continuation or end of line,
// so "C:\foo" is not a separator.
func ruleSep(line []byte) int {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			// skip escaped char.
			if i+1 < len(line) && line[i+1] == ' ' {
				i++
			}
			continue
		case ':':
		default:
			continue
		}
		rest := line[i+1:]
		if len(rest) == 0 {
			return i
		}
		switch rest[0] {
		case ' ', '\t', '\r', '\n':
			return i
		case '\\':
			if len(rest) > 1 && (rest[1] == '\n' || rest[1] == '\r') {
				return i
			}
		}
	}
	return -1
}

func tokens(s []byte) []string {
	var toks []string
	for len(s) > 0 {
		var token string
		token, s = nextToken(s)
		if token != "" {
			toks = append(toks, token)
		}
	}
	return toks
}

func nextToken(s []byte) (string, []byte) {
	var sb strings.Builder
	// skip spaces
skipSpaces:
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n' {
			i++
			continue
		}
		if s[i] == '\\' && i+2 < len(s) && s[i+1] == '\r' && s[i+2] == '\n' {
			i += 2
			continue
		}
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			s = s[i:]
			break skipSpaces
		}
	}
	// extract next space not escaped
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case ' ':
				sb.WriteByte(s[i])
			case '\r', '\n':
				// '\'+newline is space
				return sb.String(), s[i+1:]
			default:
				sb.WriteByte('\\')
				sb.WriteByte(s[i])
			}
			continue
		}
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			return sb.String(), s[i+1:]
		}
		sb.WriteByte(s[i])
	}
	return sb.String(), nil
}
