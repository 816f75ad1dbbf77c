// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil provides utilities for shell command lines.
package shutil

import (
	"fmt"
	"strings"
)

// Split splits a command line into args, as shell does for a simple
// command: args are separated by spaces, '...' and "..." quote and
// '\' escapes.
// It returns error for shell features it doesn't support, such as
// pipe line, redirect or variable expansion.
func Split(cmdline string) ([]string, error) {
	var args []string
	var sb strings.Builder
	inArg := false
	escaped := false
	var quote rune
	for _, ch := range cmdline {
		switch {
		case escaped:
			sb.WriteRune(ch)
			escaped = false
			continue
		case quote == '\'':
			if ch == '\'' {
				quote = 0
				continue
			}
			sb.WriteRune(ch)
			continue
		case quote == '"':
			switch ch {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			case '$', '`':
				return nil, fmt.Errorf("failed to split: cmdline contains shell metachar %c in quote", ch)
			default:
				sb.WriteRune(ch)
			}
			continue
		}
		switch ch {
		case ' ', '\t', '\n':
			if inArg {
				args = append(args, sb.String())
				sb.Reset()
				inArg = false
			}
			continue
		case '\\':
			escaped = true
		case '\'', '"':
			quote = ch
		case ';', '&', '|', '<', '>', '$', '`', '(', ')':
			return nil, fmt.Errorf("failed to split: cmdline contains shell metachar %c", ch)
		case '#':
			if !inArg {
				return nil, fmt.Errorf("failed to split: cmdline contains comment")
			}
			sb.WriteRune(ch)
		default:
			sb.WriteRune(ch)
		}
		inArg = true
	}
	if escaped {
		return nil, fmt.Errorf("failed to split: cmdline ends with escape")
	}
	if quote != 0 {
		return nil, fmt.Errorf("failed to split: unterminated quote %c", quote)
	}
	if inArg {
		args = append(args, sb.String())
	}
	return args, nil
}
