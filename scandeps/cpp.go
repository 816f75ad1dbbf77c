// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/makegen/o11y/clog"
)

// IncludeKind is the form of #include directive.
type IncludeKind int

const (
	// System is `#include <name>`.
	System IncludeKind = iota
	// User is `#include "name"`.
	User
)

func (k IncludeKind) String() string {
	switch k {
	case System:
		return "system"
	case User:
		return "user"
	}
	return fmt.Sprintf("IncludeKind(%d)", int(k))
}

// Include is an include reference extracted from a line.
type Include struct {
	Kind IncludeKind
	Name string
}

func (inc Include) String() string {
	if inc.Kind == System {
		return "<" + inc.Name + ">"
	}
	return `"` + inc.Name + `"`
}

// ErrMalformedInclude is an error for #include line without valid delimiters.
var ErrMalformedInclude = errors.New("malformed #include")

// ParseError is an error to parse a file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

const (
	includeDirective = "#include"
	entryPoint       = "main("
)

// IsIncludeLine reports whether line is #include directive line.
func IsIncludeLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), includeDirective)
}

// ExtractInclude extracts include reference from #include line.
// <...> is preferred if the line has both '<' and '>'.
func ExtractInclude(line string) (Include, error) {
	lt := strings.IndexByte(line, '<')
	gt := strings.IndexByte(line, '>')
	if lt >= 0 && gt >= 0 {
		if gt < lt {
			return Include{}, fmt.Errorf("%w: '>' before '<' in %q", ErrMalformedInclude, line)
		}
		name := line[lt+1 : gt]
		if name == "" {
			return Include{}, fmt.Errorf("%w: empty name in %q", ErrMalformedInclude, line)
		}
		return Include{Kind: System, Name: name}, nil
	}
	i := strings.IndexByte(line, '"')
	if i < 0 {
		return Include{}, fmt.Errorf("%w: no delimiter in %q", ErrMalformedInclude, line)
	}
	j := strings.IndexByte(line[i+1:], '"')
	if j < 0 {
		return Include{}, fmt.Errorf("%w: unclosed path in %q", ErrMalformedInclude, line)
	}
	name := line[i+1 : i+1+j]
	if name == "" {
		return Include{}, fmt.Errorf("%w: empty name in %q", ErrMalformedInclude, line)
	}
	return Include{Kind: User, Name: name}, nil
}

// HasEntryPoint reports whether buf defines the program entry point.
func HasEntryPoint(buf []byte) bool {
	return bytes.Contains(buf, []byte(entryPoint))
}

// CPPScan scans #include lines in buf, in the order of appearance.
func CPPScan(ctx context.Context, fname string, buf []byte) ([]Include, error) {
	started := time.Now()
	var includes []Include
	lineno := 0
	for len(buf) > 0 {
		lineno++
		var line []byte
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			line = buf
			buf = nil
		} else {
			line = buf[:i]
			buf = buf[i+1:]
		}
		s := string(bytes.TrimRight(line, "\r"))
		if !IsIncludeLine(s) {
			if log.V(3) {
				clog.Infof(ctx, "skip %s:%d %q", fname, lineno, s)
			}
			continue
		}
		inc, err := ExtractInclude(s)
		if err != nil {
			return nil, &ParseError{File: fname, Line: lineno, Err: err}
		}
		if log.V(1) {
			clog.Infof(ctx, "%s:%d include %s", fname, lineno, inc)
		}
		includes = append(includes, inc)
	}
	if dur := time.Since(started); dur > time.Second {
		clog.Infof(ctx, "slow cppScan %s %s", fname, dur)
	}
	return includes, nil
}
