// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package makeutil

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// DefaultObjDir is the default directory for object files.
const DefaultObjDir = ".OBJ"

// Makefile is a description of Makefile to compile sources and link
// binaries.
type Makefile struct {
	Compiler  string
	Standard  string
	OptLevel  string
	Libraries []string

	// ObjDir is a directory for object files. DefaultObjDir if empty.
	ObjDir string

	// Sources are compile rules, in emission order.
	Sources []Source

	// Groups are aggregate targets, in emission order.
	Groups []Group
}

// Source is a compile rule for a source file.
type Source struct {
	// Var is a variable name for Deps, e.g. "MAIN_SOURCE_DEPS".
	Var string

	// File is the source file to compile.
	File string

	// Object is an object file name in ObjDir.
	Object string

	// Deps are files that the object depends on.
	Deps []string
}

// Link is a link rule for a binary.
type Link struct {
	// Var is a variable name for Objects, e.g. "MAIN_OBJECT_DEPS".
	Var string

	// Target is the output binary name.
	Target string

	// Objects are object file names in ObjDir to link.
	Objects []string
}

// Group is an aggregate target of links, e.g. "tests".
type Group struct {
	Name  string
	Links []Link

	// Always emits the group even if it has no links.
	Always bool
}

// Targets returns names of link targets in emission order.
func (m *Makefile) Targets() []string {
	var targets []string
	for _, g := range m.emitGroups() {
		for _, l := range g.Links {
			targets = append(targets, l.Target)
		}
	}
	return targets
}

func (m *Makefile) objDir() string {
	if m.ObjDir == "" {
		return DefaultObjDir
	}
	return m.ObjDir
}

func (m *Makefile) emitGroups() []Group {
	var groups []Group
	for _, g := range m.Groups {
		if len(g.Links) == 0 && !g.Always {
			continue
		}
		groups = append(groups, g)
	}
	return groups
}

// writeList writes "<name><sep> <items...>" line, without trailing space.
func writeList(buf *bytes.Buffer, name, sep string, items []string) {
	buf.WriteString(name)
	buf.WriteString(sep)
	for _, item := range items {
		buf.WriteByte(' ')
		buf.WriteString(item)
	}
	buf.WriteByte('\n')
}

// WriteTo writes Makefile to w.
func (m *Makefile) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	groups := m.emitGroups()

	fmt.Fprintf(&buf, "CC := %s\n", m.Compiler)
	buf.WriteString("CFLAGS := -Wall\n")
	fmt.Fprintf(&buf, "CFLAGS += -std=%s\n", m.Standard)
	fmt.Fprintf(&buf, "CFLAGS += -%s\n", m.OptLevel)
	var lflags []string
	for _, lib := range m.Libraries {
		lflags = append(lflags, "-l"+lib)
	}
	writeList(&buf, "LFLAGS", " :=", lflags)
	buf.WriteByte('\n')

	fmt.Fprintf(&buf, "ODIR := %s\n", m.objDir())
	buf.WriteByte('\n')

	for _, s := range m.Sources {
		writeList(&buf, s.Var, " :=", s.Deps)
	}
	if len(m.Sources) > 0 {
		buf.WriteByte('\n')
	}

	buf.WriteString("all: binaries\n")
	phony := []string{"all"}
	for _, g := range groups {
		phony = append(phony, g.Name)
	}
	writeList(&buf, ".PHONY", ":", phony)
	buf.WriteByte('\n')

	buf.WriteString("$(ODIR):\n")
	buf.WriteString("\t@mkdir -p $(ODIR)\n")

	for _, g := range groups {
		buf.WriteByte('\n')
		var targets []string
		for _, l := range g.Links {
			targets = append(targets, l.Target)
		}
		writeList(&buf, g.Name, ":", targets)
		for _, l := range g.Links {
			buf.WriteByte('\n')
			objs := make([]string, 0, len(l.Objects))
			for _, o := range l.Objects {
				objs = append(objs, "$(ODIR)/"+o)
			}
			writeList(&buf, l.Var, " :=", objs)
			fmt.Fprintf(&buf, "%s: $(ODIR) $(%s)\n", l.Target, l.Var)
			fmt.Fprintf(&buf, "\t$(CC) $(CFLAGS) $(%s) -o %s $(LFLAGS)\n", l.Var, l.Target)
		}
	}

	for _, s := range m.Sources {
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, "$(ODIR)/%s: $(ODIR) $(%s)\n", s.Object, s.Var)
		fmt.Fprintf(&buf, "\t$(CC) -c $(CFLAGS) %s -o $(ODIR)/%s\n", s.File, s.Object)
	}

	buf.WriteByte('\n')
	buf.WriteString(".PHONY: clean\n")
	buf.WriteString("clean:\n")
	buf.WriteString("\t")
	writeList(&buf, "rm", " -rf "+m.objDir(), m.Targets())
	return buf.WriteTo(w)
}

// String returns Makefile contents.
func (m *Makefile) String() string {
	var sb strings.Builder
	m.WriteTo(&sb)
	return sb.String()
}
