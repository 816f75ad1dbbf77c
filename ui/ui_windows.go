// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"os"

	log "github.com/golang/glog"
	"golang.org/x/sys/windows"
)

// console is a Windows console handle and its original mode.
type console struct {
	name   string
	handle windows.Handle
	mode   uint32
}

// consoles are stdout and stderr consoles switched by Init.
// TermUI writes SGR sequences to both.
var consoles []console

// Init enables virtual terminal processing on stdout and stderr, so
// the consoles interpret ANSI escape sequences.
func Init() {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		h := windows.Handle(f.Fd())
		var mode uint32
		if err := windows.GetConsoleMode(h, &mode); err != nil {
			log.V(1).Infof("%s: not a console: %v", f.Name(), err)
			continue
		}
		if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
			continue
		}
		newMode := mode | windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
		if err := windows.SetConsoleMode(h, newMode); err != nil {
			log.Warningf("%s: set console mode 0x%x: %v", f.Name(), newMode, err)
			continue
		}
		log.Infof("%s: console mode 0x%x -> 0x%x", f.Name(), mode, newMode)
		consoles = append(consoles, console{name: f.Name(), handle: h, mode: mode})
	}
}

// Restore restores console modes changed by Init.
func Restore() {
	for _, c := range consoles {
		if err := windows.SetConsoleMode(c.handle, c.mode); err != nil {
			log.Errorf("%s: restore console mode 0x%x: %v", c.name, c.mode, err)
		}
	}
	consoles = nil
}
