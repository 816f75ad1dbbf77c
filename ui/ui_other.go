// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !windows

package ui

// Init prepares the terminal for ANSI escape sequences.
// Terminals other than the Windows console handle them already.
func Init() {}

// Restore undoes Init.
func Restore() {}
