// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"time"
)

// DurationThreshold is a threshold of duration to report to the user.
// Spinner doesn't report operations shorter than this.
const DurationThreshold = 500 * time.Millisecond

// FormatDuration formats d rounded to 10ms, as "S.SSs", "MmSS.SSs" or
// "HhMmSS.SSs".
func FormatDuration(d time.Duration) string {
	d = d.Round(10 * time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d.Seconds()
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%05.2fs", h, m, sec)
	case m > 0:
		return fmt.Sprintf("%dm%05.2fs", m, sec)
	}
	return fmt.Sprintf("%.2fs", sec)
}
