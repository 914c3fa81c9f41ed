//go:build windows

package cmd

// getTermWidthIoctl is unsupported on Windows; terminalWidth uses $COLUMNS
// or the default.
func getTermWidthIoctl() int { return 0 }
