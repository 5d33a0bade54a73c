package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode gates the live progress display of `attest run`.
type uiMode uint8

const (
	uiModeAuto uiMode = iota // stdout terminal detection decides
	uiModeOn
	uiModeOff
)

// parseUIMode reads the value of the run command's --ui flag. An empty
// value means auto.
func parseUIMode(value string) (uiMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	}
	return uiModeAuto, fmt.Errorf("run --ui: %q is not one of auto, on, off", value)
}

// wantTUI decides whether the Bubble Tea display should run. An
// explicit on/off wins; auto requires stdout to be a terminal, since
// the display repaints in place.
func (m uiMode) wantTUI() bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}
