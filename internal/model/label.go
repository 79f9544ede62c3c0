package model

import (
	"fmt"
	"strings"
)

// Label identifies which periodic ability fired at a tick.
// Keep these values stable; they are intended for CSV and JSON output.
type Label string

const (
	LabelLacerate Label = "lacerate" // A
	LabelMultihit Label = "multihit" // B
	LabelSmoke    Label = "smoke"    // C, carries the legacy bonus
	LabelBloom    Label = "bloom"    // D
)

// Labels returns every label in canonical order.
func Labels() []Label {
	return []Label{LabelLacerate, LabelMultihit, LabelSmoke, LabelBloom}
}

// ParseLabel accepts a label name or its letter alias (A-D), case-insensitive.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lacerate", "a":
		return LabelLacerate, nil
	case "multihit", "b":
		return LabelMultihit, nil
	case "smoke", "c":
		return LabelSmoke, nil
	case "bloom", "d":
		return LabelBloom, nil
	default:
		return "", fmt.Errorf("unknown label %q", s)
	}
}
