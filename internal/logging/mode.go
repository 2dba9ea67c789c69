package logging

import "strings"

type Mode uint8

const (
	ModeCLI Mode = iota + 1
	ModeMirror
)

func ModeFromArgs(args []string) Mode {
	if len(args) < 2 {
		return ModeCLI
	}
	cmd := strings.ToLower(strings.TrimSpace(args[1]))
	if cmd == "run" {
		return ModeMirror
	}
	return ModeCLI
}

func (m Mode) String() string {
	switch m {
	case ModeMirror:
		return "mirror"
	default:
		return "cli"
	}
}
