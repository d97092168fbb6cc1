package domain

import "strings"

// Command is the effect a comment has on its task when it is appended.
// The vocabulary is closed; any other text is CommandNone.
type Command int

// Comment commands.
const (
	CommandNone Command = iota
	CommandDone
	CommandUndo
	CommandUrgent
	CommandNotUrgent
	CommandDelete
)

var commandWords = map[string]Command{
	"done":       CommandDone,
	"undo":       CommandUndo,
	"urgent":     CommandUrgent,
	"not urgent": CommandNotUrgent,
	"delete":     CommandDelete,
}

// ParseCommand resolves comment text to a command.
// Matching ignores case, surrounding whitespace and repeated inner spaces.
func ParseCommand(text string) Command {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if cmd, ok := commandWords[normalized]; ok {
		return cmd
	}
	return CommandNone
}

// String returns the canonical command word.
func (c Command) String() string {
	switch c {
	case CommandDone:
		return "done"
	case CommandUndo:
		return "undo"
	case CommandUrgent:
		return "urgent"
	case CommandNotUrgent:
		return "not urgent"
	case CommandDelete:
		return "delete"
	default:
		return "none"
	}
}

// Logged reports whether the comment text is kept in the comment log.
// Delete bypasses the log since its task no longer exists.
func (c Command) Logged() bool {
	return c != CommandDelete
}
