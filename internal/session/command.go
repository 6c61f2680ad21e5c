package session

import (
	"errors"
	"strings"
)

// CommandPrefix marks a line as a control command rather than an answer.
const CommandPrefix = `\`

// ErrUnknownCommand is returned for prefixed input that is not a known command.
var ErrUnknownCommand = errors.New("unknown command")

// Kind identifies what a line of input asks the session to do.
type Kind int

const (
	Answer Kind = iota
	Help
	Weights
	Quit
)

// Command is a classified line of input. Text is only set for answers.
type Command struct {
	Kind Kind
	Text string
}

var commands = map[string]Kind{
	CommandPrefix + "h": Help,
	CommandPrefix + "w": Weights,
	CommandPrefix + "q": Quit,
}

// ParseCommand classifies an already trimmed line of input.
// Anything that does not start with CommandPrefix, including the empty
// string, is an answer.
func ParseCommand(line string) (Command, error) {
	if kind, ok := commands[line]; ok {
		return Command{Kind: kind}, nil
	}
	if strings.HasPrefix(line, CommandPrefix) {
		return Command{}, ErrUnknownCommand
	}
	return Command{Kind: Answer, Text: line}, nil
}

const helpText = `Available commands:
  \h        - Show this help message
  \w        - Show weights for current items
  \q        - Quit the study session
  <answer> - Enter your answer for the current item
`
