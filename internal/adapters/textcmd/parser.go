package textcmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
)

// ErrInvalidCommand reports a line the parser cannot turn into a command
type ErrInvalidCommand struct {
	Line   string
	Reason string
}

func (e *ErrInvalidCommand) Error() string {
	return fmt.Sprintf("Invalid command: %s", e.Reason)
}

func invalid(line, format string, args ...interface{}) error {
	return &ErrInvalidCommand{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// SaveCommand writes the session document to Path
type SaveCommand struct {
	SessionID string
	Path      string
}

// LoadCommand replaces the session simulation with the document at Path
type LoadCommand struct {
	SessionID string
	Path      string
}

// CreateFromFileCommand creates a building from the descriptor stored at Path
type CreateFromFileCommand struct {
	SessionID string
	Path      string
}

// Parse turns one command line into a request addressed to sessionID.
//
//	request 'door' from 'D'
//	step 3
//	finish
//	verbose 1
//	set policy request 'sjf' on 'D' | * | default
//	connect 'M' to 'D'
//	disconnect 'M' to 'D'
//	add_drone at 'P'
//	remove 'D'
//	create {"type": "mine", ...} | create descriptor.json
//	save file.json
//	load file.json
func Parse(sessionID, line string) (common.Request, error) {
	if arg, ok := inlineDescriptor(line); ok {
		if !json.Valid([]byte(arg)) {
			return nil, invalid(line, "building descriptor is not valid JSON")
		}
		return &appsim.CreateBuildingCommand{SessionID: sessionID, Descriptor: json.RawMessage(arg)}, nil
	}

	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, invalid(line, "empty command")
	}

	switch tokens[0] {
	case "request":
		if len(tokens) != 4 || tokens[2] != "from" || !quoted(tokens[1]) || !quoted(tokens[3]) {
			return nil, invalid(line, "expected request 'output' from 'building'")
		}
		return &appsim.RequestCommand{SessionID: sessionID, Output: unquote(tokens[1]), Building: unquote(tokens[3])}, nil

	case "step":
		if len(tokens) != 2 {
			return nil, invalid(line, "expected step N")
		}
		n, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, invalid(line, "'%s' is not a number", tokens[1])
		}
		return &appsim.StepCommand{SessionID: sessionID, Steps: n}, nil

	case "finish":
		if len(tokens) != 1 {
			return nil, invalid(line, "finish takes no arguments")
		}
		return &appsim.FinishCommand{SessionID: sessionID}, nil

	case "verbose":
		if len(tokens) != 2 {
			return nil, invalid(line, "expected verbose N")
		}
		level, err := strconv.Atoi(tokens[1])
		if err != nil || level < 0 || level > 2 {
			return nil, invalid(line, "verbosity must be 0, 1 or 2")
		}
		return &appsim.SetVerbosityCommand{SessionID: sessionID, Level: level}, nil

	case "set":
		return parseSetPolicy(sessionID, line, tokens)

	case "connect", "disconnect":
		if len(tokens) != 4 || tokens[2] != "to" || !quoted(tokens[1]) || !quoted(tokens[3]) {
			return nil, invalid(line, "expected %s 'source' to 'destination'", tokens[0])
		}
		if tokens[0] == "connect" {
			return &appsim.ConnectCommand{SessionID: sessionID, Source: unquote(tokens[1]), Destination: unquote(tokens[3])}, nil
		}
		return &appsim.DisconnectCommand{SessionID: sessionID, Source: unquote(tokens[1]), Destination: unquote(tokens[3])}, nil

	case "add_drone":
		if len(tokens) != 3 || tokens[1] != "at" || !quoted(tokens[2]) {
			return nil, invalid(line, "expected add_drone at 'port'")
		}
		return &appsim.AddDroneCommand{SessionID: sessionID, Port: unquote(tokens[2])}, nil

	case "remove":
		if len(tokens) != 2 || !quoted(tokens[1]) {
			return nil, invalid(line, "expected remove 'building'")
		}
		return &appsim.RemoveBuildingCommand{SessionID: sessionID, Building: unquote(tokens[1])}, nil

	case "create":
		if len(tokens) != 2 {
			return nil, invalid(line, "expected create <descriptor>")
		}
		return &CreateFromFileCommand{SessionID: sessionID, Path: tokens[1]}, nil

	case "save", "load":
		if len(tokens) != 2 {
			return nil, invalid(line, "expected %s <file>", tokens[0])
		}
		if tokens[0] == "save" {
			return &SaveCommand{SessionID: sessionID, Path: tokens[1]}, nil
		}
		return &LoadCommand{SessionID: sessionID, Path: tokens[1]}, nil
	}
	return nil, invalid(line, "unknown command '%s'", tokens[0])
}

// inlineDescriptor returns the JSON of "create {...}". It is read before tokenizing since
// descriptor strings may hold quotes.
func inlineDescriptor(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "create ") {
		return "", false
	}
	arg := strings.TrimSpace(strings.TrimPrefix(trimmed, "create"))
	return arg, strings.HasPrefix(arg, "{")
}

func parseSetPolicy(sessionID, line string, tokens []string) (common.Request, error) {
	if len(tokens) != 6 || tokens[1] != "policy" || tokens[4] != "on" || !quoted(tokens[3]) {
		return nil, invalid(line, "expected set policy request|source 'policy' on 'building'|*|default")
	}
	cmd := &appsim.SetPolicyCommand{SessionID: sessionID, Policy: unquote(tokens[3])}
	switch tokens[2] {
	case "request":
		cmd.Kind = appsim.RequestPolicyKind
	case "source":
		cmd.Kind = appsim.SourcePolicyKind
	default:
		return nil, invalid(line, "unknown policy type '%s'", tokens[2])
	}

	switch target := tokens[5]; {
	case target == "*":
		cmd.Scope = appsim.ScopeAll
	case target == "default":
		cmd.Scope = appsim.ScopeDefault
	case quoted(target):
		cmd.Scope = appsim.ScopeBuilding
		cmd.Building = unquote(target)
	default:
		return nil, invalid(line, "building name must be quoted")
	}
	return cmd, nil
}

// tokenize splits on spaces. A quoted name is one token, quotes kept, and must stand alone
// between spaces.
func tokenize(line string) ([]string, error) {
	var tokens []string
	add := func(s string) {
		for _, f := range strings.Split(s, " ") {
			if f != "" {
				tokens = append(tokens, f)
			}
		}
	}

	start := 0
	for {
		open := strings.IndexByte(line[start:], '\'')
		if open < 0 {
			add(line[start:])
			return tokens, nil
		}
		open += start
		if open == 0 || line[open-1] != ' ' {
			return nil, invalid(line, "a quote must follow a space")
		}
		closing := strings.IndexByte(line[open+1:], '\'')
		if closing < 0 {
			return nil, invalid(line, "unterminated quote")
		}
		closing += open + 1
		if closing != len(line)-1 && line[closing+1] != ' ' {
			return nil, invalid(line, "a closing quote must be followed by a space")
		}
		add(line[start:open])
		tokens = append(tokens, line[open:closing+1])
		start = closing + 1
	}
}

func quoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")
}

func unquote(s string) string {
	return s[1 : len(s)-1]
}
