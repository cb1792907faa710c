package textcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
)

// Executor runs command lines against sessions. File commands are resolved here; everything
// else goes through the mediator.
type Executor struct {
	mediator  common.Mediator
	readFile  func(path string) ([]byte, error)
	writeFile func(path string, data []byte) error
}

func NewExecutor(m common.Mediator) *Executor {
	return &Executor{
		mediator: m,
		readFile: os.ReadFile,
		writeFile: func(path string, data []byte) error {
			return os.WriteFile(path, data, 0o644)
		},
	}
}

// WithFiles replaces file access, used by tests and by the server to keep clients off the disk
func (e *Executor) WithFiles(read func(string) ([]byte, error), write func(string, []byte) error) *Executor {
	e.readFile = read
	e.writeFile = write
	return e
}

// Execute parses line and runs it on the session
func (e *Executor) Execute(ctx context.Context, sessionID, line string) (*appsim.SessionResult, error) {
	request, err := Parse(sessionID, line)
	if err != nil {
		return nil, err
	}

	switch cmd := request.(type) {
	case *SaveCommand:
		result, err := e.send(ctx, &appsim.GetSessionQuery{SessionID: cmd.SessionID})
		if err != nil {
			return nil, err
		}
		if err := e.writeFile(cmd.Path, result.Document); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", cmd.Path, err)
		}
		return result, nil

	case *LoadCommand:
		data, err := e.readFile(cmd.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", cmd.Path, err)
		}
		return e.send(ctx, &appsim.LoadConfigCommand{SessionID: cmd.SessionID, Config: data})

	case *CreateFromFileCommand:
		data, err := e.readFile(cmd.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read descriptor %s: %w", cmd.Path, err)
		}
		return e.send(ctx, &appsim.CreateBuildingCommand{SessionID: cmd.SessionID, Descriptor: data})
	}
	return e.send(ctx, request)
}

func (e *Executor) send(ctx context.Context, request common.Request) (*appsim.SessionResult, error) {
	response, err := e.mediator.Send(ctx, request)
	if err != nil {
		return nil, err
	}
	result, ok := response.(*appsim.SessionResult)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", response)
	}
	return result, nil
}
