package textcmd_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/adapters/textcmd"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
	"github.com/andrescamacho/factorysim-go/test/helpers"
)

type memoryFiles map[string][]byte

func (m memoryFiles) read(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m memoryFiles) write(path string, data []byte) error {
	m[path] = append([]byte(nil), data...)
	return nil
}

func TestExecutor_SendsParsedCommands(t *testing.T) {
	// Arrange
	mediator := helpers.NewMockMediator()
	executor := textcmd.NewExecutor(mediator)

	// Act
	result, err := executor.Execute(context.Background(), "s-1", "step 2")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "s-1", result.SessionID)
	assert.Equal(t, &appsim.StepCommand{SessionID: "s-1", Steps: 2}, mediator.LastRequest())
}

func TestExecutor_FileCommands(t *testing.T) {
	// Arrange
	mediator := helpers.NewMockMediator()
	files := memoryFiles{
		"config.json": []byte(`{"recipes": []}`),
		"mine.json":   []byte(`{"type": "mine"}`),
	}
	executor := textcmd.NewExecutor(mediator).WithFiles(files.read, files.write)
	ctx := context.Background()

	// Act
	_, loadErr := executor.Execute(ctx, "s-1", "load config.json")
	_, createErr := executor.Execute(ctx, "s-1", "create mine.json")
	_, saveErr := executor.Execute(ctx, "s-1", "save out.json")
	_, missingErr := executor.Execute(ctx, "s-1", "load nowhere.json")

	// Assert
	require.NoError(t, loadErr)
	require.NoError(t, createErr)
	require.NoError(t, saveErr)
	assert.Error(t, missingErr)

	requests := mediator.Requests()
	require.Len(t, requests, 3)
	assert.Equal(t, &appsim.LoadConfigCommand{SessionID: "s-1", Config: []byte(`{"recipes": []}`)}, requests[0])
	create, ok := requests[1].(*appsim.CreateBuildingCommand)
	require.True(t, ok)
	assert.JSONEq(t, `{"type": "mine"}`, string(create.Descriptor))
	assert.Equal(t, &appsim.GetSessionQuery{SessionID: "s-1"}, requests[2])
	assert.Equal(t, []byte(`{}`), files["out.json"])
}
