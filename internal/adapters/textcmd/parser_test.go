package textcmd_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/adapters/textcmd"
	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
)

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		line string
		want common.Request
	}{
		{"request 'door' from 'D'", &appsim.RequestCommand{SessionID: "s", Output: "door", Building: "D"}},
		{"request 'steel door' from 'Door Shop'", &appsim.RequestCommand{SessionID: "s", Output: "steel door", Building: "Door Shop"}},
		{"step 3", &appsim.StepCommand{SessionID: "s", Steps: 3}},
		{"step  -1", &appsim.StepCommand{SessionID: "s", Steps: -1}},
		{"finish", &appsim.FinishCommand{SessionID: "s"}},
		{"verbose 2", &appsim.SetVerbosityCommand{SessionID: "s", Level: 2}},
		{"set policy request 'sjf' on 'D'", &appsim.SetPolicyCommand{SessionID: "s", Kind: appsim.RequestPolicyKind, Policy: "sjf", Scope: appsim.ScopeBuilding, Building: "D"}},
		{"set policy source 'qlen' on *", &appsim.SetPolicyCommand{SessionID: "s", Kind: appsim.SourcePolicyKind, Policy: "qlen", Scope: appsim.ScopeAll}},
		{"set policy source 'recursivelat' on default", &appsim.SetPolicyCommand{SessionID: "s", Kind: appsim.SourcePolicyKind, Policy: "recursivelat", Scope: appsim.ScopeDefault}},
		{"connect 'M' to 'D'", &appsim.ConnectCommand{SessionID: "s", Source: "M", Destination: "D"}},
		{"disconnect 'M' to 'D'", &appsim.DisconnectCommand{SessionID: "s", Source: "M", Destination: "D"}},
		{"add_drone at 'P'", &appsim.AddDroneCommand{SessionID: "s", Port: "P"}},
		{"remove 'D'", &appsim.RemoveBuildingCommand{SessionID: "s", Building: "D"}},
		{"save out.json", &textcmd.SaveCommand{SessionID: "s", Path: "out.json"}},
		{"load in.json", &textcmd.LoadCommand{SessionID: "s", Path: "in.json"}},
		{"create mine.json", &textcmd.CreateFromFileCommand{SessionID: "s", Path: "mine.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := textcmd.Parse("s", tt.line)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_InlineDescriptor(t *testing.T) {
	line := `create {"type": "mine", "name": "Joe's mine", "info": {"mine": "metal", "coordinate": [1, 2]}}`

	got, err := textcmd.Parse("s", line)

	require.NoError(t, err)
	cmd, ok := got.(*appsim.CreateBuildingCommand)
	require.True(t, ok)
	var d map[string]interface{}
	require.NoError(t, json.Unmarshal(cmd.Descriptor, &d))
	assert.Equal(t, "Joe's mine", d["name"])
}

func TestParse_Rejects(t *testing.T) {
	lines := []string{
		"",
		"explode",
		"request door from 'D'",
		"request 'door' to 'D'",
		"request 'door' from 'D' now",
		"step",
		"step many",
		"finish now",
		"verbose 3",
		"verbose -1",
		"set policy request sjf on 'D'",
		"set policy sideways 'sjf' on 'D'",
		"set policy request 'sjf' on D",
		"connect 'M' 'D'",
		"add_drone 'P'",
		"add_drone at P",
		"remove D",
		"request 'door from 'D'",
		"request x'door' from 'D'",
		"request 'door'x from 'D'",
		"create {not json",
		"save",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := textcmd.Parse("s", line)

			var invalid *textcmd.ErrInvalidCommand
			require.True(t, errors.As(err, &invalid), "line %q", line)
			assert.Contains(t, err.Error(), "Invalid command")
		})
	}
}
