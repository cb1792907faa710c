package simulation_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorysim-go/internal/adapters/persistence"
	"github.com/andrescamacho/factorysim-go/internal/adapters/snapshot"
	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	"github.com/andrescamacho/factorysim-go/internal/domain/session"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
	domain "github.com/andrescamacho/factorysim-go/internal/domain/simulation"
	"github.com/andrescamacho/factorysim-go/test/helpers"
)

const hingeConfig = `{
  "recipes": [
    {"output": "metal", "latency": 1, "ingredients": {}},
    {"output": "hinge", "latency": 1, "ingredients": {"metal": 1}}
  ],
  "types": [{"name": "Hinge", "recipes": ["hinge"]}],
  "buildings": [
    {"name": "M", "mine": "metal", "coordinate": [0, 0]},
    {"name": "F", "type": "Hinge", "sources": ["M"], "coordinate": [0, 1]}
  ]
}`

type recordingObserver struct {
	events    []facility.Event
	snapshots int
}

func (o *recordingObserver) ObserveEvent(_ string, e facility.Event) {
	o.events = append(o.events, e)
}

func (o *recordingObserver) ObserveSimulation(string, *domain.Simulation) {
	o.snapshots++
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.messages = append(l.messages, level+" "+message)
}

func newMediator(t *testing.T) (common.Mediator, *recordingObserver) {
	t.Helper()
	db := helpers.NewTestDB(t)
	observer := &recordingObserver{}
	service := appsim.NewService(
		persistence.NewGormSessionRepository(db, nil),
		persistence.NewGormSessionEventRepository(db),
		snapshot.Codec{},
		domain.Options{},
		nil,
		observer,
	)
	m := common.NewMediator()
	m.Use(common.LoggingMiddleware())
	require.NoError(t, appsim.RegisterHandlers(m, service))
	return m, observer
}

func newSession(t *testing.T, m common.Mediator, config string) string {
	t.Helper()
	resp, err := m.Send(context.Background(), &appsim.NewSessionCommand{Name: "hinges", Config: []byte(config)})
	require.NoError(t, err)
	result := resp.(*appsim.SessionResult)
	require.NotEmpty(t, result.SessionID)
	return result.SessionID
}

func TestSessionCommands_RequestThenFinish(t *testing.T) {
	// Arrange
	m, observer := newMediator(t)
	id := newSession(t, m, hingeConfig)
	ctx := context.Background()

	// Act
	resp, err := m.Send(ctx, &appsim.RequestCommand{SessionID: id, Building: "F", Output: "hinge"})
	require.NoError(t, err)
	requested := resp.(*appsim.SessionResult)
	resp, err = m.Send(ctx, &appsim.FinishCommand{SessionID: id})
	require.NoError(t, err)
	finished := resp.(*appsim.SessionResult)

	// Assert
	assert.Equal(t, 0, requested.Value)
	assert.Equal(t, 2, finished.Value)
	assert.Equal(t, 2, finished.Cycle)
	require.NotEmpty(t, finished.Output)
	assert.Equal(t, "Simulation completed at time-step 2", finished.Output[len(finished.Output)-1])
	assert.Len(t, observer.events, 3)
	assert.Equal(t, 3, observer.snapshots, "new session, request and finish")

	doc, err := snapshot.Parse(finished.Document)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Cycle)
}

func TestSessionCommands_StateSurvivesBetweenCommands(t *testing.T) {
	// Arrange
	m, _ := newMediator(t)
	id := newSession(t, m, hingeConfig)
	ctx := context.Background()
	_, err := m.Send(ctx, &appsim.RequestCommand{SessionID: id, Building: "F", Output: "hinge"})
	require.NoError(t, err)

	// Act
	_, err = m.Send(ctx, &appsim.StepCommand{SessionID: id, Steps: 1})
	require.NoError(t, err)
	resp, err := m.Send(ctx, &appsim.StepCommand{SessionID: id, Steps: 1})
	require.NoError(t, err)

	// Assert
	result := resp.(*appsim.SessionResult)
	assert.Equal(t, 2, result.Cycle)
	assert.Contains(t, result.Output, "[order complete] Order 0 completed (hinge) at time 2")
}

func TestSessionCommands_FailedCommandDoesNotSave(t *testing.T) {
	// Arrange
	m, _ := newMediator(t)
	id := newSession(t, m, hingeConfig)
	ctx := context.Background()
	logger := &recordingLogger{}

	// Act
	_, err := m.Send(common.WithLogger(ctx, logger), &appsim.RequestCommand{SessionID: id, Building: "F", Output: "gear"})

	// Assert
	var ref *shared.InvalidReferenceError
	require.True(t, errors.As(err, &ref))
	assert.Equal(t, []string{"ERROR request failed"}, logger.messages)

	resp, err := m.Send(ctx, &appsim.GetSessionQuery{SessionID: id})
	require.NoError(t, err)
	doc, err := snapshot.Parse(resp.(*appsim.SessionResult).Document)
	require.NoError(t, err)
	assert.Zero(t, doc.RequestID)
}

func TestSessionCommands_VerbosityIsKeptWithTheSession(t *testing.T) {
	// Arrange
	m, observer := newMediator(t)
	id := newSession(t, m, hingeConfig)
	ctx := context.Background()

	// Act
	_, err := m.Send(ctx, &appsim.SetVerbosityCommand{SessionID: id, Level: 3})
	require.Error(t, err)
	_, err = m.Send(ctx, &appsim.SetVerbosityCommand{SessionID: id, Level: 1})
	require.NoError(t, err)
	_, err = m.Send(ctx, &appsim.RequestCommand{SessionID: id, Building: "F", Output: "hinge"})
	require.NoError(t, err)
	_, err = m.Send(ctx, &appsim.FinishCommand{SessionID: id})
	require.NoError(t, err)

	// Assert
	kinds := map[facility.EventKind]int{}
	for _, e := range observer.events {
		kinds[e.Kind]++
	}
	assert.Equal(t, 1, kinds[facility.EventIngredientAssignment])
	assert.Equal(t, 1, kinds[facility.EventIngredientDelivered])
}

func TestSessionCommands_GraphEditsAndQueries(t *testing.T) {
	// Arrange
	m, _ := newMediator(t)
	id := newSession(t, m, hingeConfig)
	ctx := context.Background()
	descriptor := json.RawMessage(`{"type": "mine", "name": "M2", "info": {"mine": "metal", "coordinate": [4, 1]}}`)

	// Act
	created, err := m.Send(ctx, &appsim.CreateBuildingCommand{SessionID: id, Descriptor: descriptor})
	require.NoError(t, err)
	connected, err := m.Send(ctx, &appsim.ConnectCommand{SessionID: id, Source: "M2", Destination: "F"})
	require.NoError(t, err)
	upstream, err := m.Send(ctx, &appsim.UpstreamQuery{SessionID: id, Building: "F"})
	require.NoError(t, err)
	_, err = m.Send(ctx, &appsim.DisconnectCommand{SessionID: id, Source: "M2", Destination: "F"})
	require.NoError(t, err)
	removed, err := m.Send(ctx, &appsim.RemoveBuildingCommand{SessionID: id, Building: "M2"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "M2", created.(*appsim.SessionResult).Value)
	assert.Equal(t, 3, connected.(*appsim.SessionResult).Value)
	assert.ElementsMatch(t, []string{"M", "M2"}, upstream.(*appsim.SessionResult).Value)
	assert.Equal(t, true, removed.(*appsim.SessionResult).Value)

	resp, err := m.Send(ctx, &appsim.GetSessionQuery{SessionID: id})
	require.NoError(t, err)
	doc, err := snapshot.Parse(resp.(*appsim.SessionResult).Document)
	require.NoError(t, err)
	assert.Len(t, doc.Buildings, 2)
}

func TestSessionCommands_PoliciesByScope(t *testing.T) {
	// Arrange
	m, _ := newMediator(t)
	id := newSession(t, m, hingeConfig)
	ctx := context.Background()

	// Act
	_, errBuilding := m.Send(ctx, &appsim.SetPolicyCommand{SessionID: id, Kind: appsim.RequestPolicyKind, Policy: "sjf", Scope: appsim.ScopeBuilding, Building: "F"})
	_, errAll := m.Send(ctx, &appsim.SetPolicyCommand{SessionID: id, Kind: appsim.SourcePolicyKind, Policy: "simplelat", Scope: appsim.ScopeAll})
	_, errUnknown := m.Send(ctx, &appsim.SetPolicyCommand{SessionID: id, Kind: appsim.SourcePolicyKind, Policy: "nearest", Scope: appsim.ScopeDefault})

	// Assert
	require.NoError(t, errBuilding)
	require.NoError(t, errAll)
	var ref *shared.InvalidReferenceError
	assert.True(t, errors.As(errUnknown, &ref))

	resp, err := m.Send(ctx, &appsim.GetSessionQuery{SessionID: id})
	require.NoError(t, err)
	doc, err := snapshot.Parse(resp.(*appsim.SessionResult).Document)
	require.NoError(t, err)
	for _, b := range doc.Buildings {
		if b.Name == "F" {
			assert.Equal(t, "sjf", b.RequestPolicy)
			assert.Equal(t, "simplelat", b.SourcePolicy)
		}
	}
}

func TestSessionCommands_ListLoadAndDelete(t *testing.T) {
	// Arrange
	m, _ := newMediator(t)
	ctx := context.Background()
	blank := newSession(t, m, "")

	// Act
	loaded, err := m.Send(ctx, &appsim.LoadConfigCommand{SessionID: blank, Config: []byte(hingeConfig)})
	require.NoError(t, err)
	listed, err := m.Send(ctx, &appsim.ListSessionsQuery{})
	require.NoError(t, err)
	_, err = m.Send(ctx, &appsim.DeleteSessionCommand{SessionID: blank})
	require.NoError(t, err)
	_, err = m.Send(ctx, &appsim.StepCommand{SessionID: blank, Steps: 1})

	// Assert
	doc, parseErr := snapshot.Parse(loaded.(*appsim.SessionResult).Document)
	require.NoError(t, parseErr)
	assert.Len(t, doc.Buildings, 2)
	require.Len(t, listed.([]appsim.SessionSummary), 1)
	assert.Equal(t, "hinges", listed.([]appsim.SessionSummary)[0].Name)
	var notFound *session.ErrSessionNotFound
	assert.True(t, errors.As(err, &notFound))
}
