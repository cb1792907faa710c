package steps

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/andrescamacho/factorysim-go/internal/adapters/snapshot"
	"github.com/andrescamacho/factorysim-go/internal/adapters/textcmd"
	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/database"
	"github.com/andrescamacho/factorysim-go/test/helpers"
)

// configurations scenarios can load by name
var configurations = map[string]string{
	"hinge": `{
  "recipes": [
    {"output": "metal", "latency": 1, "ingredients": {}},
    {"output": "hinge", "latency": 1, "ingredients": {"metal": 1}}
  ],
  "types": [{"name": "Hinge", "recipes": ["hinge"]}],
  "buildings": [
    {"name": "M", "mine": "metal", "coordinate": [0, 0]},
    {"name": "F", "type": "Hinge", "sources": ["M"], "coordinate": [0, 1]}
  ]
}`,
	"door": `{
  "recipes": [
    {"output": "metal", "latency": 1, "ingredients": {}},
    {"output": "hinge", "latency": 1, "ingredients": {"metal": 1}},
    {"output": "door", "latency": 1, "ingredients": {"hinge": 1}}
  ],
  "types": [
    {"name": "Hinge", "recipes": ["hinge"]},
    {"name": "Door", "recipes": ["door"]}
  ],
  "buildings": [
    {"name": "M", "mine": "metal", "coordinate": [0, 0]},
    {"name": "H", "type": "Hinge", "sources": ["M"], "coordinate": [0, 1]},
    {"name": "D", "type": "Door", "sources": ["H"], "coordinate": [0, 2]}
  ]
}`,
}

type sessionContext struct {
	db        *gorm.DB
	mediator  common.Mediator
	executor  *textcmd.Executor
	files     map[string][]byte
	sessionID string
	result    *appsim.SessionResult
	err       error
	output    []string
}

func (sc *sessionContext) reset() error {
	if sc.db != nil {
		database.Close(sc.db)
	}
	db, err := database.NewTestConnection()
	if err != nil {
		return err
	}
	m, _, err := helpers.NewTestRepositories(db, nil).NewSessionMediator(nil)
	if err != nil {
		return err
	}

	sc.db = db
	sc.mediator = m
	sc.files = map[string][]byte{}
	sc.executor = textcmd.NewExecutor(m).WithFiles(
		func(path string) ([]byte, error) {
			data, ok := sc.files[path]
			if !ok {
				return nil, fmt.Errorf("no such file: %s", path)
			}
			return data, nil
		},
		func(path string, data []byte) error {
			sc.files[path] = data
			return nil
		},
	)
	sc.sessionID = ""
	sc.result = nil
	sc.err = nil
	sc.output = nil
	return nil
}

// Given steps

func (sc *sessionContext) aSessionLoadedWithTheConfiguration(name string) error {
	config, ok := configurations[name]
	if !ok {
		return fmt.Errorf("unknown configuration '%s'", name)
	}
	return sc.createSession([]byte(config))
}

func (sc *sessionContext) anEmptySession() error {
	return sc.createSession(nil)
}

func (sc *sessionContext) createSession(config []byte) error {
	resp, err := sc.mediator.Send(context.Background(), &appsim.NewSessionCommand{Name: "scenario", Config: config})
	if err != nil {
		return err
	}
	sc.sessionID = resp.(*appsim.SessionResult).SessionID
	return nil
}

func (sc *sessionContext) aFileContaining(path string, content *godog.DocString) error {
	sc.files[path] = []byte(content.Content)
	return nil
}

func (sc *sessionContext) aFileHoldingTheConfiguration(path, name string) error {
	config, ok := configurations[name]
	if !ok {
		return fmt.Errorf("unknown configuration '%s'", name)
	}
	sc.files[path] = []byte(config)
	return nil
}

// When steps

func (sc *sessionContext) iRun(line string) error {
	sc.result, sc.err = sc.executor.Execute(context.Background(), sc.sessionID, line)
	if sc.err == nil {
		sc.output = append(sc.output, sc.result.Output...)
	}
	return nil
}

func (sc *sessionContext) iRunTheCommands(commands *godog.DocString) error {
	for _, line := range strings.Split(commands.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := sc.iRun(line); err != nil {
			return err
		}
		if sc.err != nil {
			return fmt.Errorf("command %q failed: %v", line, sc.err)
		}
	}
	return nil
}

// Then steps

func (sc *sessionContext) theCommandShouldSucceed() error {
	if sc.err != nil {
		return fmt.Errorf("expected the command to succeed, got error: %v", sc.err)
	}
	return nil
}

func (sc *sessionContext) theCommandShouldFailWith(expected string) error {
	if sc.err == nil {
		return fmt.Errorf("expected the command to fail with '%s', but it succeeded", expected)
	}
	if !strings.Contains(sc.err.Error(), expected) {
		return fmt.Errorf("expected error containing '%s', got '%s'", expected, sc.err.Error())
	}
	return nil
}

func (sc *sessionContext) theOutputShouldContain(expected string) error {
	for _, line := range sc.output {
		if line == expected {
			return nil
		}
	}
	return fmt.Errorf("expected output line '%s', got:\n%s", expected, strings.Join(sc.output, "\n"))
}

func (sc *sessionContext) theLastOutputLineShouldBe(expected string) error {
	if len(sc.output) == 0 {
		return fmt.Errorf("expected last output line '%s', but there was no output", expected)
	}
	if last := sc.output[len(sc.output)-1]; last != expected {
		return fmt.Errorf("expected last output line '%s', got '%s'", expected, last)
	}
	return nil
}

func (sc *sessionContext) theResultValueShouldBe(expected string) error {
	if err := sc.theCommandShouldSucceed(); err != nil {
		return err
	}
	if actual := fmt.Sprint(sc.result.Value); actual != expected {
		return fmt.Errorf("expected result value %s, got %s", expected, actual)
	}
	return nil
}

func (sc *sessionContext) theSessionShouldBeAtTimeStep(expected int) error {
	doc, err := sc.document()
	if err != nil {
		return err
	}
	if doc.Cycle != expected {
		return fmt.Errorf("expected time-step %d, got %d", expected, doc.Cycle)
	}
	return nil
}

func (sc *sessionContext) theSessionShouldHaveBuildings(expected int) error {
	doc, err := sc.document()
	if err != nil {
		return err
	}
	if len(doc.Buildings) != expected {
		return fmt.Errorf("expected %d buildings, got %d", expected, len(doc.Buildings))
	}
	return nil
}

func (sc *sessionContext) buildingShouldUsePolicy(name, kind, expected string) error {
	doc, err := sc.document()
	if err != nil {
		return err
	}
	for _, b := range doc.Buildings {
		if b.Name != name {
			continue
		}
		actual := b.RequestPolicy
		if kind == "source" {
			actual = b.SourcePolicy
		}
		if actual != expected {
			return fmt.Errorf("expected %s policy '%s' on '%s', got '%s'", kind, expected, name, actual)
		}
		return nil
	}
	return fmt.Errorf("building '%s' not found", name)
}

func (sc *sessionContext) theUpstreamOfShouldBe(name, expected string) error {
	resp, err := sc.mediator.Send(context.Background(), &appsim.UpstreamQuery{SessionID: sc.sessionID, Building: name})
	if err != nil {
		return err
	}
	names, _ := resp.(*appsim.SessionResult).Value.([]string)
	actual := append([]string(nil), names...)
	sort.Strings(actual)
	want := strings.Split(expected, ", ")
	if expected == "" {
		want = nil
	}
	sort.Strings(want)
	if strings.Join(actual, ",") != strings.Join(want, ",") {
		return fmt.Errorf("expected upstream [%s], got [%s]", strings.Join(want, ", "), strings.Join(actual, ", "))
	}
	return nil
}

func (sc *sessionContext) theFileShouldHoldASnapshotAtTimeStep(path string, expected int) error {
	data, ok := sc.files[path]
	if !ok {
		return fmt.Errorf("file '%s' was not written", path)
	}
	doc, err := snapshot.Parse(data)
	if err != nil {
		return err
	}
	if doc.Cycle != expected {
		return fmt.Errorf("expected saved time-step %d, got %d", expected, doc.Cycle)
	}
	return nil
}

func (sc *sessionContext) document() (*snapshot.Document, error) {
	resp, err := sc.mediator.Send(context.Background(), &appsim.GetSessionQuery{SessionID: sc.sessionID})
	if err != nil {
		return nil, err
	}
	return snapshot.Parse(resp.(*appsim.SessionResult).Document)
}

func InitializeSessionScenario(ctx *godog.ScenarioContext) {
	sc := &sessionContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, sc.reset()
	})
	ctx.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		if sc.db != nil {
			database.Close(sc.db)
			sc.db = nil
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a session loaded with the "([^"]*)" configuration$`, sc.aSessionLoadedWithTheConfiguration)
	ctx.Step(`^an empty session$`, sc.anEmptySession)
	ctx.Step(`^a file "([^"]*)" containing:$`, sc.aFileContaining)
	ctx.Step(`^a file "([^"]*)" holding the "([^"]*)" configuration$`, sc.aFileHoldingTheConfiguration)

	// When steps
	ctx.Step(`^I run "(.*)"$`, sc.iRun)
	ctx.Step(`^I run the commands:$`, sc.iRunTheCommands)

	// Then steps
	ctx.Step(`^the command should succeed$`, sc.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "(.*)"$`, sc.theCommandShouldFailWith)
	ctx.Step(`^the output should contain "(.*)"$`, sc.theOutputShouldContain)
	ctx.Step(`^the last output line should be "(.*)"$`, sc.theLastOutputLineShouldBe)
	ctx.Step(`^the result value should be "(.*)"$`, sc.theResultValueShouldBe)
	ctx.Step(`^the session should be at time-step (\d+)$`, sc.theSessionShouldBeAtTimeStep)
	ctx.Step(`^the session should have (\d+) buildings$`, sc.theSessionShouldHaveBuildings)
	ctx.Step(`^building "([^"]*)" should use (request|source) policy "([^"]*)"$`, sc.buildingShouldUsePolicy)
	ctx.Step(`^the upstream of "([^"]*)" should be "([^"]*)"$`, sc.theUpstreamOfShouldBe)
	ctx.Step(`^the file "([^"]*)" should hold a snapshot at time-step (\d+)$`, sc.theFileShouldHoldASnapshotAtTimeStep)
}
