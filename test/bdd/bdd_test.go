package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/factorysim-go/test/bdd/steps"
)

// TestFeatures runs every feature file. BDD_TAGS narrows the run, e.g. BDD_TAGS=@policies.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "factorysim",
		ScenarioInitializer: steps.InitializeSessionScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"features/application", "features/adapters"},
			Tags:     os.Getenv("BDD_TAGS"),
			Strict:   true,
			TestingT: t,
		},
	}

	if status := suite.Run(); status != 0 {
		t.Fatalf("feature run failed with status %d", status)
	}
}
