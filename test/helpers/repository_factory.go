package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/factorysim-go/internal/adapters/persistence"
	"github.com/andrescamacho/factorysim-go/internal/adapters/snapshot"
	"github.com/andrescamacho/factorysim-go/internal/application/common"
	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
	domain "github.com/andrescamacho/factorysim-go/internal/domain/simulation"
	"github.com/andrescamacho/factorysim-go/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory session store that closes when t finishes
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to open session store: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// TestRepositories holds real session repositories over one test database
type TestRepositories struct {
	DB       *gorm.DB
	Sessions *persistence.GormSessionRepository
	Events   *persistence.GormSessionEventRepository
}

// NewTestRepositories creates the session repositories. A nil clock uses RealClock.
func NewTestRepositories(db *gorm.DB, clock shared.Clock) *TestRepositories {
	return &TestRepositories{
		DB:       db,
		Sessions: persistence.NewGormSessionRepository(db, clock),
		Events:   persistence.NewGormSessionEventRepository(db),
	}
}

// NewSessionMediator wires a session service with default options behind a mediator that logs
// failed requests
func (r *TestRepositories) NewSessionMediator(observer appsim.Observer) (common.Mediator, *appsim.Service, error) {
	service := appsim.NewService(r.Sessions, r.Events, snapshot.Codec{}, domain.Options{}, nil, observer)
	m := common.NewMediator()
	m.Use(common.LoggingMiddleware())
	if err := appsim.RegisterHandlers(m, service); err != nil {
		return nil, nil, err
	}
	return m, service, nil
}
