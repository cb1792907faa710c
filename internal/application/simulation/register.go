package simulation

import (
	"github.com/andrescamacho/factorysim-go/internal/application/common"
)

// RegisterHandlers registers every session command and query with m
func RegisterHandlers(m common.Mediator, service *Service) error {
	actions := NewActionHandler(service)
	registrations := []func() error{
		func() error { return common.RegisterHandler[*RequestCommand](m, actions) },
		func() error { return common.RegisterHandler[*StepCommand](m, actions) },
		func() error { return common.RegisterHandler[*FinishCommand](m, actions) },
		func() error { return common.RegisterHandler[*SetVerbosityCommand](m, actions) },
		func() error { return common.RegisterHandler[*SetPolicyCommand](m, actions) },
		func() error { return common.RegisterHandler[*ConnectCommand](m, actions) },
		func() error { return common.RegisterHandler[*DisconnectCommand](m, actions) },
		func() error { return common.RegisterHandler[*AddDroneCommand](m, actions) },
		func() error { return common.RegisterHandler[*RemoveBuildingCommand](m, actions) },
		func() error { return common.RegisterHandler[*CreateBuildingCommand](m, actions) },
		func() error { return common.RegisterHandler[*UpstreamQuery](m, actions) },
		func() error { return common.RegisterHandler[*NewSessionCommand](m, NewNewSessionHandler(service)) },
		func() error { return common.RegisterHandler[*LoadConfigCommand](m, NewLoadConfigHandler(service)) },
		func() error { return common.RegisterHandler[*GetSessionQuery](m, NewGetSessionHandler(service)) },
		func() error { return common.RegisterHandler[*ListSessionsQuery](m, NewListSessionsHandler(service)) },
		func() error { return common.RegisterHandler[*DeleteSessionCommand](m, NewDeleteSessionHandler(service)) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
