package simulation

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
)

// ActionHandler runs every SessionCommand through the session service
type ActionHandler struct {
	service *Service
}

func NewActionHandler(service *Service) *ActionHandler {
	return &ActionHandler{service: service}
}

func (h *ActionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(SessionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return h.service.Run(ctx, cmd.Session(), cmd)
}

type NewSessionHandler struct {
	service *Service
}

func NewNewSessionHandler(service *Service) *NewSessionHandler {
	return &NewSessionHandler{service: service}
}

func (h *NewSessionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*NewSessionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return h.service.Create(ctx, cmd.Name, cmd.Config)
}

type LoadConfigHandler struct {
	service *Service
}

func NewLoadConfigHandler(service *Service) *LoadConfigHandler {
	return &LoadConfigHandler{service: service}
}

func (h *LoadConfigHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*LoadConfigCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return h.service.Replace(ctx, cmd.SessionID, cmd.Config)
}

type GetSessionHandler struct {
	service *Service
}

func NewGetSessionHandler(service *Service) *GetSessionHandler {
	return &GetSessionHandler{service: service}
}

func (h *GetSessionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetSessionQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return h.service.Get(ctx, query.SessionID, query.EventLimit)
}

type ListSessionsHandler struct {
	service *Service
}

func NewListSessionsHandler(service *Service) *ListSessionsHandler {
	return &ListSessionsHandler{service: service}
}

func (h *ListSessionsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListSessionsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	sessions, err := h.service.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, SessionSummary{ID: s.ID, Name: s.Name, Cycle: s.Cycle, UpdatedAt: s.UpdatedAt})
	}
	return summaries, nil
}

type DeleteSessionHandler struct {
	service *Service
}

func NewDeleteSessionHandler(service *Service) *DeleteSessionHandler {
	return &DeleteSessionHandler{service: service}
}

func (h *DeleteSessionHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteSessionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if err := h.service.Delete(ctx, cmd.SessionID); err != nil {
		return nil, err
	}
	return nil, nil
}
