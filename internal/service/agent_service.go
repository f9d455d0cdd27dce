package service

import (
	"context"
	"time"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/pkg/logger"
	"edu-chat-be/internal/repository/specification"
	"edu-chat-be/internal/repository/unitofwork"
	"edu-chat-be/pkg/upstream"

	"github.com/google/uuid"
)

type IAgentService interface {
	Create(ctx context.Context, moduleId, createdBy uuid.UUID, req *dto.CreateAgentRequest) (*dto.AgentResponse, error)
	Update(ctx context.Context, moduleId, agentId uuid.UUID, req *dto.UpdateAgentRequest) (*dto.AgentResponse, error)
	// Activate makes the agent the module's active one, deactivating any
	// other agent of the module first.
	Activate(ctx context.Context, moduleId, agentId uuid.UUID) (*dto.AgentResponse, error)
	Delete(ctx context.Context, moduleId, agentId uuid.UUID) error
	List(ctx context.Context, moduleId uuid.UUID) ([]*dto.AgentResponse, error)
}

type agentService struct {
	uowFactory     unitofwork.RepositoryFactory
	upstreamClient *upstream.Client
	log            logger.ILogger
}

func NewAgentService(uowFactory unitofwork.RepositoryFactory, upstreamClient *upstream.Client, log logger.ILogger) IAgentService {
	return &agentService{
		uowFactory:     uowFactory,
		upstreamClient: upstreamClient,
		log:            log,
	}
}

func (s *agentService) Create(ctx context.Context, moduleId, createdBy uuid.UUID, req *dto.CreateAgentRequest) (*dto.AgentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.AgentRepository().FindOne(ctx, specification.ByName{Name: req.Name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &dto.ConflictError{Message: "an agent with this name already exists"}
	}

	agent := entity.Agent{
		Id:                 uuid.New(),
		ModuleId:           moduleId,
		CreatedById:        &createdBy,
		Name:               req.Name,
		SystemInstructions: req.SystemInstructions,
		ContextWindow:      req.ContextWindow,
		Temperature:        req.Temperature,
		MaxResponseTokens:  req.MaxResponseTokens,
		CreatedAt:          time.Now(),
	}
	if agent.ContextWindow == 0 {
		agent.ContextWindow = 5
	}
	if agent.MaxResponseTokens == 0 {
		agent.MaxResponseTokens = 1024
	}

	if err := uow.AgentRepository().Create(ctx, &agent); err != nil {
		return nil, err
	}

	// Mirroring is best effort: the local agent exists either way and
	// the admin can retry the mirror later.
	if req.MirrorUpstream && s.upstreamClient != nil {
		remoteId, err := s.upstreamClient.CreateAgent(ctx, upstream.Agent{
			Name:               agent.Name,
			SystemInstructions: agent.SystemInstructions,
			Temperature:        agent.Temperature,
			MaxResponseTokens:  agent.MaxResponseTokens,
		})
		if err != nil {
			s.log.Warn("agent", "failed to mirror agent upstream", map[string]interface{}{
				"agent_id": agent.Id.String(),
				"error":    err.Error(),
			})
		} else {
			s.log.Info("agent", "agent mirrored upstream", map[string]interface{}{
				"agent_id":  agent.Id.String(),
				"remote_id": remoteId,
			})
		}
	}

	return mapAgentResponse(&agent), nil
}

func (s *agentService) Update(ctx context.Context, moduleId, agentId uuid.UUID, req *dto.UpdateAgentRequest) (*dto.AgentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	agent, err := s.findOwned(ctx, uow, moduleId, agentId)
	if err != nil {
		return nil, err
	}

	if req.SystemInstructions != nil {
		agent.SystemInstructions = *req.SystemInstructions
	}
	if req.ContextWindow != nil {
		agent.ContextWindow = *req.ContextWindow
	}
	if req.Temperature != nil {
		agent.Temperature = *req.Temperature
	}
	if req.MaxResponseTokens != nil {
		agent.MaxResponseTokens = *req.MaxResponseTokens
	}

	if err := uow.AgentRepository().Update(ctx, agent); err != nil {
		return nil, err
	}
	return mapAgentResponse(agent), nil
}

func (s *agentService) Activate(ctx context.Context, moduleId, agentId uuid.UUID) (*dto.AgentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	agent, err := s.findOwned(ctx, uow, moduleId, agentId)
	if err != nil {
		return nil, err
	}

	if err := uow.AgentRepository().DeactivateAllByModule(ctx, moduleId); err != nil {
		return nil, err
	}
	agent.Active = true
	if err := uow.AgentRepository().Update(ctx, agent); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return mapAgentResponse(agent), nil
}

func (s *agentService) Delete(ctx context.Context, moduleId, agentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	agent, err := s.findOwned(ctx, uow, moduleId, agentId)
	if err != nil {
		return err
	}
	if agent.Active {
		return &dto.ConflictError{Message: "the active agent cannot be deleted"}
	}
	return uow.AgentRepository().Delete(ctx, agent.Id)
}

func (s *agentService) List(ctx context.Context, moduleId uuid.UUID) ([]*dto.AgentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	agents, err := uow.AgentRepository().FindAll(ctx,
		specification.ModuleOwnedBy{ModuleID: moduleId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AgentResponse, len(agents))
	for i, agent := range agents {
		res[i] = mapAgentResponse(agent)
	}
	return res, nil
}

func (s *agentService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, moduleId, agentId uuid.UUID) (*entity.Agent, error) {
	agent, err := uow.AgentRepository().FindOne(ctx, specification.ByID{ID: agentId})
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, &dto.NotFoundError{Resource: "agent"}
	}
	if agent.ModuleId != moduleId {
		return nil, &dto.OwnershipError{Resource: "agent"}
	}
	return agent, nil
}

func mapAgentResponse(agent *entity.Agent) *dto.AgentResponse {
	return &dto.AgentResponse{
		Id:                 agent.Id,
		Name:               agent.Name,
		SystemInstructions: agent.SystemInstructions,
		ContextWindow:      agent.ContextWindow,
		Temperature:        agent.Temperature,
		MaxResponseTokens:  agent.MaxResponseTokens,
		Active:             agent.Active,
		CreatedAt:          agent.CreatedAt,
	}
}
