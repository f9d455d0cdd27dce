package service

import (
	"context"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/repository/specification"
	"edu-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	ListByModule(ctx context.Context, moduleId uuid.UUID) ([]*dto.UserResponse, error)
	// SetQuota changes the user's message allowance for the trailing
	// window. Zero disables chatting entirely.
	SetQuota(ctx context.Context, moduleId, userId uuid.UUID, maxRequests int) (*dto.UserResponse, error)
	UsageByModule(ctx context.Context, moduleId uuid.UUID) ([]*dto.UsageStatResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) ListByModule(ctx context.Context, moduleId uuid.UUID) ([]*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx,
		specification.ModuleOwnedBy{ModuleID: moduleId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserResponse, len(users))
	for i, user := range users {
		res[i] = mapUserResponse(user)
	}
	return res, nil
}

func (s *userService) SetQuota(ctx context.Context, moduleId, userId uuid.UUID, maxRequests int) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &dto.NotFoundError{Resource: "user"}
	}
	if user.ModuleId != moduleId {
		return nil, &dto.OwnershipError{Resource: "user"}
	}

	user.MaxRequests = maxRequests
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	return mapUserResponse(user), nil
}

func (s *userService) UsageByModule(ctx context.Context, moduleId uuid.UUID) ([]*dto.UsageStatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.UsageStatRepository().FindAllByModule(ctx, moduleId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UsageStatResponse, len(stats))
	for i, stat := range stats {
		res[i] = &dto.UsageStatResponse{
			UserId:           stat.UserId,
			Day:              stat.Day,
			PromptTokens:     stat.PromptTokens,
			CompletionTokens: stat.CompletionTokens,
		}
	}
	return res, nil
}
