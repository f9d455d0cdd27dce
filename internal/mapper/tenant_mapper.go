package mapper

import (
	"time"

	"edu-chat-be/internal/entity"
	"edu-chat-be/internal/model"

	"gorm.io/gorm"
)

type TenantMapper struct{}

func NewTenantMapper() *TenantMapper {
	return &TenantMapper{}
}

// Module Mappers

func (m *TenantMapper) ModuleToEntity(mod *model.Module) *entity.Module {
	if mod == nil {
		return nil
	}

	return &entity.Module{
		Id:                 mod.Id,
		Name:               mod.Name,
		ExternalRef:        mod.ExternalRef,
		DefaultTemperature: mod.DefaultTemperature,
		DefaultMaxTokens:   mod.DefaultMaxTokens,
		CreatedAt:          mod.CreatedAt,
		UpdatedAt:          optionalTime(mod.UpdatedAt),
		DeletedAt:          deletedAtToPtr(mod.DeletedAt),
		IsDeleted:          mod.DeletedAt.Valid,
	}
}

func (m *TenantMapper) ModuleToModel(mod *entity.Module) *model.Module {
	if mod == nil {
		return nil
	}

	return &model.Module{
		Id:                 mod.Id,
		Name:               mod.Name,
		ExternalRef:        mod.ExternalRef,
		DefaultTemperature: mod.DefaultTemperature,
		DefaultMaxTokens:   mod.DefaultMaxTokens,
		CreatedAt:          mod.CreatedAt,
		UpdatedAt:          timeOrZero(mod.UpdatedAt),
		DeletedAt:          ptrToDeletedAt(mod.DeletedAt, mod.IsDeleted),
	}
}

// User Mappers

func (m *TenantMapper) UserToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	return &entity.User{
		Id:              u.Id,
		ModuleId:        u.ModuleId,
		ExternalRef:     u.ExternalRef,
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		MaxRequests:     u.MaxRequests,
		IsAdmin:         u.IsAdmin,
		TermsAcceptedAt: u.TermsAcceptedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       optionalTime(u.UpdatedAt),
		DeletedAt:       deletedAtToPtr(u.DeletedAt),
		IsDeleted:       u.DeletedAt.Valid,
	}
}

func (m *TenantMapper) UserToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	return &model.User{
		Id:              u.Id,
		ModuleId:        u.ModuleId,
		ExternalRef:     u.ExternalRef,
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		MaxRequests:     u.MaxRequests,
		IsAdmin:         u.IsAdmin,
		TermsAcceptedAt: u.TermsAcceptedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       timeOrZero(u.UpdatedAt),
		DeletedAt:       ptrToDeletedAt(u.DeletedAt, u.IsDeleted),
	}
}

// Agent Mappers

func (m *TenantMapper) AgentToEntity(a *model.Agent) *entity.Agent {
	if a == nil {
		return nil
	}

	return &entity.Agent{
		Id:                 a.Id,
		ModuleId:           a.ModuleId,
		CreatedById:        a.CreatedById,
		Name:               a.Name,
		SystemInstructions: a.SystemInstructions,
		Model:              a.Model,
		ContextWindow:      a.ContextWindow,
		Temperature:        a.Temperature,
		MaxResponseTokens:  a.MaxResponseTokens,
		Active:             a.Active,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          optionalTime(a.UpdatedAt),
		DeletedAt:          deletedAtToPtr(a.DeletedAt),
		IsDeleted:          a.DeletedAt.Valid,
	}
}

func (m *TenantMapper) AgentToModel(a *entity.Agent) *model.Agent {
	if a == nil {
		return nil
	}

	return &model.Agent{
		Id:                 a.Id,
		ModuleId:           a.ModuleId,
		CreatedById:        a.CreatedById,
		Name:               a.Name,
		SystemInstructions: a.SystemInstructions,
		Model:              a.Model,
		ContextWindow:      a.ContextWindow,
		Temperature:        a.Temperature,
		MaxResponseTokens:  a.MaxResponseTokens,
		Active:             a.Active,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          timeOrZero(a.UpdatedAt),
		DeletedAt:          ptrToDeletedAt(a.DeletedAt, a.IsDeleted),
	}
}

// AuthToken Mappers

func (m *TenantMapper) AuthTokenToEntity(t *model.AuthToken) *entity.AuthToken {
	if t == nil {
		return nil
	}

	return &entity.AuthToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

func (m *TenantMapper) AuthTokenToModel(t *entity.AuthToken) *model.AuthToken {
	if t == nil {
		return nil
	}

	return &model.AuthToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

// Shared helpers

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	out := t
	return &out
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func deletedAtToPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func ptrToDeletedAt(t *time.Time, isDeleted bool) gorm.DeletedAt {
	if t != nil {
		return gorm.DeletedAt{Time: *t, Valid: true}
	}
	if isDeleted {
		return gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return gorm.DeletedAt{}
}
