package controller

import (
	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/pkg/serverutils"
	"edu-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListUsers(ctx *fiber.Ctx) error
	SetUserQuota(ctx *fiber.Ctx) error
	Usage(ctx *fiber.Ctx) error
	ConversationMessages(ctx *fiber.Ctx) error
	Validate(ctx *fiber.Ctx) error
	Sync(ctx *fiber.Ctx) error
}

type adminController struct {
	userService         service.IUserService
	conversationService service.IConversationService
	syncService         service.ISyncService
}

func NewAdminController(
	userService service.IUserService,
	conversationService service.IConversationService,
	syncService service.ISyncService,
) IAdminController {
	return &adminController{
		userService:         userService,
		conversationService: conversationService,
		syncService:         syncService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware, serverutils.AdminMiddleware)
	h.Get("/users", c.ListUsers)
	h.Put("/users/:id/quota", c.SetUserQuota)
	h.Get("/usage", c.Usage)
	h.Get("/conversations/:urlId/messages", c.ConversationMessages)
	h.Get("/store/validate", c.Validate)
	h.Post("/store/sync", c.Sync)
}

func (c *adminController) ListUsers(ctx *fiber.Ctx) error {
	moduleId := currentModuleId(ctx)

	res, err := c.userService.ListByModule(ctx.Context(), moduleId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get users", res))
}

func (c *adminController) SetUserQuota(ctx *fiber.Ctx) error {
	moduleId := currentModuleId(ctx)

	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid user id"}
	}

	var req dto.SetUserQuotaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.SetQuota(ctx.Context(), moduleId, userId, req.MaxRequests)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set quota", res))
}

func (c *adminController) Usage(ctx *fiber.Ctx) error {
	moduleId := currentModuleId(ctx)

	res, err := c.userService.UsageByModule(ctx.Context(), moduleId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get usage", res))
}

func (c *adminController) ConversationMessages(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	res, err := c.conversationService.FetchMessages(ctx.Context(), service.FetchAsAdmin, userId, urlId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *adminController) Validate(ctx *fiber.Ctx) error {
	res, err := c.syncService.Validate(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success validate stores", res))
}

func (c *adminController) Sync(ctx *fiber.Ctx) error {
	res, err := c.syncService.Sync(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success sync stores", res))
}
