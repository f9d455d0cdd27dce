package controller

import (
	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/pkg/serverutils"
	"edu-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Activate(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type agentController struct {
	service service.IAgentService
}

func NewAgentController(service service.IAgentService) IAgentController {
	return &agentController{service: service}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Use(serverutils.JwtMiddleware, serverutils.AdminMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Put(":id", c.Update)
	h.Post(":id/activate", c.Activate)
	h.Delete(":id", c.Delete)
}

func (c *agentController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	moduleId := currentModuleId(ctx)

	var req dto.CreateAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), moduleId, userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create agent", res))
}

func (c *agentController) Update(ctx *fiber.Ctx) error {
	moduleId := currentModuleId(ctx)

	agentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid agent id"}
	}

	var req dto.UpdateAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), moduleId, agentId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update agent", res))
}

func (c *agentController) Activate(ctx *fiber.Ctx) error {
	moduleId := currentModuleId(ctx)

	agentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid agent id"}
	}

	res, err := c.service.Activate(ctx.Context(), moduleId, agentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success activate agent", res))
}

func (c *agentController) Delete(ctx *fiber.Ctx) error {
	moduleId := currentModuleId(ctx)

	agentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid agent id"}
	}

	if err := c.service.Delete(ctx.Context(), moduleId, agentId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete agent", nil))
}

func (c *agentController) List(ctx *fiber.Ctx) error {
	moduleId := currentModuleId(ctx)

	res, err := c.service.List(ctx.Context(), moduleId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get agents", res))
}
