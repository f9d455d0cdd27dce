package controller

import (
	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/pkg/serverutils"
	"edu-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Rate(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	Unshare(ctx *fiber.Ctx) error
	SharedView(ctx *fiber.Ctx) error
}

type conversationController struct {
	service service.IConversationService
}

func NewConversationController(service service.IConversationService) IConversationController {
	return &conversationController{service: service}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	// The shared view is public by design; everything else needs a session.
	r.Get("/share/v1/:sharedUrlId", c.SharedView)

	h := r.Group("/conversation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Start)
	h.Post(":urlId/messages", c.Send)
	h.Get(":urlId/messages", c.Messages)
	h.Patch(":urlId", c.Rename)
	h.Delete(":urlId", c.Delete)
	h.Post(":urlId/rate", c.Rate)
	h.Post(":urlId/share", c.Share)
	h.Delete(":urlId/share", c.Unshare)
}

func (c *conversationController) Start(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.StartConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success start conversation", res))
}

func (c *conversationController) Send(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.Context(), userId, urlId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *conversationController) Messages(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	res, err := c.service.FetchMessages(ctx.Context(), service.FetchAsOwner, userId, urlId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *conversationController) Rename(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	var req dto.RenameConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Rename(ctx.Context(), userId, urlId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rename conversation", res))
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	if err := c.service.Delete(ctx.Context(), userId, urlId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversation", nil))
}

func (c *conversationController) Rate(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	var req dto.RateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RateMessage(ctx.Context(), userId, urlId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success rate message", nil))
}

func (c *conversationController) Share(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	res, err := c.service.Share(ctx.Context(), userId, urlId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success share conversation", res))
}

func (c *conversationController) Unshare(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	urlId := ctx.Params("urlId")

	if err := c.service.Unshare(ctx.Context(), userId, urlId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success unshare conversation", nil))
}

func (c *conversationController) SharedView(ctx *fiber.Ctx) error {
	sharedUrlId := ctx.Params("sharedUrlId")

	res, err := c.service.GetSharedView(ctx.Context(), sharedUrlId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get shared conversation", res))
}
