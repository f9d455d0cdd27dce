package controller

import (
	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/pkg/serverutils"
	"edu-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	LtiLaunch(ctx *fiber.Ctx) error
	Exchange(ctx *fiber.Ctx) error
	AdminLogin(ctx *fiber.Ctx) error
	AcceptTerms(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/lti", c.LtiLaunch)
	h.Post("/exchange", c.Exchange)
	h.Post("/login", c.AdminLogin)

	protected := h.Group("", serverutils.JwtMiddleware)
	protected.Post("/accept-terms", c.AcceptTerms)
	protected.Get("/me", c.Me)
}

func (c *authController) LtiLaunch(ctx *fiber.Ctx) error {
	var req dto.LtiLaunchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	token, err := c.service.LtiLaunch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success launch", fiber.Map{"launch_token": token}))
}

func (c *authController) Exchange(ctx *fiber.Ctx) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ExchangeLaunchToken(ctx.Context(), req.Token)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success exchange token", res))
}

func (c *authController) AdminLogin(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AdminLogin(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login", res))
}

func (c *authController) AcceptTerms(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.service.AcceptTerms(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success accept terms", res))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.service.Me(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func currentModuleId(ctx *fiber.Ctx) uuid.UUID {
	moduleIdStr, _ := ctx.Locals("module_id").(string)
	moduleId, _ := uuid.Parse(moduleIdStr)
	return moduleId
}
