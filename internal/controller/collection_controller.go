package controller

import (
	"io"

	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/pkg/serverutils"
	"edu-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICollectionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ListDocuments(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	DeleteDocument(ctx *fiber.Ctx) error
}

type collectionController struct {
	collectionService service.ICollectionService
	embeddingService  service.IEmbeddingService
}

func NewCollectionController(collectionService service.ICollectionService, embeddingService service.IEmbeddingService) ICollectionController {
	return &collectionController{
		collectionService: collectionService,
		embeddingService:  embeddingService,
	}
}

func (c *collectionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/collection/v1")
	h.Use(serverutils.JwtMiddleware, serverutils.AdminMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Delete(":name", c.Delete)
	h.Get(":name/documents", c.ListDocuments)
	h.Post(":name/documents", c.Upload)
	h.Delete("documents/:id", c.DeleteDocument)
}

func (c *collectionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateCollectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.collectionService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create collection", res))
}

func (c *collectionController) Delete(ctx *fiber.Ctx) error {
	if err := c.collectionService.Delete(ctx.Context(), ctx.Params("name")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete collection", nil))
}

func (c *collectionController) List(ctx *fiber.Ctx) error {
	res, err := c.collectionService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get collections", res))
}

func (c *collectionController) ListDocuments(ctx *fiber.Ctx) error {
	res, err := c.collectionService.ListDocuments(ctx.Context(), ctx.Params("name"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

func (c *collectionController) Upload(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return &dto.ValidationError{Message: "a file upload is required"}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.embeddingService.Ingest(
		ctx.Context(),
		ctx.Params("name"),
		&userId,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		content,
	)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *collectionController) DeleteDocument(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &dto.ValidationError{Message: "invalid document id"}
	}

	if err := c.embeddingService.Retract(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success retract document", nil))
}
