package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/pkg/serverutils"
	"shopquery-be/internal/service"
)

type IComparisonController interface {
	RegisterRoutes(r fiber.Router, authMW fiber.Handler)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Products(ctx *fiber.Ctx) error
	Attach(ctx *fiber.Ctx) error
	Detach(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Append(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	CloseAll(ctx *fiber.Ctx) error
}

type comparisonController struct {
	service service.IComparisonService
}

func NewComparisonController(service service.IComparisonService) IComparisonController {
	return &comparisonController{service: service}
}

func (c *comparisonController) RegisterRoutes(r fiber.Router, authMW fiber.Handler) {
	h := r.Group("/compare/sessions")
	h.Use(authMW)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Delete("", c.CloseAll)
	h.Get("/:id", c.Show)
	h.Get("/:id/products", c.Products)
	h.Post("/:id/products", c.Attach)
	h.Delete("/:id/products/:productId", c.Detach)
	h.Get("/:id/messages", c.Messages)
	h.Post("/:id/messages", c.Append)
	h.Post("/:id/chat", c.Chat)
}

func (c *comparisonController) sessionId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, service.ErrNotFound
	}
	return id, nil
}

func (c *comparisonController) Create(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	var req dto.CreateComparisonRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Comparison session created", res))
}

func (c *comparisonController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)
	minMessages := ctx.QueryInt("min_messages", 0)

	res, err := c.service.List(ctx.Context(), userId, limit, offset, minMessages)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get comparison sessions", res))
}

func (c *comparisonController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	comparisonId, err := c.sessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.Context(), userId, comparisonId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get comparison session", res))
}

func (c *comparisonController) Products(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	comparisonId, err := c.sessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListProducts(ctx.Context(), userId, comparisonId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get comparison products", res))
}

func (c *comparisonController) Attach(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	comparisonId, err := c.sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.AttachProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.AttachProduct(ctx.Context(), userId, comparisonId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Product attached", nil))
}

func (c *comparisonController) Detach(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	comparisonId, err := c.sessionId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.DetachProduct(ctx.Context(), userId, comparisonId, ctx.Params("productId")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Product detached", nil))
}

func (c *comparisonController) Messages(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	comparisonId, err := c.sessionId(ctx)
	if err != nil {
		return err
	}
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.ListMessages(ctx.Context(), userId, comparisonId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *comparisonController) Append(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	comparisonId, err := c.sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.AppendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AppendMessage(ctx.Context(), userId, comparisonId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Message appended", res))
}

func (c *comparisonController) Chat(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	comparisonId, err := c.sessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), userId, comparisonId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat turn complete", res))
}

func (c *comparisonController) CloseAll(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	closed, err := c.service.CloseAll(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Comparison sessions closed", fiber.Map{
		"closed": closed,
	}))
}
