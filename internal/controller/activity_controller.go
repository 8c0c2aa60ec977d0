package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/pkg/serverutils"
	"shopquery-be/internal/service"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router, authMW fiber.Handler)
	SearchProducts(ctx *fiber.Ctx) error
	LogSearch(ctx *fiber.Ctx) error
	ListSearchHistory(ctx *fiber.Ctx) error
	UpdateSearchLabel(ctx *fiber.Ctx) error
	DeleteSearch(ctx *fiber.Ctx) error
	ClearSearchHistory(ctx *fiber.Ctx) error
	LogEvent(ctx *fiber.Ctx) error
	ListEvents(ctx *fiber.Ctx) error
}

type activityController struct {
	service service.IActivityService
}

func NewActivityController(service service.IActivityService) IActivityController {
	return &activityController{service: service}
}

func (c *activityController) RegisterRoutes(r fiber.Router, authMW fiber.Handler) {
	h := r.Group("/activity")
	h.Use(authMW)
	h.Get("/search/products", c.SearchProducts)
	h.Post("/search", c.LogSearch)
	h.Get("/search", c.ListSearchHistory)
	h.Patch("/search/:id/label", c.UpdateSearchLabel)
	h.Delete("/search/:id", c.DeleteSearch)
	h.Delete("/search", c.ClearSearchHistory)
	h.Post("/events", c.LogEvent)
	h.Get("/events", c.ListEvents)
}

func (c *activityController) SearchProducts(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	query := ctx.Query("query")
	page := ctx.QueryInt("page", 1)

	res, err := c.service.SearchProducts(ctx.Context(), userId, query, page)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}

func (c *activityController) LogSearch(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	var req dto.LogSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.LogSearch(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search logged", res))
}

func (c *activityController) ListSearchHistory(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.ListSearchHistory(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get search history", res))
}

func (c *activityController) UpdateSearchLabel(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	historyId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return service.ErrNotFound
	}

	var req dto.UpdateSearchLabelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateSearchLabel(ctx.Context(), userId, historyId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Label updated", res))
}

func (c *activityController) DeleteSearch(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	historyId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return service.ErrNotFound
	}

	if err := c.service.DeleteSearch(ctx.Context(), userId, historyId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Search deleted", nil))
}

func (c *activityController) ClearSearchHistory(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	cleared, err := c.service.ClearSearchHistory(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search history cleared", fiber.Map{
		"cleared": cleared,
	}))
}

func (c *activityController) LogEvent(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	var req dto.LogEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.LogEvent(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Event logged", res))
}

func (c *activityController) ListEvents(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	eventType := ctx.Query("type")
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.ListEvents(ctx.Context(), userId, eventType, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get events", res))
}
