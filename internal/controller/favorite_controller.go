package controller

import (
	"github.com/gofiber/fiber/v2"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/pkg/serverutils"
	"shopquery-be/internal/service"
)

type IFavoriteController interface {
	RegisterRoutes(r fiber.Router, authMW fiber.Handler)
	Add(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Check(ctx *fiber.Ctx) error
}

type favoriteController struct {
	service service.IActivityService
}

func NewFavoriteController(service service.IActivityService) IFavoriteController {
	return &favoriteController{service: service}
}

func (c *favoriteController) RegisterRoutes(r fiber.Router, authMW fiber.Handler) {
	h := r.Group("/favorites")
	h.Use(authMW)
	h.Post("", c.Add)
	h.Get("", c.List)
	h.Get("/:productId", c.Check)
	h.Delete("/:productId", c.Remove)
}

func (c *favoriteController) Add(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	var req dto.AddFavoriteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddFavorite(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Favorite added", res))
}

func (c *favoriteController) Remove(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	if err := c.service.RemoveFavorite(ctx.Context(), userId, ctx.Params("productId")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Favorite removed", nil))
}

func (c *favoriteController) List(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.ListFavorites(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get favorites", res))
}

func (c *favoriteController) Check(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	isFavorite, err := c.service.IsFavorite(ctx.Context(), userId, ctx.Params("productId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success check favorite", fiber.Map{
		"is_favorite": isFavorite,
	}))
}
