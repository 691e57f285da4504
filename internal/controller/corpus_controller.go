package controller

import (
	"ai-agrichat-be/internal/dto"
	"ai-agrichat-be/internal/pkg/serverutils"
	"ai-agrichat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICorpusController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type corpusController struct {
	service service.ICorpusService
}

func NewCorpusController(service service.ICorpusService) ICorpusController {
	return &corpusController{service: service}
}

func (c *corpusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/corpus/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/ingest", c.Ingest)
	h.Get("/status", c.Status)
}

func (c *corpusController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestCorpusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue corpus for ingestion", res))
}

func (c *corpusController) Status(ctx *fiber.Ctx) error {
	res, err := c.service.CollectionStatus(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get collection status", res))
}
