package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AzielCF/az-study/domains/health"
	"github.com/AzielCF/az-study/pkg/utils"
)

type Health struct {
	Service health.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service health.IHealthUsecase) Health {
	handler := Health{Service: service}

	group := app.Group("/health")
	group.Get("/status", handler.GetStatus)
	group.Get("/:component", handler.CheckComponent)

	return handler
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	statuses, err := h.Service.GetStatus(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Health status retrieved",
		Results: statuses,
	})
}

func (h *Health) CheckComponent(c *fiber.Ctx) error {
	status, err := h.Service.CheckComponent(c.UserContext(), health.Component(c.Params("component")))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Component health check completed",
		Results: status,
	})
}
