package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// History Handler
// ============================================================

// History обрабатывает GET /generations: последние записи истории.
func (h *Handler) History(c fiber.Ctx) error {
	if h.repo == nil {
		return c.Status(503).JSON(fiber.Map{"error": "history storage disabled"})
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = val
	}

	generations, err := h.repo.List(context.Background(), limit)
	if err != nil {
		log.Printf("[HISTORY] List error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to load history"})
	}

	return c.JSON(fiber.Map{"generations": generations})
}
