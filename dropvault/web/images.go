package web

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// ImageStore uploads and deletes item artwork. Satisfied by
// services.SpacesService.
type ImageStore interface {
	UploadItemImage(ctx context.Context, caseID, itemID string, data []byte) (string, error)
	DeleteItemImage(ctx context.Context, caseID, itemID string) error
}

// AttachImages enables the /api/images endpoints.
func (s *Server) AttachImages(store ImageStore) {
	s.images = store
}

func (s *Server) handleUploadImage(c *fiber.Ctx) error {
	if s.images == nil {
		return sendError(c, fiber.StatusNotFound, "NOT_FOUND", "image storage disabled")
	}
	body := c.Body()
	if len(body) == 0 {
		return sendError(c, fiber.StatusBadRequest, "BAD_REQUEST", "empty image body")
	}
	url, err := s.images.UploadItemImage(c.Context(), c.Params("case"), c.Params("item"), body)
	if err != nil {
		s.log.Error("image upload failed", "error", err)
		return sendError(c, fiber.StatusBadGateway, "UPSTREAM", "image upload failed")
	}
	return sendData(c, fiber.Map{"url": url})
}

func (s *Server) handleDeleteImage(c *fiber.Ctx) error {
	if s.images == nil {
		return sendError(c, fiber.StatusNotFound, "NOT_FOUND", "image storage disabled")
	}
	if err := s.images.DeleteItemImage(c.Context(), c.Params("case"), c.Params("item")); err != nil {
		s.log.Error("image delete failed", "error", err)
		return sendError(c, fiber.StatusBadGateway, "UPSTREAM", "image delete failed")
	}
	return sendData(c, fiber.Map{"deleted": true})
}
