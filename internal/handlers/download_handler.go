package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/services"
)

type DownloadHandler struct {
	downloads *services.Downloads
}

func NewDownloadHandler(downloads *services.Downloads) *DownloadHandler {
	return &DownloadHandler{downloads: downloads}
}

// Download authorizes the caller for one file and returns a short-lived URL.
// The response never carries the storage key.
// @Summary Request a download URL
// @Produce json
// @Router /courses/{id}/files/{fileId}/download [post]
func (h *DownloadHandler) Download(c echo.Context) error {
	grant, err := h.downloads.Authorize(
		c.Request().Context(),
		middleware.GetUser(c),
		c.Param("id"),
		c.Param("fileId"),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, grant)
}
