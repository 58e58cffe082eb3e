package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"skillbox/internal/api/middleware"
	"skillbox/internal/models"
	"skillbox/internal/services"
	"skillbox/internal/utils/logger"
)

type UploadHandler struct {
	catalog *services.Catalog
	log     *logger.Logger
}

func NewUploadHandler(catalog *services.Catalog) *UploadHandler {
	return &UploadHandler{catalog: catalog, log: logger.New("upload_handler")}
}

// UploadCourseFile attaches a file to a course. The object key embeds the
// course and file ids so the bucket layout mirrors the catalog.
// @Summary Upload a course file
// @Accept multipart/form-data
// @Produce json
// @Router /courses/{id}/files [post]
func (h *UploadHandler) UploadCourseFile(c echo.Context) error {
	contentType := c.Request().Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return echo.NewHTTPError(http.StatusBadRequest, "Content-Type must be multipart/form-data")
	}

	storage := GetStorageHandler()
	if storage == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Storage handler not configured")
	}

	courseID := c.Param("id")

	file, err := c.FormFile("file")
	if err != nil {
		h.log.Error("Failed to get file from request", err)
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open file")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read file")
	}

	ext := strings.TrimPrefix(filepath.Ext(file.Filename), ".")
	fileID := uuid.New().String()
	key := fmt.Sprintf("courses/%s/%s.%s", courseID, fileID, ext)

	if err := storage.UploadCourseFile(c.Request().Context(), content, key, file.Header.Get("Content-Type")); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to upload file to storage")
	}

	record := &models.CourseFile{
		Base:         models.Base{ID: fileID},
		CourseID:     courseID,
		OriginalName: file.Filename,
		StorageKey:   key,
		FileType:     ext,
		Size:         file.Size,
	}
	if err := h.catalog.AddFile(c.Request().Context(), middleware.GetUser(c), record); err != nil {
		// The record failed, so the object must not linger.
		if delErr := storage.DeleteObject(c.Request().Context(), key); delErr != nil {
			h.log.Warn("failed to clean up object %s: %v", key, delErr)
		}
		return err
	}

	h.log.Success("File %s attached to course %s", record.ID, courseID)
	return c.JSON(http.StatusCreated, record)
}

// DeleteFile removes the record first, then the object.
// @Summary Delete a course file
// @Router /courses/{id}/files/{fileId} [delete]
func (h *UploadHandler) DeleteFile(c echo.Context) error {
	key, err := h.catalog.RemoveFile(c.Request().Context(), middleware.GetUser(c), c.Param("fileId"))
	if err != nil {
		return err
	}

	if storage := GetStorageHandler(); storage != nil {
		if err := storage.DeleteObject(c.Request().Context(), key); err != nil {
			h.log.Warn("failed to delete object %s: %v", key, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "File deleted"})
}
