package clubs

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubcourt/backend/internal/models"
	"github.com/clubcourt/backend/pkg/response"
	"github.com/clubcourt/backend/pkg/storage"
)

// GalleryHandler handles club gallery uploads backed by S3.
type GalleryHandler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewGalleryHandler creates a gallery handler. s3 may be nil when object
// storage is not configured; uploads then answer 503-equivalent errors.
func NewGalleryHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *GalleryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryHandler{repo: repo, s3: s3, logger: logger}
}

// Upload handles POST /clubs/:id/gallery (club manage guarded, multipart).
func (h *GalleryHandler) Upload(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	if h.s3 == nil {
		response.Internal(c, "object storage not configured")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	if fileHeader.Size > storage.MaxImageFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateImageType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer file.Close()

	img := &models.GalleryImage{
		ClubID:    clubID,
		FileName:  fileHeader.Filename,
		MimeType:  storage.ContentTypeForFilename(fileHeader.Filename),
		SizeBytes: fileHeader.Size,
	}
	imageID := uuid.New()
	img.ObjectKey = storage.GalleryKey(clubID.String(), imageID.String(), fileHeader.Filename)

	if _, err := h.s3.Upload(c.Request.Context(), img.ObjectKey, img.MimeType, file, fileHeader.Size); err != nil {
		h.logger.Error("gallery upload failed", zap.Error(err), zap.String("club_id", clubID.String()))
		response.Internal(c, "failed to upload image")
		return
	}
	if err := h.repo.AddGalleryImage(c.Request.Context(), img); err != nil {
		h.logger.Error("record gallery image failed", zap.Error(err))
		response.Internal(c, "failed to record image")
		return
	}
	response.Created(c, img)
}

// List handles GET /clubs/:id/gallery (club access guarded). Each entry
// carries a pre-signed download URL.
func (h *GalleryHandler) List(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	list, err := h.repo.ListGallery(c.Request.Context(), clubID)
	if err != nil {
		h.logger.Error("list gallery failed", zap.Error(err))
		response.Internal(c, "failed to list gallery")
		return
	}
	type entry struct {
		models.GalleryImage
		URL string `json:"url,omitempty"`
	}
	out := make([]entry, 0, len(list))
	for _, img := range list {
		e := entry{GalleryImage: img}
		if h.s3 != nil {
			if url, err := h.s3.PresignDownloadURL(c.Request.Context(), img.ObjectKey); err == nil {
				e.URL = url
			}
		}
		out = append(out, e)
	}
	response.OK(c, out)
}

// Delete handles DELETE /clubs/:id/gallery/:imageId (club manage guarded).
func (h *GalleryHandler) Delete(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid club id")
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		response.BadRequest(c, "invalid image id")
		return
	}
	img, err := h.repo.GetGalleryImage(c.Request.Context(), clubID, imageID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "image not found")
			return
		}
		response.Internal(c, "failed to load image")
		return
	}
	if h.s3 != nil {
		if err := h.s3.DeleteObject(c.Request.Context(), img.ObjectKey); err != nil {
			h.logger.Warn("delete gallery object failed", zap.Error(err), zap.String("key", img.ObjectKey))
		}
	}
	if err := h.repo.DeleteGalleryImage(c.Request.Context(), clubID, imageID); err != nil {
		response.Internal(c, "failed to delete image")
		return
	}
	response.NoContent(c)
}
