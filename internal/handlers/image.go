package handlers

import (
	"net/http"

	"memeboard/internal/services"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 * 1024 * 1024

// ImageHandler 图片处理 Handler
type ImageHandler struct {
	assets services.AssetStore
}

func NewImageHandler(assets services.AssetStore) *ImageHandler {
	return &ImageHandler{assets: assets}
}

func imageErrors(message string) gin.H {
	return gin.H{"errors": []gin.H{{"message": message}}}
}

// Upload POST /rest/upload-image
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusOK, imageErrors("error uploading image: "+err.Error()))
		return
	}
	defer file.Close()

	if !services.AllowedImage(header.Filename) {
		c.JSON(http.StatusOK, imageErrors(services.ErrUnsupportedImage.Error()))
		return
	}
	if header.Size > maxImageSize {
		c.JSON(http.StatusOK, imageErrors("image must be smaller than 10MB"))
		return
	}

	result, err := h.assets.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		c.JSON(http.StatusOK, imageErrors("error uploading image: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete POST /rest/delete-image
func (h *ImageHandler) Delete(c *gin.Context) {
	var in struct {
		PublicID string `json:"public_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, imageErrors("Error deleting image"))
		return
	}
	if err := h.assets.Delete(c.Request.Context(), in.PublicID); err != nil {
		c.JSON(http.StatusOK, imageErrors("Error deleting image"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
