package admin

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bluelog/core/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Uploads stores editor images on the local disk.
type Uploads struct {
	dir     string
	allowed func(ext string) bool
}

// NewUploads resolves the upload directory from cfg.
func NewUploads(cfg *config.AppConfig) *Uploads {
	return &Uploads{
		dir:     config.ResolveRuntimePath(cfg.Paths.Uploads, "uploads"),
		allowed: cfg.AllowedImage,
	}
}

// Dir is the absolute upload directory.
func (u *Uploads) Dir() string { return u.dir }

// Path returns the on-disk path of an uploaded file, or "" for unsafe names.
func (u *Uploads) Path(name string) string {
	name = safeName(name)
	if name == "" {
		return ""
	}
	return filepath.Join(u.dir, name)
}

// target picks a free file name, keeping the original one when possible.
func (u *Uploads) target(original string) (string, error) {
	name := safeName(original)
	if name == "" {
		name = strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + strings.ToLower(filepath.Ext(original))
	}
	if _, err := os.Stat(filepath.Join(u.dir, name)); err == nil {
		name = strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + "_" + name
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return name, nil
}

func uploadError(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"uploaded": 0, "error": gin.H{"message": message}})
}

// POST /admin/upload
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("upload")
	if err != nil {
		uploadError(c, "Image only!")
		return
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !h.uploads.allowed(ext) {
		uploadError(c, "Image only!")
		return
	}

	if err := os.MkdirAll(h.uploads.dir, 0o755); err != nil {
		h.site.Log.Error("create upload dir", zap.Error(err))
		uploadError(c, "Upload failed.")
		return
	}
	name, err := h.uploads.target(fileHeader.Filename)
	if err != nil {
		h.site.Log.Error("resolve upload name", zap.Error(err))
		uploadError(c, "Upload failed.")
		return
	}
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(h.uploads.dir, name)); err != nil {
		h.site.Log.Error("save upload", zap.String("name", name), zap.Error(err))
		uploadError(c, "Upload failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploaded": 1,
		"fileName": name,
		"url":      "/uploads/" + name,
	})
}

// GET /uploads/:filename
func (h *Handler) serveUpload(c *gin.Context) {
	path := h.uploads.Path(c.Param("filename"))
	if path == "" {
		h.site.NotFound(c)
		return
	}
	if _, err := os.Stat(path); err != nil {
		h.site.NotFound(c)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

// safeName returns the base name of raw when it contains only alphanumerics,
// hyphens, underscores or dots.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return ""
	}
	return name
}
