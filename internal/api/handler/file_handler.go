package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/pkg/response"
)

// FileHandler 文件上传 HTTP 处理器
// 上传文件落盘到配置目录，文件名替换为 UUID，防止路径穿越与覆盖
type FileHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFileHandler 创建 FileHandler
func NewFileHandler(cfg *config.Config, logger *zap.Logger) *FileHandler {
	return &FileHandler{cfg: cfg, logger: logger}
}

// Upload 上传文件
// POST /api/v1/files/upload, multipart/form-data, field="file"
func (h *FileHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 17001, "请选择要上传的文件")
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !h.allowedExt(ext) {
		response.BadRequest(c, 17002, fmt.Sprintf("不支持的文件类型，仅允许: %s", strings.Join(h.cfg.Upload.AllowedExts, ", ")))
		return
	}

	if err := os.MkdirAll(h.cfg.Upload.Dir, 0o755); err != nil {
		h.logger.Error("创建上传目录失败", zap.String("dir", h.cfg.Upload.Dir), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, 17003, "文件保存失败")
		return
	}

	filename := uuid.New().String() + "." + ext
	dst := filepath.Join(h.cfg.Upload.Dir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.Error("保存上传文件失败", zap.String("dst", dst), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, 17003, "文件保存失败")
		return
	}

	h.logger.Info("文件上传成功",
		zap.String("filename", filename),
		zap.String("original", file.Filename),
		zap.Int64("size", file.Size))

	response.Created(c, gin.H{
		"filename": filename,
		"url":      "/api/uploads/" + filename,
	})
}

func (h *FileHandler) allowedExt(ext string) bool {
	if ext == "" {
		return false
	}
	for _, allowed := range h.cfg.Upload.AllowedExts {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
