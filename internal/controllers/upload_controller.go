package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	apperrors "cit-system/pkg/errors"
	"cit-system/pkg/filestorage"
	"cit-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Допустимые фотоматериалы: фото пломбы и пересчёта при подтверждении забора.
var allowedEvidenceExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

const maxEvidenceSize = 10 << 20 // 10 МБ

type UploadController struct {
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewUploadController(fileStorage filestorage.FileStorageInterface, logger *zap.Logger) *UploadController {
	return &UploadController{fileStorage: fileStorage, logger: logger}
}

// UploadEvidence принимает фото и возвращает URL, который затем передаётся
// в подтверждение забора как imageUrl.
func (ctrl *UploadController) UploadEvidence(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewValidationError("Файл не был передан", err), ctrl.logger)
	}

	if fileHeader.Size > maxEvidenceSize {
		return utils.ErrorResponse(c,
			apperrors.NewValidationError("Файл слишком большой (максимум 10 МБ)", nil), ctrl.logger)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedEvidenceExts[ext] {
		return utils.ErrorResponse(c,
			apperrors.NewValidationError("Допустимы только изображения jpg, jpeg, png", nil), ctrl.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewInternalError(err), ctrl.logger)
	}
	defer src.Close()

	savedPath, err := ctrl.fileStorage.Save(src, fileHeader.Filename, "evidence")
	if err != nil {
		ctrl.logger.Error("Ошибка сохранения файла", zap.Error(err))
		return utils.ErrorResponse(c, apperrors.NewInternalError(err), ctrl.logger)
	}

	response := map[string]interface{}{
		"url":      "/uploads/" + savedPath,
		"filePath": savedPath,
	}
	return utils.SuccessResponse(c, response, "Файл успешно загружен", http.StatusOK)
}
