package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/gradesheet/internal/app/models/dto"
	"github.com/yigit/gradesheet/internal/app/services"
	"github.com/yigit/gradesheet/internal/middleware"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
)

// multipartOverhead allows for part headers and boundaries on top of the file itself.
const multipartOverhead = 64 << 10

// UploadController handles spreadsheet uploads
type UploadController struct {
	uploadService services.UploadService
	maxUploadSize int64
}

// NewUploadController creates a new UploadController
func NewUploadController(uploadService services.UploadService, maxUploadSize int64) *UploadController {
	return &UploadController{
		uploadService: uploadService,
		maxUploadSize: maxUploadSize,
	}
}

// Upload ingests a grade sheet and replaces all stored students
// @Summary Upload a grade sheet
// @Description Parses an .xlsx or .csv file, validates every row and replaces the stored students
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Grade sheet (.xlsx or .csv)"
// @Success 200 {object} dto.UploadResponse "File processed"
// @Failure 400 {object} dto.ErrorResponse "Missing file, empty file or invalid row"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Failure 500 {object} dto.ErrorResponse "Persistence failure"
// @Router /upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	if ctx.Request.ContentLength > c.maxUploadSize+multipartOverhead {
		middleware.HandleAPIError(ctx, apperrors.ErrFileTooLarge)
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadSize+multipartOverhead)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.HandleAPIError(ctx, apperrors.ErrFileTooLarge)
			return
		}
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			middleware.HandleAPIError(ctx, apperrors.ErrNoFileProvided)
			return
		}
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: malformed multipart body: %v", apperrors.ErrBadRequest, err))
		return
	}

	if fileHeader.Size > c.maxUploadSize {
		middleware.HandleAPIError(ctx, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: %v", apperrors.ErrDecodeFailure, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, c.maxUploadSize+1))
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: %v", apperrors.ErrDecodeFailure, err))
		return
	}
	if int64(len(data)) > c.maxUploadSize {
		middleware.HandleAPIError(ctx, apperrors.ErrFileTooLarge)
		return
	}

	result, err := c.uploadService.Ingest(ctx.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UploadResponse{
		Message:       "File uploaded and processed successfully",
		StudentsCount: result.StudentsCount,
		Filename:      result.Filename,
	})
}
