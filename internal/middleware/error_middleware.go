package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/gradesheet/internal/app/models/dto"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
	"github.com/yigit/gradesheet/internal/pkg/logger"
)

// --- Central Error Handling ---

// HandleAPIError maps service errors to status codes and writes the standard error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)

	if status >= http.StatusInternalServerError {
		if gin.Mode() == gin.DebugMode {
			detail.WithDebugInfo("%v", err)
		}
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	if rowErr, ok := apperrors.AsRowError(err); ok {
		code := dto.ErrorCodeInvalidRow
		switch {
		case errors.Is(rowErr, apperrors.ErrMissingField):
			code = dto.ErrorCodeMissingField
		case errors.Is(rowErr, apperrors.ErrDuplicateStudentID):
			code = dto.ErrorCodeDuplicateID
		}
		return http.StatusBadRequest, dto.NewErrorDetail(code, rowErr.Error()).
			WithField(rowErr.Field).
			WithSeverity(dto.ErrorSeverityWarning).
			WithDetails(dto.RowErrorDetails{Row: rowErr.Row, Reason: rowErr.Reason, Value: rowErr.Value})
	}

	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)

	switch {
	case errors.Is(err, apperrors.ErrNoFileProvided):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeNoFile, apperrors.ErrNoFileProvided.Error())
	case errors.Is(err, apperrors.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, dto.NewErrorDetail(dto.ErrorCodeUnsupportedType, apperrors.ErrUnsupportedMediaType.Error())
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, dto.NewErrorDetail(dto.ErrorCodeFileTooLarge, apperrors.ErrFileTooLarge.Error())
	case errors.Is(err, apperrors.ErrDecodeFailure):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeDecodeFailure, apperrors.ErrDecodeFailure.Error())
	case errors.Is(err, apperrors.ErrEmptyFile):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeEmptyFile, apperrors.ErrEmptyFile.Error())
	case errors.Is(err, apperrors.ErrDuplicateStudentID):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeDuplicateID, err.Error())
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		if hasCustom {
			detail.Message = custom.Message
			if field, ok := custom.Details["field"].(string); ok {
				detail.WithField(field)
			}
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Failed to save data, please upload the file again").
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
