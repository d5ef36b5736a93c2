package handlers

import (
	"net/http"

	"quoting-system/internal/apperror"
	"quoting-system/internal/logger"
)

func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error, internalMessage string) {
	switch {
	case apperror.Is(err, apperror.KindNotFound):
		writeErrorResponse(w, http.StatusNotFound, err.Error())
	case apperror.Is(err, apperror.KindValidation):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case apperror.Is(err, apperror.KindConflict):
		writeErrorResponse(w, http.StatusConflict, err.Error())
	case apperror.Is(err, apperror.KindUnavailable):
		if log != nil {
			log.WithError(err).Error("External collaborator failed")
		}
		writeErrorResponse(w, http.StatusBadGateway, err.Error())
	case apperror.Is(err, apperror.KindConfig):
		if log != nil {
			log.WithError(err).Error("Reference data misconfigured")
		}
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	default:
		if log != nil {
			log.WithError(err).Error(internalMessage)
		}
		writeErrorResponse(w, http.StatusInternalServerError, internalMessage)
	}
}
