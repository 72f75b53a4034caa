package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vkdrn/bank-rest-api/src/internal/commons"
	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

const msgInternalError = "Internal server error"

// statusFor maps an error kind onto its HTTP status. Unclassified errors are 500.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindMalformedInput, domain.KindMalformedTransfer, domain.KindInsufficientFunds:
		return http.StatusBadRequest
	case domain.KindAccountNotFound:
		return http.StatusNotFound
	case domain.KindConcurrentModification:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an error envelope. Internal details of unclassified errors are logged, never returned.
func writeError(log *logger.Logger, w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	kind, ok := domain.KindOf(err)
	if !ok {
		logError(log, r, err, nil)
		body := commons.ErrorResponse[struct{}](msgInternalError)
		writeJSON(w, http.StatusInternalServerError, body)
		logResponse(log, r, http.StatusInternalServerError, body, start)
		return
	}

	status := statusFor(kind)
	body := commons.ErrorResponse[struct{}](domain.MessageOf(err)).WithCode(string(kind))
	if kind == domain.KindConcurrentModification {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, body)
	logResponse(log, r, status, body, start)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

const maxBodyBytes = 64 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return domain.NewMalformedInput(domain.MsgBadRequest, err)
	}
	return nil
}
