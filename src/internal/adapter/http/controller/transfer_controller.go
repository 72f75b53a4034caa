package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/http/models"
	"github.com/vkdrn/bank-rest-api/src/internal/commons"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
	"github.com/vkdrn/bank-rest-api/src/internal/usecase/service_interfaces"
)

type TransferController struct {
	service service_interfaces.TransferService
	log     *logger.Logger
}

func NewTransferController(service service_interfaces.TransferService, log *logger.Logger) *TransferController {
	return &TransferController{service: service, log: log.Named("transfer_controller")}
}

func (c *TransferController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/transactions", c.listTransfers).Methods(http.MethodGet)
	r.HandleFunc("/transactions", c.performTransfer).Methods(http.MethodPost)
}

func (c *TransferController) performTransfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(c.log, w, r, err, start)
		return
	}
	logRequest(c.log, r, req)

	if _, err := c.service.PerformTransfer(r.Context(), req.ToDomain()); err != nil {
		writeError(c.log, w, r, err, start)
		return
	}

	writeEmpty(w, http.StatusCreated)
	logResponse(c.log, r, http.StatusCreated, nil, start)
}

func (c *TransferController) listTransfers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(c.log, r, nil)

	transfers, err := c.service.ListTransfers(r.Context())
	if err != nil {
		writeError(c.log, w, r, err, start)
		return
	}

	body := commons.SuccessResponse("transactions retrieved", models.NewTransferResponses(transfers))
	writeJSON(w, http.StatusOK, body)
	logResponse(c.log, r, http.StatusOK, body, start)
}
