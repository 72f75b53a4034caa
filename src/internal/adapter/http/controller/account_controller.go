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

type AccountController struct {
	service service_interfaces.AccountService
	log     *logger.Logger
}

func NewAccountController(service service_interfaces.AccountService, log *logger.Logger) *AccountController {
	return &AccountController{service: service, log: log.Named("account_controller")}
}

func (c *AccountController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/accounts", c.listAccounts).Methods(http.MethodGet)
	r.HandleFunc("/accounts", c.createAccount).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id}", c.getAccount).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id}", c.updateAccount).Methods(http.MethodPut)
	r.HandleFunc("/accounts/{id}", c.deleteAccount).Methods(http.MethodDelete)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(c.log, r, nil)

	accounts, err := c.service.GetAll(r.Context())
	if err != nil {
		writeError(c.log, w, r, err, start)
		return
	}

	body := commons.SuccessResponse("accounts retrieved", models.NewAccountResponses(accounts))
	writeJSON(w, http.StatusOK, body)
	logResponse(c.log, r, http.StatusOK, body, start)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(c.log, r, nil)

	account, err := c.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(c.log, w, r, err, start)
		return
	}

	body := commons.SuccessResponse("account retrieved", models.NewAccountResponse(account))
	writeJSON(w, http.StatusOK, body)
	logResponse(c.log, r, http.StatusOK, body, start)
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(c.log, w, r, err, start)
		return
	}
	logRequest(c.log, r, req)

	if _, err := c.service.Create(r.Context(), req.ToDomain()); err != nil {
		writeError(c.log, w, r, err, start)
		return
	}

	writeEmpty(w, http.StatusCreated)
	logResponse(c.log, r, http.StatusCreated, nil, start)
}

func (c *AccountController) updateAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(c.log, w, r, err, start)
		return
	}
	logRequest(c.log, r, req)

	if _, err := c.service.Update(r.Context(), mux.Vars(r)["id"], req.ToDomain()); err != nil {
		writeError(c.log, w, r, err, start)
		return
	}

	writeEmpty(w, http.StatusOK)
	logResponse(c.log, r, http.StatusOK, nil, start)
}

func (c *AccountController) deleteAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(c.log, r, nil)

	if err := c.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(c.log, w, r, err, start)
		return
	}

	writeEmpty(w, http.StatusOK)
	logResponse(c.log, r, http.StatusOK, nil, start)
}
