package wallet

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizarena/quizarena-api/internal/middleware"
	"github.com/quizarena/quizarena-api/internal/pkg/response"
	"github.com/quizarena/quizarena-api/internal/pkg/validator"
)

type Handler struct {
	svc      *Service
	exporter *StatementExporter
}

func NewHandler(svc *Service, exporter *StatementExporter) *Handler {
	return &Handler{svc: svc, exporter: exporter}
}

type moneyRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,payment_method"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	response.OK(w, h.svc.GetWallet(r.Context(), userID))
}

func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	response.OK(w, h.svc.InitializeWallet(r.Context(), userID))
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.handleMoney(w, r, h.svc.AddMoney)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.handleMoney(w, r, h.svc.WithdrawMoney)
}

func (h *Handler) handleMoney(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID uuid.UUID, amount float64, method string) (*Transaction, error)) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req moneyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	tx, err := fn(r.Context(), userID, req.Amount, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, ErrAmountBelowMinimum):
			response.BadRequest(w, "amount below the allowed minimum")
		case errors.Is(err, ErrNonPositivePayout):
			response.BadRequest(w, "amount does not cover tax and processing fee")
		case errors.Is(err, ErrInsufficientWithdrawable):
			response.Error(w, http.StatusPaymentRequired, "INSUFFICIENT_BALANCE", "withdrawable balance is too low")
		case errors.Is(err, ErrWalletNotFound):
			response.NotFound(w, "wallet not found")
		case errors.Is(err, ErrStoreUnavailable):
			response.Error(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "please retry or contact support")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"transaction": tx,
		"wallet":      h.svc.GetWallet(r.Context(), userID),
	})
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, offset := pageParams(r)
	response.OK(w, h.svc.GetTransactions(r.Context(), userID, limit, offset))
}

func (h *Handler) TaxCredits(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	response.OK(w, h.svc.GetTaxCreditLogs(r.Context(), userID))
}

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, offset := pageParams(r)
	url, err := h.exporter.Export(r.Context(), userID, limit, offset)
	if err != nil {
		if errors.Is(err, ErrExportUnavailable) {
			response.Error(w, http.StatusNotImplemented, "EXPORT_DISABLED", "statement export is not configured")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"url": url})
}

func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.Get)
	r.Post("/initialize", h.Initialize)
	r.Post("/deposit", h.Deposit)
	r.Post("/withdraw", h.Withdraw)
	r.Get("/transactions", h.Transactions)
	r.Get("/tax-credits", h.TaxCredits)
	r.Get("/statement", h.Statement)
	return r
}
