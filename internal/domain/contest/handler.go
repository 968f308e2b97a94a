package contest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizarena/quizarena-api/internal/middleware"
	"github.com/quizarena/quizarena-api/internal/pkg/response"
	"github.com/quizarena/quizarena-api/internal/pkg/validator"
)

type Handler struct {
	gate *Gate
}

func NewHandler(gate *Gate) *Handler {
	return &Handler{gate: gate}
}

type enterRequest struct {
	EntryFee float64 `json:"entry_fee" validate:"required,gt=0"`
}

func (h *Handler) Enter(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	contestID := chi.URLParam(r, "id")
	if contestID == "" {
		response.BadRequest(w, "missing contest id")
		return
	}

	var req enterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	outcome := h.gate.Enter(r.Context(), userID, contestID, req.EntryFee)

	status := http.StatusOK
	switch outcome.Status {
	case StatusInsufficientBalance:
		status = http.StatusPaymentRequired
	case StatusContestClosed, StatusWalletNotFound:
		status = http.StatusConflict
	case StatusError:
		status = http.StatusBadGateway
	}
	response.JSON(w, status, outcome)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/{id}/enter", h.Enter)
	return r
}
