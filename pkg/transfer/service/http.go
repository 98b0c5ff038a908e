package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/near-eth-transfer/pkg/app/errors"
	apphttp "github.com/chainsafe/near-eth-transfer/pkg/app/http"
	"github.com/chainsafe/near-eth-transfer/pkg/redirect"
	"github.com/chainsafe/near-eth-transfer/pkg/sendtonear"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

const maxBodySize = 1 << 20

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the transfer service on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Route("/transfers", func(r chi.Router) {
		r.Get("/", apphttp.HandleError(h.logger, h.list))
		r.Post("/", apphttp.HandleError(h.logger, h.initiate))
		r.Post("/recover", apphttp.HandleError(h.logger, h.recover))
		r.Get("/{id}", apphttp.HandleError(h.logger, h.get))
		r.Post("/{id}/act", apphttp.HandleError(h.logger, h.act))
	})
	r.Get("/tokens/{address}", apphttp.HandleError(h.logger, h.token))
	r.Route("/wallet", func(r chi.Router) {
		r.Get("/request", apphttp.HandleError(h.logger, h.walletRequest))
		r.Post("/callback", apphttp.HandleError(h.logger, h.walletCallback))
	})
}

func (h *HTTP) initiate(w http.ResponseWriter, r *http.Request) error {
	var req sendtonear.InitiateRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	view, err := h.service.Initiate(r.Context(), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusCreated, view)
	return nil
}

func (h *HTTP) recover(w http.ResponseWriter, r *http.Request) error {
	var req RecoverRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	view, err := h.service.Recover(r.Context(), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusCreated, view)
	return nil
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	req := ListRequest{
		Sender: q.Get("sender"),
		Status: transfer.Status(q.Get("status")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.BadRequestError(err, "invalid limit")
		}
		req.Limit = limit
	}

	views, err := h.service.List(r.Context(), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"transfers": views})
	return nil
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request) error {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, view)
	return nil
}

func (h *HTTP) act(w http.ResponseWriter, r *http.Request) error {
	view, err := h.service.Act(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, view)
	return nil
}

func (h *HTTP) token(w http.ResponseWriter, r *http.Request) error {
	meta, err := h.service.TokenMetadata(r.Context(), chi.URLParam(r, "address"), r.URL.Query().Get("user"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, meta)
	return nil
}

func (h *HTTP) walletRequest(w http.ResponseWriter, r *http.Request) error {
	call, err := h.service.WalletRequest(r.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, call)
	return nil
}

// walletCallback accepts the wallet redirect either as a JSON body or as the
// query string the wallet appends to the callback URL.
func (h *HTTP) walletCallback(w http.ResponseWriter, r *http.Request) error {
	outcome := redirect.Outcome{
		TxHashes:  r.URL.Query().Get("transactionHashes"),
		ErrorCode: r.URL.Query().Get("errorCode"),
	}
	if outcome.TxHashes == "" && outcome.ErrorCode == "" && r.ContentLength != 0 {
		if err := decodeBody(r, &outcome); err != nil {
			return err
		}
	}
	if err := h.service.WalletCallback(r.Context(), &outcome); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := apphttp.WriteJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
