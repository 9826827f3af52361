// Package handler is the thin HTTP layer over the registration engine. It
// parses wire input, builds the call origin from the authenticated request
// context, and translates domain errors; business logic stays in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"namegate/internal/naming"
	platformmetrics "namegate/internal/platform/metrics"
	"namegate/internal/platform/middleware"
	domerrors "namegate/pkg/domain-errors"
	"namegate/pkg/requestcontext"
)

// Service defines the engine operations the transport layer exposes.
type Service interface {
	Commit(ctx context.Context, origin naming.Origin, owner naming.AccountID, hash naming.CommitmentHash) error
	Reveal(ctx context.Context, origin naming.Origin, name []byte, secret uint64, periods naming.BlockNumber) (naming.Registration, error)
	RemoveCommitment(ctx context.Context, origin naming.Origin, hash naming.CommitmentHash) error
	GetCommitment(ctx context.Context, hash naming.CommitmentHash) (naming.Commitment, error)

	Transfer(ctx context.Context, origin naming.Origin, newOwner naming.AccountID, nameHash naming.NameHash) error
	SetController(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, to naming.AccountID) error
	Renew(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, periods naming.BlockNumber) (naming.BlockNumber, error)
	Deregister(ctx context.Context, origin naming.Origin, nameHash naming.NameHash) error
	GetRegistration(ctx context.Context, hash naming.NameHash) (naming.Registration, error)

	SetRecord(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, address naming.AccountID) error
	Resolve(ctx context.Context, nameHash naming.NameHash) (naming.AccountID, error)

	SetSubnodeRecord(ctx context.Context, origin naming.Origin, parentHash naming.NameHash, label []byte) (naming.Registration, error)
	SetSubnodeOwner(ctx context.Context, origin naming.Origin, parentHash naming.NameHash, labelHash naming.NameHash, newOwner naming.AccountID) error
	DeregisterSubnode(ctx context.Context, origin naming.Origin, parentHash naming.NameHash, labelHash naming.NameHash) error

	ForceRegister(ctx context.Context, origin naming.Origin, nameHash naming.NameHash, who naming.AccountID, expiry *naming.BlockNumber) error
	ForceDeregister(ctx context.Context, origin naming.Origin, nameHash naming.NameHash) error
}

// Handler handles the name service endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	metrics   *platformmetrics.Metrics
	validator middleware.TokenValidator
}

// New creates a name service Handler.
func New(service Service, logger *slog.Logger, metrics *platformmetrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		metrics:   metrics,
		validator: validator,
	}
}

// Register mounts the name service routes on the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		router.Use(middleware.Latency(h.metrics))
	}
	router.Use(middleware.RequireAuth(h.validator, h.logger))

	router.Post("/commitments", h.handleCommit)
	router.Get("/commitments/{hash}", h.handleGetCommitment)
	router.Delete("/commitments/{hash}", h.handleRemoveCommitment)

	router.Post("/names/reveal", h.handleReveal)
	router.Get("/names/{hash}", h.handleGetRegistration)
	router.Post("/names/{hash}/transfer", h.handleTransfer)
	router.Post("/names/{hash}/controller", h.handleSetController)
	router.Post("/names/{hash}/renew", h.handleRenew)
	router.Put("/names/{hash}/record", h.handleSetRecord)
	router.Get("/names/{hash}/record", h.handleResolve)
	router.Delete("/names/{hash}", h.handleDeregister)

	router.Post("/names/{hash}/subnodes", h.handleSetSubnodeRecord)
	router.Put("/names/{hash}/subnodes/{label}/owner", h.handleSetSubnodeOwner)
	router.Delete("/names/{hash}/subnodes/{label}", h.handleDeregisterSubnode)

	router.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin(h.logger))
		admin.Post("/names", h.handleForceRegister)
		admin.Delete("/names/{hash}", h.handleForceDeregister)
	})

	r.Mount("/v1", router)
}

func origin(ctx context.Context) naming.Origin {
	return naming.Origin{
		Account: naming.AccountID(requestcontext.Account(ctx)),
		Admin:   requestcontext.Admin(ctx),
	}
}

func (h *Handler) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	hash, err := naming.ParseCommitmentHash(req.CommitmentHash)
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid commitment hash"))
		return
	}
	ctx := r.Context()
	if err := h.service.Commit(ctx, origin(ctx), naming.AccountID(req.Owner), hash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"hash": hash.String()})
}

func (h *Handler) handleGetCommitment(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseCommitmentHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid commitment hash"))
		return
	}
	commitment, err := h.service.GetCommitment(r.Context(), hash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommitmentResponse(commitment))
}

func (h *Handler) handleRemoveCommitment(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseCommitmentHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid commitment hash"))
		return
	}
	ctx := r.Context()
	if err := h.service.RemoveCommitment(ctx, origin(ctx), hash); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	secret, err := strconv.ParseUint(req.Secret, 10, 64)
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid secret"))
		return
	}
	ctx := r.Context()
	registration, err := h.service.Reveal(ctx, origin(ctx), []byte(req.Name), secret, naming.BlockNumber(req.Periods))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationResponse(registration))
}

func (h *Handler) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	registration, err := h.service.GetRegistration(r.Context(), hash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationResponse(registration))
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	ctx := r.Context()
	if err := h.service.Transfer(ctx, origin(ctx), naming.AccountID(req.NewOwner), hash); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetController(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	var req setControllerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	ctx := r.Context()
	if err := h.service.SetController(ctx, origin(ctx), hash, naming.AccountID(req.Controller)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	ctx := r.Context()
	expiry, err := h.service.Renew(ctx, origin(ctx), hash, naming.BlockNumber(req.Periods))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renewResponse{NameHash: hash.String(), Expiry: uint64(expiry)})
}

func (h *Handler) handleSetRecord(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	var req setRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	ctx := r.Context()
	if err := h.service.SetRecord(ctx, origin(ctx), hash, naming.AccountID(req.Address)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	address, err := h.service.Resolve(r.Context(), hash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{NameHash: hash.String(), Address: string(address)})
}

func (h *Handler) handleDeregister(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	ctx := r.Context()
	if err := h.service.Deregister(ctx, origin(ctx), hash); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetSubnodeRecord(w http.ResponseWriter, r *http.Request) {
	parentHash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	var req setSubnodeRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	ctx := r.Context()
	registration, err := h.service.SetSubnodeRecord(ctx, origin(ctx), parentHash, []byte(req.Label))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegistrationResponse(registration))
}

func (h *Handler) handleSetSubnodeOwner(w http.ResponseWriter, r *http.Request) {
	parentHash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	labelHash, err := naming.ParseNameHash(chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid label hash"))
		return
	}
	var req setSubnodeOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	ctx := r.Context()
	if err := h.service.SetSubnodeOwner(ctx, origin(ctx), parentHash, labelHash, naming.AccountID(req.NewOwner)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeregisterSubnode(w http.ResponseWriter, r *http.Request) {
	parentHash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	labelHash, err := naming.ParseNameHash(chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid label hash"))
		return
	}
	ctx := r.Context()
	if err := h.service.DeregisterSubnode(ctx, origin(ctx), parentHash, labelHash); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleForceRegister(w http.ResponseWriter, r *http.Request) {
	var req forceRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid request body"))
		return
	}
	hash, err := naming.ParseNameHash(req.NameHash)
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	var expiry *naming.BlockNumber
	if req.Expiry != nil {
		e := naming.BlockNumber(*req.Expiry)
		expiry = &e
	}
	ctx := r.Context()
	if err := h.service.ForceRegister(ctx, origin(ctx), hash, naming.AccountID(req.Owner), expiry); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name_hash": hash.String()})
}

func (h *Handler) handleForceDeregister(w http.ResponseWriter, r *http.Request) {
	hash, err := naming.ParseNameHash(chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, domerrors.New(domerrors.CodeValidation, "invalid name hash"))
		return
	}
	ctx := r.Context()
	if err := h.service.ForceDeregister(ctx, origin(ctx), hash); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
