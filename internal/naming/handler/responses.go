package handler

import (
	"encoding/json"
	"net/http"

	"namegate/internal/naming"
	domerrors "namegate/pkg/domain-errors"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

type commitmentResponse struct {
	Hash      string `json:"hash"`
	Depositor string `json:"depositor"`
	Owner     string `json:"owner"`
	Deposit   uint64 `json:"deposit"`
	CreatedAt uint64 `json:"created_at"`
}

type registrationResponse struct {
	NameHash   string  `json:"name_hash"`
	Owner      string  `json:"owner"`
	Controller string  `json:"controller"`
	Expiry     *uint64 `json:"expiry,omitempty"`
	Deposit    uint64  `json:"deposit"`
}

type resolveResponse struct {
	NameHash string `json:"name_hash"`
	Address  string `json:"address"`
}

type renewResponse struct {
	NameHash string `json:"name_hash"`
	Expiry   uint64 `json:"expiry"`
}

func toCommitmentResponse(c naming.Commitment) commitmentResponse {
	return commitmentResponse{
		Hash:      c.Hash.String(),
		Depositor: string(c.Depositor),
		Owner:     string(c.Owner),
		Deposit:   uint64(c.Deposit),
		CreatedAt: uint64(c.CreatedAt),
	}
}

func toRegistrationResponse(r naming.Registration) registrationResponse {
	resp := registrationResponse{
		NameHash:   r.NameHash.String(),
		Owner:      string(r.Owner),
		Controller: string(r.Controller),
		Deposit:    uint64(r.Deposit),
	}
	if r.Expiry != nil {
		expiry := uint64(*r.Expiry)
		resp.Expiry = &expiry
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain error codes into HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domerrors.CodeOf(err) {
	case domerrors.CodeValidation:
		status = http.StatusBadRequest
	case domerrors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case domerrors.CodePayment:
		status = http.StatusPaymentRequired
	case domerrors.CodeForbidden:
		status = http.StatusForbidden
	case domerrors.CodeNotFound:
		status = http.StatusNotFound
	case domerrors.CodeConflict:
		status = http.StatusConflict
	case domerrors.CodeFailedPrecondition:
		status = http.StatusUnprocessableEntity
	}
	body := errorResponse{Error: string(domerrors.CodeOf(err))}
	if status != http.StatusInternalServerError {
		body.Description = err.Error()
	}
	writeJSON(w, status, body)
}
