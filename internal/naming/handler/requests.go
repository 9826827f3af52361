package handler

// Hashes travel as hex strings; secrets are decimal-encoded 64-bit values to
// survive JSON number precision limits.

type commitRequest struct {
	Owner          string `json:"owner"`
	CommitmentHash string `json:"commitment_hash"`
}

type revealRequest struct {
	Name    string `json:"name"`
	Secret  string `json:"secret"`
	Periods uint64 `json:"periods"`
}

type transferRequest struct {
	NewOwner string `json:"new_owner"`
}

type setControllerRequest struct {
	Controller string `json:"controller"`
}

type renewRequest struct {
	Periods uint64 `json:"periods"`
}

type setRecordRequest struct {
	Address string `json:"address"`
}

type setSubnodeRecordRequest struct {
	Label string `json:"label"`
}

type setSubnodeOwnerRequest struct {
	NewOwner string `json:"new_owner"`
}

type forceRegisterRequest struct {
	NameHash string  `json:"name_hash"`
	Owner    string  `json:"owner"`
	Expiry   *uint64 `json:"expiry,omitempty"`
}
