package naming

// Params are the protocol constants the engine runs with. They correspond to
// deployment configuration, not per-call input.
type Params struct {
	// CommitmentDeposit is the amount reserved from a depositor per pending
	// commitment, refunded when the commitment is consumed or removed.
	CommitmentDeposit Balance
	// SubNodeDeposit is the amount reserved per subnode registration.
	SubNodeDeposit Balance
	// MinCommitmentAge is the number of blocks a commitment must age before
	// it can be revealed.
	MinCommitmentAge BlockNumber
	// MaxCommitmentAge is the number of blocks after which a commitment is
	// stale and may be removed by anyone.
	MaxCommitmentAge BlockNumber
	// BlocksPerRegistrationPeriod is the length of one registration period.
	BlocksPerRegistrationPeriod BlockNumber
	// FeeBeneficiary receives non-refundable registration and renewal fees.
	FeeBeneficiary AccountID

	Fees FeeSchedule
}

// PeriodBlocks converts a number of registration periods into blocks.
func (p Params) PeriodBlocks(periods BlockNumber) (BlockNumber, error) {
	return checkedMulBlocks(periods, p.BlocksPerRegistrationPeriod)
}

// ExpiryAfter computes now + periods worth of blocks.
func (p Params) ExpiryAfter(now BlockNumber, periods BlockNumber) (BlockNumber, error) {
	blocks, err := p.PeriodBlocks(periods)
	if err != nil {
		return 0, err
	}
	return checkedAddBlocks(now, blocks)
}
