package naming

// MinNameLength is the shortest registrable name or subnode label.
const MinNameLength = 3

// FeeSchedule computes registration fees from name length and requested
// registration periods. Pure arithmetic; overflow fails the enclosing
// operation instead of wrapping.
type FeeSchedule struct {
	// Flat fee tiers by name length.
	TierThreeLetters Balance
	TierFourLetters  Balance
	TierDefault      Balance
	// Fee charged per registration period.
	FeePerRegistrationPeriod Balance
}

// LengthFee returns the flat tier fee for a name of the given length.
func (s FeeSchedule) LengthFee(nameLength int) Balance {
	switch {
	case nameLength <= MinNameLength:
		return s.TierThreeLetters
	case nameLength == 4:
		return s.TierFourLetters
	default:
		return s.TierDefault
	}
}

// PeriodFee returns the duration component: periods x fee-per-period.
func (s FeeSchedule) PeriodFee(periods BlockNumber) (Balance, error) {
	return checkedMul(s.FeePerRegistrationPeriod, Balance(periods))
}

// RegistrationFee returns the total fee for registering a name of the given
// length for the given number of periods.
func (s FeeSchedule) RegistrationFee(nameLength int, periods BlockNumber) (Balance, error) {
	periodFee, err := s.PeriodFee(periods)
	if err != nil {
		return 0, err
	}
	return checkedAdd(s.LengthFee(nameLength), periodFee)
}

func checkedAdd(a, b Balance) (Balance, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

func checkedMul(a, b Balance) (Balance, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, ErrArithmeticOverflow
	}
	return product, nil
}

func checkedAddBlocks(a, b BlockNumber) (BlockNumber, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

func checkedMulBlocks(a, b BlockNumber) (BlockNumber, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, ErrArithmeticOverflow
	}
	return product, nil
}
