package challenges

import (
	"cosmossdk.io/math"

	"github.com/devdao-labs/devdao-node/engine/types"
)

// Reward computes the challenge payout for the next completion.
//
//	base     = difficulty × 0.1 native
//	scarcity = 10000 / (1 + completionsBefore/10)    (integer division)
//	reward   = base × scarcity × multiplierBps / 10000 / 10000
//
// Every ten prior completions shrink the scarcity factor. The
// multiplications and divisions run in exactly this order; integer
// truncation makes the result order-sensitive, so do not refactor the
// arithmetic.
func Reward(difficulty uint8, completionsBefore uint64, multiplierBps uint32) math.Int {
	base := types.UnitReward().MulRaw(int64(difficulty))
	scarcity := int64(types.BpsDenominator) / (1 + int64(completionsBefore)/10)

	return base.
		MulRaw(scarcity).
		MulRaw(int64(multiplierBps)).
		QuoRaw(types.BpsDenominator).
		QuoRaw(types.BpsDenominator)
}
