package store

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"

	"github.com/devdao-labs/devdao-node/engine/types"
)

func TestProposal_Status(t *testing.T) {
	proposal := Proposal{StartTime: 1000, EndTime: 2000}

	tests := []struct {
		name string
		mut  func(p *Proposal)
		now  int64
		want types.ProposalStatus
	}{
		{"before voting opens", nil, 999, types.ProposalStatusPending},
		{"at open instant", nil, 1000, types.ProposalStatusVoting},
		{"at close instant", nil, 2000, types.ProposalStatusVoting},
		{"after close", nil, 2001, types.ProposalStatusClosed},
		{
			"evaluated and failed",
			func(p *Proposal) { p.Evaluated = true; p.Passed = false },
			2001, types.ProposalStatusFailed,
		},
		{
			"executed wins over everything",
			func(p *Proposal) { p.Evaluated = true; p.Passed = true; p.Executed = true },
			500, types.ProposalStatusExecuted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := proposal
			if tt.mut != nil {
				tt.mut(&p)
			}
			assert.Equal(t, tt.want, p.Status(tt.now))
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	v, ok := math.NewIntFromString("123456789012345678901234567890")
	assert.True(t, ok)
	assert.Equal(t, v.String(), ParseAmount(FormatAmount(v)).String())

	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("not-a-number").IsZero())
	assert.Equal(t, "0", FormatAmount(math.Int{}))
}

func TestIDListRoundTrip(t *testing.T) {
	assert.Nil(t, DecodeIDs(nil))
	assert.Nil(t, EncodeIDs(nil))

	ids := []uint{3, 1, 7}
	assert.Equal(t, ids, DecodeIDs(EncodeIDs(ids)))

	skills := []string{"go", "ml"}
	assert.Equal(t, skills, DecodeStrings(EncodeStrings(skills)))
}
