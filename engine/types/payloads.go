package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Execution payloads are opaque JSON blobs attached at proposal creation and
// decoded only by the matching execution handler once the proposal passes.

// AllocationPayload carries the new treasury split for a
// treasury_allocation proposal.
type AllocationPayload struct {
	Allocation Allocation `json:"allocation"`
}

// ParamsPayload carries replacement governance parameters for a
// parameter_change proposal.
type ParamsPayload struct {
	Params GovernanceParams `json:"params"`
}

// ChallengePayload spawns a coding challenge when a challenge_creation
// proposal executes.
type ChallengePayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Difficulty    uint8    `json:"difficulty"`
	MultiplierBps uint32   `json:"multiplier_bps"`
	Skills        []string `json:"skills"`
	TimeLimitSecs int64    `json:"time_limit_secs"`
}

// RepoPayload adds or soft-removes a repository when a repo_management
// proposal executes.
type RepoPayload struct {
	Remove     bool     `json:"remove"`
	URL        string   `json:"url"`
	Owner      string   `json:"owner"`
	Weight     uint32   `json:"weight"`
	Categories []string `json:"categories"`
}

// BountyPayload funds a bounty out of the treasury when a bounty_creation
// proposal executes.
type BountyPayload struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Category        BountyCategory `json:"category"`
	Reward          math.Int       `json:"reward"`
	DeadlineUnix    int64          `json:"deadline_unix"`
	Skills          []string       `json:"skills"`
	MaxParticipants uint32         `json:"max_participants"`
}

// VerifyPayload verifies a developer when a developer_verification proposal
// executes.
type VerifyPayload struct {
	Address  string `json:"address"`
	Username string `json:"username"`
}

// EncodePayload marshals an execution payload for attachment at proposal
// creation.
func EncodePayload(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidPayload, err.Error())
	}
	return raw, nil
}

// DecodePayload unmarshals an execution payload into dst, surfacing malformed
// blobs as the typed payload error.
func DecodePayload(raw []byte, dst any) error {
	if len(raw) == 0 {
		return errorsmod.Wrap(ErrInvalidPayload, "empty payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errorsmod.Wrap(ErrInvalidPayload, err.Error())
	}
	return nil
}
