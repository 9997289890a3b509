package config

// Config is the daemon configuration, loaded from
// <NodeDir>/config/devdao_config.json with embedded defaults.
type Config struct {
	LogLevel  int    `json:"log_level"`
	LogFormat string `json:"log_format"` // "console" or "json"

	// DataDir holds the SQLite state database; EphemeralState switches to an
	// in-memory database for local experimentation.
	DataDir        string `json:"data_dir"`
	EphemeralState bool   `json:"ephemeral_state"`

	QueryServerPort int `json:"query_server_port"`

	// Admin is the privileged administrator address.
	Admin string `json:"admin"`

	Genesis GenesisConfig `json:"genesis"`
}

// GenesisConfig seeds governance parameters and the treasury allocation on
// first start. Amounts are decimal strings in base units.
type GenesisConfig struct {
	VotingDelaySecs    int64  `json:"voting_delay_secs"`
	VotingPeriodSecs   int64  `json:"voting_period_secs"`
	ExecutionDelaySecs int64  `json:"execution_delay_secs"`
	ProposalThreshold  string `json:"proposal_threshold"`
	QuorumBps          uint32 `json:"quorum_bps"`
	PassBps            uint32 `json:"pass_bps"`

	Allocation AllocationConfig `json:"allocation"`
}

// AllocationConfig is the initial five-way treasury split in basis points.
type AllocationConfig struct {
	RewardPoolBps          uint32 `json:"reward_pool_bps"`
	DevelopmentFundBps     uint32 `json:"development_fund_bps"`
	AIInfrastructureBps    uint32 `json:"ai_infrastructure_bps"`
	CommunityIncentivesBps uint32 `json:"community_incentives_bps"`
	ReserveBps             uint32 `json:"reserve_bps"`
}
