// Package external provides in-process implementations of the engine's
// external handles: the staking ledger, reward distributor, yield source,
// proof verifiers and clock. The daemon wires these for local operation;
// production deployments substitute RPC-backed implementations.
package external

import (
	"sync"
	"time"

	"cosmossdk.io/math"
)

// SystemClock reads the host's unix time.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// ManualClock is an operator-advanced clock, used by tests and replay
// tooling. It never moves backwards.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock starts a clock at the given unix time.
func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by secs.
func (c *ManualClock) Advance(secs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += secs
}

// Set jumps the clock to a later instant; earlier values are ignored.
func (c *ManualClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now > c.now {
		c.now = now
	}
}

// StaticLedger is a staking ledger with fixed per-account balances.
type StaticLedger struct {
	mu       sync.RWMutex
	balances map[string]math.Int
}

// NewStaticLedger builds a ledger from decimal base-unit strings.
func NewStaticLedger(balances map[string]string) *StaticLedger {
	parsed := make(map[string]math.Int, len(balances))
	for addr, raw := range balances {
		v, ok := math.NewIntFromString(raw)
		if !ok {
			v = math.ZeroInt()
		}
		parsed[addr] = v
	}
	return &StaticLedger{balances: parsed}
}

// SetStake overwrites one account's staked amount.
func (l *StaticLedger) SetStake(address string, amount math.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[address] = amount
}

func (l *StaticLedger) StakedOf(address string) math.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if v, ok := l.balances[address]; ok {
		return v
	}
	return math.ZeroInt()
}

func (l *StaticLedger) TotalStaked() math.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := math.ZeroInt()
	for _, v := range l.balances {
		total = total.Add(v)
	}
	return total
}

// TransferRecord is one outbound payment observed by RecordingDistributor.
type TransferRecord struct {
	To     string
	Amount math.Int
}

// RecordingDistributor accepts every transfer and keeps the history; the
// local daemon uses it in place of a real settlement layer. An optional
// failure hook lets tests exercise the TransferFailed path.
type RecordingDistributor struct {
	mu        sync.Mutex
	transfers []TransferRecord

	// FailNext makes the next Transfer call return failErr once.
	failErr error
}

// NewRecordingDistributor creates an empty distributor.
func NewRecordingDistributor() *RecordingDistributor {
	return &RecordingDistributor{}
}

// FailNext arms a one-shot transfer failure.
func (d *RecordingDistributor) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failErr = err
}

func (d *RecordingDistributor) Transfer(to string, amount math.Int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failErr != nil {
		err := d.failErr
		d.failErr = nil
		return err
	}
	d.transfers = append(d.transfers, TransferRecord{To: to, Amount: amount})
	return nil
}

// Transfers returns a copy of the observed payment history.
func (d *RecordingDistributor) Transfers() []TransferRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]TransferRecord, len(d.transfers))
	copy(out, d.transfers)
	return out
}

// TotalPaid sums everything sent to one recipient.
func (d *RecordingDistributor) TotalPaid(to string) math.Int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := math.ZeroInt()
	for _, t := range d.transfers {
		if t.To == to {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// StaticYieldSource reports a fixed distributable reward balance.
type StaticYieldSource struct {
	Balance math.Int
}

func (s StaticYieldSource) RewardBalance() math.Int {
	if s.Balance.IsNil() {
		return math.ZeroInt()
	}
	return s.Balance
}

// AcceptAllVerifier approves every proof. The signature scheme behind real
// verification is a deployment concern; the engine only sees the boolean.
type AcceptAllVerifier struct{}

func (AcceptAllVerifier) VerifyContribution(string, string, []byte) bool { return true }

func (AcceptAllVerifier) VerifyCompletion(string, uint64, []byte, []byte) bool { return true }

// RejectAllVerifier rejects every proof; tests use it for the InvalidProof
// paths.
type RejectAllVerifier struct{}

func (RejectAllVerifier) VerifyContribution(string, string, []byte) bool { return false }

func (RejectAllVerifier) VerifyCompletion(string, uint64, []byte, []byte) bool { return false }
