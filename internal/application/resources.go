package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/ports"
	"go.uber.org/zap"
)

const DefaultSystemContract domain.AccountName = "eosio"

const (
	powerUpStateTable = "powup.state"
	rexPoolTable      = "rexpool"

	DefaultPowerUpInterval = 30 * time.Second
	DefaultREXInterval     = 30 * time.Second
	DefaultSampleInterval  = time.Second
)

var ErrNoRows = errors.New("table returned no rows")

type ResourcesConfig struct {
	SystemContract  domain.AccountName
	SampleAccount   domain.AccountName
	CoreSymbol      domain.Symbol
	PowerUpInterval time.Duration
	REXInterval     time.Duration
	SampleInterval  time.Duration
}

func (c *ResourcesConfig) applyDefaults() {
	if c.SystemContract == "" {
		c.SystemContract = DefaultSystemContract
	}
	if c.PowerUpInterval <= 0 {
		c.PowerUpInterval = DefaultPowerUpInterval
	}
	if c.REXInterval <= 0 {
		c.REXInterval = DefaultREXInterval
	}
	if c.SampleInterval <= 0 {
		c.SampleInterval = DefaultSampleInterval
	}
}

// Resources polls the rental markets and the sampling account, and prices
// requests against whatever snapshots are current.
type Resources struct {
	client ports.ChainClient
	clock  ports.Clock
	config ResourcesConfig

	powerUp *Poller[domain.PowerUpState]
	rex     *Poller[domain.REXState]
	sample  *Poller[domain.SampleUsage]
}

func NewResources(client ports.ChainClient, clock ports.Clock, logger *zap.Logger, config ResourcesConfig) *Resources {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	config.applyDefaults()

	r := &Resources{client: client, clock: clock, config: config}
	r.powerUp = NewPoller("powerup", config.PowerUpInterval, r.fetchPowerUp, logger, clock)
	r.rex = NewPoller("rex", config.REXInterval, r.fetchREX, logger, clock)
	r.sample = NewPoller("sample", config.SampleInterval, r.fetchSample, logger, clock)

	return r
}

func (r *Resources) PowerUp() *Poller[domain.PowerUpState] { return r.powerUp }

func (r *Resources) REX() *Poller[domain.REXState] { return r.rex }

func (r *Resources) Sample() *Poller[domain.SampleUsage] { return r.sample }

// Runners lists the pollers to hand to a Group. The sample poller is left
// out when no sample account is configured.
func (r *Resources) Runners() []Runner {
	runners := []Runner{r.powerUp, r.rex}
	if r.config.SampleAccount != "" {
		runners = append(runners, r.sample)
	}
	return runners
}

// RefreshSteps lists the market polls in the order Refresh runs them.
// The staking sample is only polled when a sample account is configured.
func (r *Resources) RefreshSteps() []RefreshStep {
	steps := []RefreshStep{
		{Name: "PowerUp", Poll: r.powerUp.Poll},
		{Name: "REX", Poll: r.rex.Poll},
	}
	if r.config.SampleAccount != "" {
		steps = append(steps, RefreshStep{Name: "staking sample", Poll: r.sample.Poll})
	}
	return steps
}

// Refresh polls every market once.
func (r *Resources) Refresh(ctx context.Context) error {
	return RunRefreshSteps(ctx, r.RefreshSteps())
}

func (r *Resources) fetchPowerUp(ctx context.Context) (domain.PowerUpState, error) {
	row, err := r.singleRow(ctx, ports.TableRowsRequest{
		Code:  r.config.SystemContract,
		Scope: "",
		Table: powerUpStateTable,
		Limit: 1,
	})
	if err != nil {
		return domain.PowerUpState{}, err
	}
	return decodePowerUpState(row)
}

func (r *Resources) fetchREX(ctx context.Context) (domain.REXState, error) {
	row, err := r.singleRow(ctx, ports.TableRowsRequest{
		Code:  r.config.SystemContract,
		Scope: string(r.config.SystemContract),
		Table: rexPoolTable,
		Limit: 1,
	})
	if err != nil {
		return domain.REXState{}, err
	}
	return decodeREXState(row)
}

func (r *Resources) fetchSample(ctx context.Context) (domain.SampleUsage, error) {
	if r.config.SampleAccount == "" {
		return domain.SampleUsage{}, errors.New("sample account is not configured")
	}

	account, err := r.client.GetAccount(ctx, r.config.SampleAccount)
	if err != nil {
		return domain.SampleUsage{}, err
	}
	return domain.SampleFromAccount(account, r.config.CoreSymbol)
}

func (r *Resources) singleRow(ctx context.Context, req ports.TableRowsRequest) ([]byte, error) {
	rows, err := r.client.GetTableRows(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", req.Code, req.Table, ErrNoRows)
	}
	return rows[0], nil
}

// PowerUpQuote prices msToRent of CPU with the integral fee.
func (r *Resources) PowerUpQuote(msToRent float64) (Quote, error) {
	return r.powerUpQuote(msToRent, QuoteModelPowerUp)
}

// SpotQuote prices msToRent of CPU at the curve price after the rental.
// It never quotes less than PowerUpQuote for the same snapshot.
func (r *Resources) SpotQuote(msToRent float64) (Quote, error) {
	return r.powerUpQuote(msToRent, QuoteModelPowerUpSpot)
}

func (r *Resources) powerUpQuote(msToRent float64, model QuoteModel) (Quote, error) {
	if msToRent < 0 {
		return Quote{}, fmt.Errorf("ms to rent must not be negative: %v", msToRent)
	}

	snapshot, err := r.powerUp.Snapshot()
	if err != nil {
		return Quote{}, err
	}

	now := r.clock.Now()
	cpu := snapshot.Value.CPU
	pc := domain.NewPricingContext(now, cpu.ShiftedRatio(now))

	var fee domain.Asset
	if model == QuoteModelPowerUpSpot {
		fee, err = cpu.SpotFee(msToRent, pc)
	} else {
		fee, err = cpu.Fee(msToRent, pc)
	}
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Model:        model,
		MsToRent:     msToRent,
		Fee:          fee,
		ShiftedRatio: pc.ShiftedRatio,
		SnapshotTime: snapshot.Updated,
		QuotedAt:     now,
	}, nil
}

// REXQuote prices msToRent of CPU rented through REX. It needs the REX
// pool, the sampled staking cost and the PowerUp shift.
func (r *Resources) REXQuote(msToRent float64) (Quote, error) {
	if msToRent < 0 {
		return Quote{}, fmt.Errorf("ms to rent must not be negative: %v", msToRent)
	}

	rex, err := r.rex.Snapshot()
	if err != nil {
		return Quote{}, err
	}
	sample, err := r.sample.Snapshot()
	if err != nil {
		return Quote{}, err
	}
	powerUp, err := r.powerUp.Snapshot()
	if err != nil {
		return Quote{}, err
	}

	now := r.clock.Now()
	shifted := powerUp.Value.CPU.ShiftedRatio(now)
	fee, err := rex.Value.Price(msToRent, sample.Value, shifted)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Model:        QuoteModelREX,
		MsToRent:     msToRent,
		Fee:          fee,
		ShiftedRatio: shifted,
		SnapshotTime: rex.Updated,
		QuotedAt:     now,
	}, nil
}

// Quote dispatches on model.
func (r *Resources) Quote(model QuoteModel, msToRent float64) (Quote, error) {
	switch model {
	case QuoteModelPowerUp:
		return r.PowerUpQuote(msToRent)
	case QuoteModelPowerUpSpot:
		return r.SpotQuote(msToRent)
	case QuoteModelREX:
		return r.REXQuote(msToRent)
	default:
		return Quote{}, fmt.Errorf("unknown quote model %q", model)
	}
}

// Aggregates recomputes every derived value from the current snapshots.
// Sections whose inputs are missing or invalid are left not Ready.
func (r *Resources) Aggregates() Aggregates {
	now := r.clock.Now()
	out := Aggregates{At: now}

	powerUp, powerUpErr := r.powerUp.Snapshot()
	shifted := 0.0
	if powerUpErr == nil {
		cpu := powerUp.Value.CPU
		shifted = cpu.ShiftedRatio(now)
		pc := domain.NewPricingContext(now, shifted)
		adjusted := cpu.AdjustedUtilizationAt(now)
		out.PowerUp = PowerUpAggregates{
			Utilization:         cpu.UtilizationRatio(),
			AdjustedUtilization: adjusted,
			ShiftedRatio:        shifted,
			AvailableMs:         pc.Available(),
			MinPowerUpFee:       powerUp.Value.MinPowerUpFee,
			Updated:             powerUp.Updated,
		}
		if cpu.Weight > 0 {
			out.PowerUp.AdjustedRatio = adjusted / float64(cpu.Weight)
		}
		if fee, err := cpu.Fee(1, pc); err == nil {
			out.PowerUp.PricePerMs = fee
			out.PowerUp.Ready = true
		}
	}

	sample, sampleErr := r.sample.Snapshot()
	if sampleErr == nil {
		out.Staking = StakingAggregates{
			Ready:      true,
			Sample:     sample.Value,
			MsPerToken: sample.Value.CPU,
			Updated:    sample.Updated,
		}
	}

	rex, rexErr := r.rex.Snapshot()
	if rexErr == nil {
		out.REX = REXAggregates{
			Utilization: rex.Value.Utilization(),
			Updated:     rex.Updated,
		}
		if sampleErr == nil && powerUpErr == nil {
			out.REX.MsPerToken = rex.Value.MsPerToken(sample.Value, shifted)
			if fee, err := rex.Value.Price(1, sample.Value, shifted); err == nil {
				out.REX.PricePerMs = fee
				out.REX.Ready = true
			}
		}
	}

	return out
}
