package proximity

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

type Stats struct {
	Ticks int

	SessionsOpened        int
	ClosedOutOfRange      int
	ClosedOnDisappearance int
	ClosedAtFinalize      int

	MissingPositions int
}

// Tracker maintains contact sessions between every live car and bus.
// A Tracker owns its Ledger and is not safe for concurrent use; run one
// Tracker per simulation.
type Tracker struct {
	commRange float64

	ledger *Ledger
	stats  Stats

	currentTime float64
	finalized   bool
}

func NewTracker(commRange float64) (*Tracker, error) {
	if math.IsNaN(commRange) || math.IsInf(commRange, 0) || commRange <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommRange, commRange)
	}

	return &Tracker{
		commRange: commRange,
		ledger:    NewLedger(),
	}, nil
}

func (t *Tracker) CommRange() float64 {
	return t.commRange
}

// Time is the time of the last processed tick
func (t *Tracker) Time() float64 {
	return t.currentTime
}

func (t *Tracker) Stats() Stats {
	return t.stats
}

func (t *Tracker) Ledger() *Ledger {
	return t.ledger
}

// Update applies one tick. A rejected tick leaves the tracker untouched.
func (t *Tracker) Update(snapshot *Snapshot) error {
	if t.finalized {
		return ErrTrackerFinalized
	}

	now := snapshot.Time
	if math.IsNaN(now) || math.IsInf(now, 0) || now < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTime, now)
	}
	if t.stats.Ticks > 0 && now < t.currentTime {
		return fmt.Errorf("%w: %v after %v", ErrNonMonotonicTime, now, t.currentTime)
	}

	buses, cars, missing := snapshot.live()
	t.stats.MissingPositions += missing

	liveBuses := make(map[string]bool, len(buses))
	for _, bus := range buses {
		liveBuses[bus] = true
	}
	liveCars := make(map[string]bool, len(cars))

	for _, car := range cars {
		liveCars[car] = true
		t.ledger.ensureCar(car)

		carLocation := snapshot.Positions[car]

		for _, bus := range buses {
			history := t.ledger.ensurePair(car, bus)
			distance := carLocation.Distance(snapshot.Positions[bus])

			if distance <= t.commRange {
				if t.ledger.enter(car, bus, now) {
					t.stats.SessionsOpened++

					log.Debug().
						Str("car", car).
						Str("bus", bus).
						Float64("simtime", now).
						Float64("distance", distance).
						Msg("Car entered bus range")
				}
			} else if history.IsOpen() {
				t.ledger.exit(PairKey{Car: car, Bus: bus}, now)
				t.stats.ClosedOutOfRange++

				log.Debug().
					Str("car", car).
					Str("bus", bus).
					Float64("simtime", now).
					Float64("distance", distance).
					Str("reason", "range").
					Msg("Car left bus range")
			}
		}
	}

	// Anything still open that involves a vehicle missing from this tick
	for _, key := range t.ledger.OpenPairs() {
		if liveCars[key.Car] && liveBuses[key.Bus] {
			continue
		}

		t.ledger.exit(key, now)
		t.stats.ClosedOnDisappearance++

		log.Debug().
			Str("car", key.Car).
			Str("bus", key.Bus).
			Float64("simtime", now).
			Str("reason", "disappeared").
			Msg("Closed session for departed vehicle")
	}

	t.currentTime = now
	t.stats.Ticks++

	return nil
}

// Finalize closes any session still open at the last processed tick time and
// returns the ledger. Calling it again has no further effect.
func (t *Tracker) Finalize() *Ledger {
	if t.finalized {
		return t.ledger
	}

	for _, key := range t.ledger.OpenPairs() {
		t.ledger.exit(key, t.currentTime)
		t.stats.ClosedAtFinalize++
	}

	t.finalized = true

	log.Debug().
		Float64("simtime", t.currentTime).
		Int("closed", t.stats.ClosedAtFinalize).
		Msg("Tracker finalized")

	return t.ledger
}
