package proximity

// PairKey identifies a (car, bus) pair
type PairKey struct {
	Car string
	Bus string
}

type carEntry struct {
	buses    map[string]*PairHistory
	busOrder []string
}

// Ledger holds every PairHistory seen during a run, keyed by car then bus.
// Iteration follows the order cars were first observed and, within a car,
// the order buses were first paired with it. Entries are never removed.
type Ledger struct {
	cars     map[string]*carEntry
	carOrder []string

	// pairs that currently have an open session
	open map[PairKey]*PairHistory
}

func NewLedger() *Ledger {
	return &Ledger{
		cars: map[string]*carEntry{},
		open: map[PairKey]*PairHistory{},
	}
}

func (l *Ledger) ensureCar(car string) *carEntry {
	entry, exists := l.cars[car]
	if !exists {
		entry = &carEntry{buses: map[string]*PairHistory{}}
		l.cars[car] = entry
		l.carOrder = append(l.carOrder, car)
	}

	return entry
}

func (l *Ledger) ensurePair(car string, bus string) *PairHistory {
	entry := l.ensureCar(car)

	history, exists := entry.buses[bus]
	if !exists {
		history = &PairHistory{}
		entry.buses[bus] = history
		entry.busOrder = append(entry.busOrder, bus)
	}

	return history
}

func (l *Ledger) enter(car string, bus string, t float64) bool {
	history := l.ensurePair(car, bus)
	if !history.enter(t) {
		return false
	}

	l.open[PairKey{Car: car, Bus: bus}] = history

	return true
}

func (l *Ledger) exit(key PairKey, t float64) bool {
	history, exists := l.open[key]
	if !exists {
		return false
	}

	delete(l.open, key)

	return history.exit(t)
}

// Pair returns the history for a pair if the pair was ever evaluated
func (l *Ledger) Pair(car string, bus string) (*PairHistory, bool) {
	entry, exists := l.cars[car]
	if !exists {
		return nil, false
	}

	history, exists := entry.buses[bus]

	return history, exists
}

// HasCar reports whether the car was ever observed
func (l *Ledger) HasCar(car string) bool {
	_, exists := l.cars[car]

	return exists
}

// Cars returns car ids in first-seen order
func (l *Ledger) Cars() []string {
	cars := make([]string, len(l.carOrder))
	copy(cars, l.carOrder)

	return cars
}

// Buses returns the buses paired with a car in first-paired order
func (l *Ledger) Buses(car string) []string {
	entry, exists := l.cars[car]
	if !exists {
		return nil
	}

	buses := make([]string, len(entry.busOrder))
	copy(buses, entry.busOrder)

	return buses
}

// OpenPairs returns the keys of every pair currently in contact
func (l *Ledger) OpenPairs() []PairKey {
	keys := make([]PairKey, 0, len(l.open))
	for key := range l.open {
		keys = append(keys, key)
	}

	return keys
}

// SessionCount is the total number of sessions across all pairs
func (l *Ledger) SessionCount() int {
	count := 0
	for _, car := range l.carOrder {
		for _, history := range l.cars[car].buses {
			count += len(history.Sessions)
		}
	}

	return count
}
