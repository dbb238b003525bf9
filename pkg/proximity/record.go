package proximity

// Record is one exported session row
type Record struct {
	CarID string
	BusID string

	EnterTime float64
	ExitTime  *float64
	StayTime  *float64
}

// Records flattens the ledger into rows grouped by car (first seen), then
// bus (first paired), then chronologically within the pair
func (l *Ledger) Records() []Record {
	var records []Record

	for _, car := range l.carOrder {
		entry := l.cars[car]

		for _, bus := range entry.busOrder {
			for _, session := range entry.buses[bus].Sessions {
				record := Record{
					CarID:     car,
					BusID:     bus,
					EnterTime: session.EnterTime,
				}

				if session.ExitTime != nil {
					exit := *session.ExitTime
					record.ExitTime = &exit
				}
				if session.StayTime != nil {
					stay := *session.StayTime
					record.StayTime = &stay
				}

				records = append(records, record)
			}
		}
	}

	return records
}
