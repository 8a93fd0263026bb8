package trace

// RunTrace collects DayRecords during a simulation run, in (day, SKU
// processing) order. The full trace is what makes two runs comparable
// byte-for-byte: identical inputs must yield identical traces.
type RunTrace struct {
	Records []DayRecord `json:"records"`
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace() *RunTrace {
	return &RunTrace{Records: make([]DayRecord, 0)}
}

// Record appends a day record.
func (rt *RunTrace) Record(r DayRecord) {
	rt.Records = append(rt.Records, r)
}
