package driven

// ProgressReporter receives ingestion progress. Implementations must
// tolerate Start being called once per document.
type ProgressReporter interface {
	// Start begins a unit of work with the given number of steps.
	Start(label string, total int)

	// Increment advances the current unit by one step.
	Increment()

	// Finish completes the current unit.
	Finish()
}
