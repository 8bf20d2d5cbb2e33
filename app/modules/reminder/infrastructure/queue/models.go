package reminderqueue

// SweepJob runs one missing-prediction sweep. It carries no arguments; the
// sweep window comes from configuration.
type SweepJob struct{}

// Kind returns the job type identifier for River
func (SweepJob) Kind() string { return "predictions_missing_sweep" }

const queueName = "reminder"
