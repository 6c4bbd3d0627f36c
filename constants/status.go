package constants

// ImportStatus is the canonical status for rows in import_job.
type ImportStatus string

// Stable values (store these exact strings in DB).
const (
	ImportStatusProcessing ImportStatus = "PROCESSING" // claimed by a worker, pipeline running
	ImportStatusReady      ImportStatus = "READY"      // comparison data persisted, awaiting review
	ImportStatusFailed     ImportStatus = "FAILED"     // terminal failure
	ImportStatusCompleted  ImportStatus = "COMPLETED"  // reviewed changes applied
)

// Terminal reports whether no further transition is allowed from s.
func (s ImportStatus) Terminal() bool {
	return s == ImportStatusFailed || s == ImportStatusCompleted
}
