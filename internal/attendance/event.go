package attendance

// ScanEvent is the queue payload emitted after a successful scan. The worker
// uses it to notify parents without re-reading the profile.
type ScanEvent struct {
	LogID        string `json:"log_id"`
	PersonID     string `json:"person_id"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	ParentMobile string `json:"parent_mobile"`
}
