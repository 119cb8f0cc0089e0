package models

// SafetyTip is a short piece of advice shown to job seekers.
type SafetyTip struct {
	ID   string `db:"id"   json:"id"`
	Text string `db:"text" json:"text"`
}

// WorkerRight is a statement of a worker's legal or customary rights.
type WorkerRight struct {
	ID   string `db:"id"   json:"id"`
	Text string `db:"text" json:"text"`
}
