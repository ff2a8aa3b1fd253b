package types

// ProgressType distinguishes the two reporting phases of a scan.
type ProgressType string

const (
	// ProgressScan is emitted while the walker discovers filenames.
	ProgressScan ProgressType = "scan"
	// ProgressIndex is emitted while documents are written to the index.
	ProgressIndex ProgressType = "index"
)

// ProgressEvent is one sample of scan or indexing progress. Producers
// send it non-blocking over a bounded channel; consumers only need
// periodic samples, so drops are tolerable.
type ProgressEvent struct {
	Type           ProgressType `json:"ptype"`
	Total          uint64       `json:"total"` // 0 means unknown
	Processed      uint64       `json:"processed"`
	CurrentFile    string       `json:"current_file"`
	CurrentFolder  string       `json:"current_folder"`
	Status         string       `json:"status"`
	FilesPerSecond float64      `json:"files_per_second"`
	ETASeconds     uint64       `json:"eta_seconds"`
}
