package models

import "time"

// Record is one row of a run log keyed by column name. Values are the raw,
// trimmed cell strings; records are never mutated after they are read.
type Record map[string]string

// RunInfo describes a stored run file.
type RunInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// FileName returns the on-disk/object name of the run.
func (i RunInfo) FileName() string {
	return i.Name + RunExtension
}

// RunExtension is the suffix of run log files.
const RunExtension = ".csv"

// RunList is the message pushed to live subscribers when the archive changes.
type RunList struct {
	Runs []string `json:"runs"`
}
