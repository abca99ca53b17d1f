package domain

import "time"

// DeploymentRecord is the current proxy/implementation pair of a contract on one network
type DeploymentRecord struct {
	Proxy          string `json:"proxy" yaml:"proxy"`
	Implementation string `json:"implementation" yaml:"implementation"`
}

// DeploymentRecords maps a logical contract name to its current record
type DeploymentRecords map[string]DeploymentRecord

// HistoryEntry is a write-once snapshot of a single deployment.
// Tx is nil when the proxy address was not produced by a fresh deployment transaction.
type HistoryEntry struct {
	Proxy          string  `json:"proxy" yaml:"proxy"`
	Implementation string  `json:"implementation" yaml:"implementation"`
	Tx             *string `json:"tx" yaml:"tx"`
}

// HistoryFile describes a file in a network's history directory
type HistoryFile struct {
	Name     string    `json:"name" yaml:"name"`
	Path     string    `json:"path" yaml:"path"`
	Modified time.Time `json:"modified" yaml:"modified"`
	Latest   bool      `json:"latest" yaml:"latest"`
}
