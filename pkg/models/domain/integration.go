package domain

type IntegrationStatus string

const (
	IntegrationStatusConnected    IntegrationStatus = "connected"
	IntegrationStatusError        IntegrationStatus = "error"
	IntegrationStatusSyncing      IntegrationStatus = "syncing"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
)

func (s IntegrationStatus) Valid() bool {
	switch s {
	case IntegrationStatusConnected, IntegrationStatusError, IntegrationStatusSyncing, IntegrationStatusDisconnected:
		return true
	}
	return false
}

type DataSource string

const (
	DataSourceCloudBilling       DataSource = "CloudBilling"
	DataSourcePlatformCostCenter DataSource = "PlatformCostCenter"
	DataSourceCICDChargeEvents   DataSource = "CICDChargeEvents"
)

func (d DataSource) Valid() bool {
	switch d {
	case DataSourceCloudBilling, DataSourcePlatformCostCenter, DataSourceCICDChargeEvents:
		return true
	}
	return false
}

// LastSyncJustNow is what connect and refresh record as the last sync.
const LastSyncJustNow = "just now"

type Integration struct {
	ID               string
	Name             string
	Status           IntegrationStatus
	LastSync         *string // nil when the source never synced
	NextSync         string  // optional, "in 25 minutes"
	RecordsProcessed *int64
	DataSource       DataSource
}

func (i Integration) Clone() Integration {
	if i.LastSync != nil {
		v := *i.LastSync
		i.LastSync = &v
	}
	if i.RecordsProcessed != nil {
		v := *i.RecordsProcessed
		i.RecordsProcessed = &v
	}
	return i
}

// ConnectResult is the outcome of a connect attempt. A failed attempt is a
// normal result the caller is expected to retry, not an error.
type ConnectResult struct {
	Success bool
	Message string
}
