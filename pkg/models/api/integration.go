package api

type Integration struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Status           string  `json:"status"`
	LastSync         *string `json:"lastSync"`
	NextSync         string  `json:"nextSync,omitempty"`
	RecordsProcessed *int64  `json:"recordsProcessed,omitempty"`
	DataSource       string  `json:"dataSource"`
}

type ConnectResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
