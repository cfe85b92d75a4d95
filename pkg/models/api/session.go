package api

type Session struct {
	ID           string   `json:"id"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

type RoleUpdate struct {
	Role string `json:"role"`
}

type Permission struct {
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
}

type FilterPreferences struct {
	TimeRange    TimeRange `json:"timeRange"`
	Unit         string    `json:"unit"`
	CloudAccount []string  `json:"cloudAccount"`
	ProjectTag   []string  `json:"projectTag"`
}

type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Error struct {
	Error string `json:"error"`
}
