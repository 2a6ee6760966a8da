package model

// GreetingResponse is returned by the greeting endpoints.
type GreetingResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// DiagnosticResponse reports on the backend and its optional database.
// Every field is always serialized; Collections is never nil.
type DiagnosticResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}
