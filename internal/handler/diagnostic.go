package handler

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/a2eg/a2eg-backend/internal/database"
	"github.com/a2eg/a2eg-backend/internal/model"
)

// Values reported by the diagnostic endpoint.
const (
	BackendRunning = "Running"

	DatabaseNotAvailable   = "Not Available"
	DatabaseNotFound       = "Database module not found"
	DatabaseNotInitialized = "Available but not initialized"
	DatabaseAvailable      = "Available"
	DatabaseWorking        = "Connected & Working"
	DatabaseErrorPrefix    = "Error: "
	DatabaseListErrPrefix  = "Connected but Error: "

	StatusConnected    = "Connected"
	StatusNotConnected = "Not Connected"

	ValueConfigured = "Configured"
	ValueSet        = "Set"
	ValueNotSet     = "Not Set"

	// MaxCollections caps the collection names returned.
	MaxCollections = 10
	// MaxErrorChars caps the error text embedded in the response.
	MaxErrorChars = 50
)

// Probe outcomes, one per branch of the database check.
const (
	OutcomeUnavailable   = "unavailable"
	OutcomeError         = "error"
	OutcomeUninitialized = "uninitialized"
	OutcomeConnected     = "connected"
	OutcomeListError     = "list_error"
)

// ProbeRecorder counts diagnostic probe outcomes.
type ProbeRecorder interface {
	ObserveProbe(outcome string)
}

// DiagnosticHandler serves GET /test.  DB may be nil, which is treated like
// a collaborator that is not installed.
type DiagnosticHandler struct {
	DB      database.Provider
	Metrics ProbeRecorder
	Logger  *zerolog.Logger
}

// NewDiagnosticHandler wires the handler's collaborators.
func NewDiagnosticHandler(db database.Provider, metrics ProbeRecorder, logger *zerolog.Logger) *DiagnosticHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DiagnosticHandler{DB: db, Metrics: metrics, Logger: logger}
}

// Test reports whether the database collaborator is available and usable.
// Every failure is folded into the response body; the status is always 200.
func (h *DiagnosticHandler) Test(c echo.Context) error {
	resp := model.DiagnosticResponse{
		Backend:          BackendRunning,
		Database:         DatabaseNotAvailable,
		ConnectionStatus: StatusNotConnected,
		Collections:      []string{},
	}

	outcome := h.probe(c, &resp)
	if h.Metrics != nil {
		h.Metrics.ObserveProbe(outcome)
	}

	// database_url and database_name report env presence only, replacing
	// whatever probe filled in.
	resp.DatabaseURL = presence("DATABASE_URL")
	resp.DatabaseName = presence("DATABASE_NAME")

	return c.JSON(http.StatusOK, resp)
}

func (h *DiagnosticHandler) probe(c echo.Context, resp *model.DiagnosticResponse) string {
	if h.DB == nil {
		resp.Database = DatabaseNotFound
		return OutcomeUnavailable
	}

	ctx := c.Request().Context()
	db, err := h.DB.Resolve(ctx)
	switch {
	case errors.Is(err, database.ErrUnavailable):
		resp.Database = DatabaseNotFound
		return OutcomeUnavailable
	case err != nil:
		h.Logger.Warn().Err(err).Msg("database collaborator lookup failed")
		resp.Database = DatabaseErrorPrefix + truncate(err.Error(), MaxErrorChars)
		return OutcomeError
	case db == nil:
		resp.Database = DatabaseNotInitialized
		return OutcomeUninitialized
	}

	resp.Database = DatabaseAvailable
	resp.DatabaseURL = ValueConfigured
	resp.DatabaseName = db.Name()
	if resp.DatabaseName == "" {
		resp.DatabaseName = StatusConnected
	}
	resp.ConnectionStatus = StatusConnected

	names, err := db.ListCollectionNames(ctx)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("listing collections failed")
		resp.Database = DatabaseListErrPrefix + truncate(err.Error(), MaxErrorChars)
		return OutcomeListError
	}
	if len(names) > MaxCollections {
		names = names[:MaxCollections]
	}
	resp.Collections = append(resp.Collections, names...)
	resp.Database = DatabaseWorking
	return OutcomeConnected
}

// presence reports whether an environment variable holds a non-empty value.
func presence(key string) string {
	if os.Getenv(key) != "" {
		return ValueSet
	}
	return ValueNotSet
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
