package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/config"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/processing/fuel"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/repository/device"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/service"
	"github.com/quicktrack/fleetcontrol-service-go/version"
)

type handlers struct {
	activity *service.ActivityService
	fuel     *service.FuelService
	fleet    *service.FleetService
	report   *service.ReportService
	pool     *pgxpool.Pool
	loc      *time.Location
	l        *log.Logger
}

func newHandlers(pool *pgxpool.Pool) *handlers {
	loc := time.Local
	drops, refuels := fuelThresholds()
	fuelService := service.InitFuelService(
		pool,
		fuel.NewExtractor(fuel.WithCandidateKeyList(config.FuelKeys)),
		drops, refuels,
		loc)
	addresses := newAddressResolver()
	return &handlers{
		activity: service.InitActivityService(pool, activityConfig(), loc),
		fuel:     fuelService,
		fleet:    service.InitFleetService(pool, activityConfig(), fuelService, addresses, loc),
		report:   service.InitReportService(pool, activityConfig(), tripConfig(), addresses, loc),
		pool:     pool,
		loc:      loc,
		l:        log.Default().Named("api"),
	}
}

func registerRoutes(h *handlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/devices", h.devices)
	mux.HandleFunc("GET /api/devices/{id}/activity", h.deviceActivity)
	mux.HandleFunc("GET /api/devices/{id}/fuel", h.deviceFuel)
	mux.HandleFunc("GET /api/devices/{id}/trips", h.deviceTrips)
	mux.HandleFunc("GET /api/fleet/activity", h.fleetActivity)
	mux.HandleFunc("GET /api/fleet/status", h.fleetStatus)
	return mux
}

func (h *handlers) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.l.Error("could not encode response", log.ErrorField(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidMonth):
		status = http.StatusBadRequest
	}
	h.l.Error("request failed", log.ErrorField(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing left to do here
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// month returns the requested month (YYYY-MM), defaulting to the
// current one.
func (h *handlers) month(r *http.Request) string {
	if m := r.URL.Query().Get("month"); m != "" {
		return m
	}
	return time.Now().In(h.loc).Format("2006-01")
}

func (h *handlers) deviceID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid device id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, map[string]string{"status": "ok", "version": version.Version})
}

func (h *handlers) devices(w http.ResponseWriter, r *http.Request) {
	devices, err := device.LoadEnabled(r.Context(), h.pool)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, devices)
}

func (h *handlers) deviceActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	res, err := h.activity.MonthlyActivity(r.Context(), id, h.month(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, res)
}

func (h *handlers) deviceFuel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	res, err := h.fuel.MonthlyFuel(r.Context(), id, h.month(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, res)
}

func (h *handlers) deviceTrips(w http.ResponseWriter, r *http.Request) {
	id, ok := h.deviceID(w, r)
	if !ok {
		return
	}
	res, err := h.report.MonthlyTripReport(r.Context(), id, h.month(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, res)
}

func (h *handlers) fleetActivity(w http.ResponseWriter, r *http.Request) {
	res, err := h.fleet.MonthOverview(r.Context(), h.month(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, res)
}

func (h *handlers) fleetStatus(w http.ResponseWriter, r *http.Request) {
	res, err := h.fleet.Status(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, res)
}
