package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/roster-api-go/pkg/cache"
	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/database"
	"github.com/arnavshah/roster-api-go/pkg/export"
	"github.com/arnavshah/roster-api-go/pkg/models"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

// solved is the outcome of one timetable request
type solved struct {
	runID  string
	result *scheduler.Result
	cached bool
}

// ScheduleTimetable solves a roster configuration and returns the timetable as JSON
func (h *Handler) ScheduleTimetable(c *gin.Context) {
	out, ok := h.solve(c)
	if !ok {
		return
	}

	res := out.result
	c.JSON(http.StatusOK, gin.H{
		"run_id":     out.runID,
		"seed":       res.Seed,
		"cycles":     res.Cycles,
		"slots":      res.Timetable.Len(),
		"shortfalls": res.Shortfalls,
		"stats":      res.Stats,
		"cached":     out.cached,
		"timetable":  res.Timetable,
	})
}

// ExportTimetable solves a roster configuration and returns it as a file download
func (h *Handler) ExportTimetable(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, ok := h.solve(c)
	if !ok {
		return
	}

	c.Header("X-Run-ID", out.runID)
	h.writeExport(c, format, out.result.Timetable)
}

// GetRun returns a stored run of the calling key, or a download of it with ?format=
func (h *Handler) GetRun(c *gin.Context) {
	apiKey, ok := currentKey(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}

	run, err := database.FindRun(h.DB, c.Param("id"), apiKey.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load run"})
		return
	}

	name := c.Query("format")
	if name == "" {
		c.JSON(http.StatusOK, gin.H{"run": run, "result": json.RawMessage(run.Payload)})
		return
	}

	format, err := export.ParseFormat(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var res scheduler.Result
	if err := json.Unmarshal([]byte(run.Payload), &res); err != nil || res.Timetable == nil {
		h.Logger.Error("decode stored run", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored run is unreadable"})
		return
	}
	h.writeExport(c, format, res.Timetable)
}

func (h *Handler) writeExport(c *gin.Context, format export.Format, t *models.Timetable) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, t, h.Export); err != nil {
		h.Logger.Error("export timetable", zap.String("format", string(format)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not export timetable"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName(h.Export)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// solve binds the roster, solves it (or reuses a cached solve for the same roster and seed),
// stores the run and records usage. On failure it has already written the response.
func (h *Handler) solve(c *gin.Context) (*solved, bool) {
	apiKey, ok := currentKey(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return nil, false
	}

	var seed int64
	if raw := c.Query("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
			return nil, false
		}
		seed = v
	}

	var input models.RosterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	cfg, err := config.BuildConfiguration(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	out := &solved{runID: uuid.New().String()}
	if seed != 0 {
		if key, err := cache.Fingerprint(input, seed); err == nil {
			out.result, out.cached = h.Cache.Get(key)
		}
	}

	if out.result == nil {
		s := scheduler.NewScheduler(cfg, scheduler.Options{
			Seed:    seed,
			Logger:  h.Logger.With(zap.String("run_id", out.runID)),
			Metrics: h.Metrics,
		})
		res, err := s.MakeTimetable()
		if errors.Is(err, scheduler.ErrInfeasible) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return nil, false
		}
		if err != nil {
			h.Logger.Error("solve timetable", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not solve timetable"})
			return nil, false
		}
		out.result = res
	}

	key, err := cache.Fingerprint(input, out.result.Seed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fingerprint roster"})
		return nil, false
	}
	if !out.cached {
		h.Cache.Put(key, out.result)
	}

	payload, err := json.Marshal(out.result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode timetable"})
		return nil, false
	}
	run := &database.TimetableRun{
		ID:          out.runID,
		KeyID:       apiKey.ID,
		Fingerprint: key.String(),
		Seed:        out.result.Seed,
		Cycles:      out.result.Cycles,
		Slots:       out.result.Timetable.Len(),
		Shortfalls:  len(out.result.Shortfalls),
		Payload:     string(payload),
	}
	if err := database.SaveRun(h.DB, run); err != nil {
		h.Logger.Error("save run", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store run"})
		return nil, false
	}

	if err := database.RecordUsage(h.DB, apiKey.ID, h.now(), run.Slots, len(cfg.Workers)); err != nil {
		h.Logger.Warn("record usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}

	h.Logger.Info("timetable solved",
		zap.String("run_id", run.ID),
		zap.Int64("seed", run.Seed),
		zap.Int("slots", run.Slots),
		zap.Int("shortfalls", run.Shortfalls),
		zap.Bool("cached", out.cached),
	)
	return out, true
}
