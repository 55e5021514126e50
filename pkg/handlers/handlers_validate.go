package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/models"
)

// ValidateInput checks a roster configuration without solving it
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.RosterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	cfg, err := config.BuildConfiguration(input)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	// positions nobody can hold make every cycle infeasible
	var uncovered []string
	for _, p := range cfg.Positions {
		covered := false
		for _, w := range cfg.Workers {
			if w.CanHold(p) {
				covered = true
				break
			}
		}
		if !covered {
			uncovered = append(uncovered, p)
		}
	}
	if uncovered == nil {
		uncovered = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": len(uncovered) == 0 && cfg.SlotsInCycle > 0,
		"stats": gin.H{
			"worker_count":   len(cfg.Workers),
			"position_count": len(cfg.Positions),
			"slots_in_cycle": cfg.SlotsInCycle,
			"cycles":         cfg.Cycles,
		},
		"uncovered_positions": uncovered,
	})
}
