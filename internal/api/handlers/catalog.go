package handlers

import (
	"net/http"

	"mana-backtest/internal/ability"
	"mana-backtest/internal/accrual"
	"mana-backtest/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ListModels handles GET /api/v1/models
func ListModels(c *gin.Context) {
	legacy := accrual.NewLegacy()
	revised := accrual.NewRevised()

	descriptions := map[string]models.ModelInfo{
		accrual.LegacyName: {
			Name:        accrual.LegacyName,
			Description: "Pays per event at a tick, plus a flat bonus once when the bonus label fired.",
			Parameters: []models.ParameterInfo{
				{Name: "per_hit", Type: "decimal", Description: "Gain per event", Default: legacy.PerHit.String()},
				{Name: "bonus", Type: "decimal", Description: "Flat gain when the bonus label is present", Default: legacy.Bonus.String()},
				{Name: "bonus_label", Type: "label", Description: "Label that triggers the bonus", Default: string(legacy.BonusLabel)},
			},
		},
		accrual.RevisedName: {
			Name:        accrual.RevisedName,
			Description: "Pays a flat amount on every tick with at least one event.",
			Parameters: []models.ParameterInfo{
				{Name: "per_tick", Type: "decimal", Description: "Gain per active tick", Default: revised.PerTick.String()},
			},
		},
	}

	out := make([]models.ModelInfo, 0, len(descriptions))
	for _, name := range accrual.Names() {
		if info, ok := descriptions[name]; ok {
			out = append(out, info)
		}
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}

// ListAbilities handles GET /api/v1/abilities
func ListAbilities(c *gin.Context) {
	rot := ability.DefaultRotation()
	c.JSON(http.StatusOK, models.AbilitiesResponse{
		Abilities:    rot.Describe(),
		MultihitLead: rot.MultihitLead,
	})
}
