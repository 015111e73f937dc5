package handlers

import (
	"net/http"

	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo returns the full state machine for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.Transitions(),
		"terminal_states": statemachine.TerminalStatuses(),
		"description":     "Food Ordering Order Lifecycle State Machine",
	})
}
