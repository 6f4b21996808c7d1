package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardStats godoc
// @ID          dashboardStats
// @Summary     Inventory totals and recent activity
// @Tags        Dashboard
// @Produce     json
// @Param       page   query  int  false  "Activity page (1-based)"
// @Param       limit  query  int  false  "Activities per page"
// @Success     200  {object}  services.DashboardStats
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /dashboard/stats [get]
func (h *Handlers) DashboardStats(c *gin.Context) {
	page, limit := paging(c)
	st, err := h.query.DashboardStats(c.Request.Context(), page, limit)
	if err != nil {
		internal(c, ErrCodeInternal, err)
		return
	}
	ok(c, http.StatusOK, st)
}
