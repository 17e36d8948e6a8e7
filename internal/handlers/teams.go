package handlers

import (
	"net/http"

	"PM-TMPL/internal/services"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teams *services.TeamService
}

func NewTeamHandler(teams *services.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// CreateTeam godoc
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team"
// @Success 201 {object} models.Team
// @Failure 400 {object} ErrorResponse
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teams.CreateTeam(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// ListTeams godoc
// @Summary List teams
// @Tags teams
// @Produce json
// @Success 200 {array} models.Team
// @Router /teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teams.ListTeams(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeam godoc
// @Summary Get a team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.Team
// @Failure 404 {object} ErrorResponse
// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teams.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// ListProjects godoc
// @Summary List a team's projects with their details and tasks
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {array} ProjectResponse
// @Failure 404 {object} ErrorResponse
// @Router /teams/{id}/projects [get]
func (h *TeamHandler) ListProjects(c *gin.Context) {
	teamID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	projects, err := h.teams.ListProjects(c.Request.Context(), teamID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectResponses(projects))
}
