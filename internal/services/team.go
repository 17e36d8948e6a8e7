package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PM-TMPL/internal/models"
	"PM-TMPL/internal/repository"
)

type TeamService struct {
	repo repository.TeamRepo
}

func NewTeamService(repo repository.TeamRepo) *TeamService {
	return &TeamService{repo: repo}
}

func (s *TeamService) CreateTeam(ctx context.Context, name, description string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}

	team := &models.Team{Name: name, Description: description}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID uint) (*models.Team, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.repo.ListTeams(ctx)
}

// ListProjects returns the team's projects with details and tasks.
func (s *TeamService) ListProjects(ctx context.Context, teamID uint) ([]models.Project, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListProjects(ctx, teamID)
}
