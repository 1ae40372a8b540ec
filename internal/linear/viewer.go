package linear

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// TeamNames returns the names of the viewer's teams, sorted.
func (v Viewer) TeamNames() ([]string, error) {
	if len(v.Teams) == 0 {
		return nil, errors.New("no teams found")
	}
	names := make([]string, 0, len(v.Teams))
	for _, team := range v.Teams {
		names = append(names, team.Name)
	}
	sort.Strings(names)
	return names, nil
}

// TeamByName looks up one of the viewer's teams by name.
func (v Viewer) TeamByName(name string) (Team, error) {
	if len(v.Teams) == 0 {
		return Team{}, errors.New("no teams found")
	}
	for _, team := range v.Teams {
		if team.Name == name {
			return team, nil
		}
	}
	names, _ := v.TeamNames()
	return Team{}, fmt.Errorf("team %s not found, options are: %s", name, strings.Join(names, ", "))
}

// ProjectNames returns the team's project names, sorted.
func (t Team) ProjectNames() []string {
	names := make([]string, 0, len(t.Projects))
	for _, project := range t.Projects {
		names = append(names, project.Name)
	}
	sort.Strings(names)
	return names
}

// ProjectByName looks up a project of the team by name.
func (t Team) ProjectByName(name string) (Project, error) {
	for _, project := range t.Projects {
		if project.Name == name {
			return project, nil
		}
	}
	return Project{}, errors.New("project not found")
}
