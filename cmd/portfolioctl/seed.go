package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	catalog "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/ordering"
)

// seedFile is the YAML layout accepted by "portfolioctl import".
type seedFile struct {
	Categories []string    `yaml:"categories"`
	Skills     []seedSkill `yaml:"skills"`
	Projects   []seedProj  `yaml:"projects"`
}

type seedSkill struct {
	Category string   `yaml:"category"`
	Skills   []string `yaml:"skills"`
	Icon     string   `yaml:"icon,omitempty"`
}

type seedProj struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"imageURL,omitempty"`
	GithubURL   string   `yaml:"githubURL,omitempty"`
	LiveURL     string   `yaml:"liveURL,omitempty"`
	Category    string   `yaml:"category,omitempty"`
	Skills      []string `yaml:"skills,omitempty"`
}

func parseSeed(path string) (*seedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s seedFile
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.yaml>",
		Short: "Append categories, skills and projects from a YAML file",
		Long: `Append every entry of a YAML seed file to the end of its list, in file order.

Example file:
  categories: [Web, CLI]
  skills:
    - category: Backend
      skills: [Go, PostgreSQL]
      icon: server
  projects:
    - title: Portfolio
      description: This site
      category: Web`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := parseSeed(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			api := a.client()
			opts := []ordering.Option{ordering.WithNotifier(notifier(cmd.ErrOrStderr()))}

			categories := ordering.New[catalog.Category]("categories", api.Categories(), opts...)
			if err := categories.Load(ctx); err != nil {
				return err
			}
			for _, name := range seed.Categories {
				if err := categories.Add(ctx, catalog.Category{Name: name}); err != nil {
					return err
				}
			}

			skills := ordering.New[catalog.SkillGroup]("skills", api.Skills(), opts...)
			if err := skills.Load(ctx); err != nil {
				return err
			}
			for _, s := range seed.Skills {
				draft := catalog.SkillGroup{Category: s.Category, Skills: s.Skills, Icon: s.Icon}
				if err := skills.Add(ctx, draft); err != nil {
					return err
				}
			}

			projects := ordering.New[catalog.Project]("projects", api.Projects(), opts...)
			if err := projects.Load(ctx); err != nil {
				return err
			}
			for _, p := range seed.Projects {
				draft := catalog.Project{
					Title:       p.Title,
					Description: p.Description,
					ImageURL:    p.ImageURL,
					GithubURL:   p.GithubURL,
					LiveURL:     p.LiveURL,
					Category:    p.Category,
					Skills:      p.Skills,
				}
				if err := projects.Add(ctx, draft); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d categories, %d skill groups, %d projects\n",
				len(seed.Categories), len(seed.Skills), len(seed.Projects))
			return nil
		},
	}
}
