package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	catalog "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/ordering"
)

var resourceNames = []string{"projects", "categories", "skills"}

// collection is the type-erased view of one ordered catalog resource.
type collection interface {
	print(ctx context.Context, w io.Writer, label string, asJSON bool) error
	add(ctx context.Context, fields ordering.Patch) error
	edit(ctx context.Context, id string, patch ordering.Patch) error
	move(ctx context.Context, id string, dir ordering.Direction) error
	remove(ctx context.Context, id string) error
}

type typed[T ordering.Record[T]] struct {
	c      *ordering.Collection[T]
	header string
	row    func(T) string
}

func (t typed[T]) print(ctx context.Context, w io.Writer, label string, asJSON bool) error {
	if err := t.c.Load(ctx); err != nil {
		return err
	}
	items := t.c.FilterByCategory(label)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SORTING\tID\t"+t.header)
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", it.SortKey(), it.RecordID(), t.row(it))
	}
	return tw.Flush()
}

func (t typed[T]) add(ctx context.Context, fields ordering.Patch) error {
	// Add numbers the draft from the cache size, so the cache must be current.
	if err := t.c.Load(ctx); err != nil {
		return err
	}
	var draft T
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &draft); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	return t.c.Add(ctx, draft)
}

func (t typed[T]) edit(ctx context.Context, id string, patch ordering.Patch) error {
	return t.c.Edit(ctx, id, patch)
}

func (t typed[T]) move(ctx context.Context, id string, dir ordering.Direction) error {
	if err := t.c.Load(ctx); err != nil {
		return err
	}
	return t.c.Move(ctx, id, dir)
}

func (t typed[T]) remove(ctx context.Context, id string) error {
	return t.c.Remove(ctx, id)
}

func (a *app) collection(cmd *cobra.Command, name string) (collection, error) {
	api := a.client()
	opts := []ordering.Option{ordering.WithNotifier(notifier(cmd.ErrOrStderr()))}

	switch name {
	case "projects":
		return typed[catalog.Project]{
			c:      ordering.New[catalog.Project](name, api.Projects(), opts...),
			header: "TITLE\tCATEGORY\tSKILLS",
			row: func(p catalog.Project) string {
				return p.Title + "\t" + p.Category + "\t" + strings.Join(p.Skills, ", ")
			},
		}, nil
	case "categories":
		return typed[catalog.Category]{
			c:      ordering.New[catalog.Category](name, api.Categories(), opts...),
			header: "NAME",
			row:    func(c catalog.Category) string { return c.Name },
		}, nil
	case "skills":
		return typed[catalog.SkillGroup]{
			c:      ordering.New[catalog.SkillGroup](name, api.Skills(), opts...),
			header: "CATEGORY\tICON\tSKILLS",
			row: func(s catalog.SkillGroup) string {
				return s.Category + "\t" + s.Icon + "\t" + strings.Join(s.Skills, ", ")
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown resource %q (want one of %s)", name, strings.Join(resourceNames, ", "))
}

// parseFields turns key=value arguments into wire fields. "skills" takes a
// comma separated list.
func parseFields(args []string) (ordering.Patch, error) {
	out := ordering.Patch{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if k == "skills" {
			list := []string{}
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					list = append(list, s)
				}
			}
			out[k] = list
			continue
		}
		out[k] = v
	}
	return out, nil
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list <projects|categories|skills>",
		Short:     "List records in display order",
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return err
			}
			return c.print(cmd.Context(), cmd.OutOrStdout(), ordering.All, a.asJSON)
		},
	}
}

func (a *app) filterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <projects|skills> <category>",
		Short: "List records whose category matches exactly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return err
			}
			return c.print(cmd.Context(), cmd.OutOrStdout(), args[1], a.asJSON)
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <resource> key=value...",
		Short: "Append a record at the end of the list",
		Example: `  portfolioctl add skills category=Backend skills=Go,SQL icon=server
  portfolioctl add categories category=Web`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return err
			}
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			return c.add(cmd.Context(), fields)
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "edit <resource> <id> key=value...",
		Short:   "Update only the given fields of a record",
		Example: `  portfolioctl edit projects 3a1f... title="New title" skills=Go,gin`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return err
			}
			patch, err := parseFields(args[2:])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[1], patch)
		},
	}
}

func (a *app) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "move <resource> <id> <up|down>",
		Short:     "Swap a record with its neighbour",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir ordering.Direction
			switch args[2] {
			case "up":
				dir = ordering.Up
			case "down":
				dir = ordering.Down
			default:
				return fmt.Errorf("direction must be up or down, got %q", args[2])
			}
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return err
			}
			return c.move(cmd.Context(), args[1], dir)
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <resource> <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.collection(cmd, args[0])
			if err != nil {
				return err
			}
			return c.remove(cmd.Context(), args[1])
		},
	}
}
