package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohits-web03/ledger/internal/handover"
	"github.com/rohits-web03/ledger/internal/models"
	"github.com/rohits-web03/ledger/internal/repositories"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(*repositories.Store) error {
				cfg, _ := ctx.ensureConfig()
				fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.DBDriver)
				return nil
			})
		},
	}
}

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *repositories.Store) error {
				projects, err := store.ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				if len(projects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects")
					return nil
				}

				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					thumb := "-"
					if p.Thumbnail != nil {
						thumb = *p.Thumbnail
					}
					rows = append(rows, []string{
						strconv.FormatUint(uint64(p.ID), 10),
						p.Name,
						p.ClientName,
						string(p.Status),
						p.CreatedAt.Local().Format(time.DateOnly),
						thumb,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Client", "Status", "Created", "Thumbnail"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project with its todos and hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *repositories.Store) error {
				detail, err := store.GetProjectDetail(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatDetail(detail))
				return nil
			})
		},
	}
}

func formatDetail(d *models.ProjectDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (#%d)\n", d.Name, d.ID)
	if d.ClientName != "" {
		fmt.Fprintf(&b, "Client:  %s\n", d.ClientName)
	}
	fmt.Fprintf(&b, "Status:  %s\n", d.Status)
	fmt.Fprintf(&b, "Created: %s\n", d.CreatedAt.Local().Format(time.DateOnly))
	fmt.Fprintf(&b, "Files:   %d\n", len(d.Files))

	if len(d.Todos) > 0 {
		rows := make([][]string, 0, len(d.Todos))
		for _, t := range d.Todos {
			mark := "[ ]"
			if t.Done() {
				mark = "[X]"
			}
			rows = append(rows, []string{mark, t.Task, string(t.Priority)})
		}
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"", "Task", "Priority"}, rows, nil))
		b.WriteString("\n")
	}

	if len(d.Hours) > 0 {
		rows := make([][]string, 0, len(d.Hours))
		for _, h := range d.Hours {
			rows = append(rows, []string{h.Date, handover.FormatHours(h.Duration), h.Description})
		}
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Date", "Duration", "Description"}, rows,
			[]columnAlignment{alignLeft, alignRight}))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total:   %s\n", handover.FormatHours(d.TotalHours()))
	return b.String()
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write the handover document for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *repositories.Store) error {
				detail, err := store.GetProjectDetail(cmd.Context(), id)
				if err != nil {
					return err
				}

				var buf bytes.Buffer
				if err := handover.Render(&buf, detail, time.Now()); err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err := buf.WriteTo(cmd.OutOrStdout())
					return err
				}
				if output == "." {
					output = handover.Filename(detail.Name)
				}
				if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file ("." for the suggested name, default stdout)`)
	return cmd
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid project id %q", raw)
	}
	return uint(id), nil
}
