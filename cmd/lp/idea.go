package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/launchpad/internal/app"
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/pipeline"
)

func newIdeaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "Idea and pipeline commands",
	}

	cmd.AddCommand(newIdeaCreateCmd())
	cmd.AddCommand(newIdeaListCmd())
	cmd.AddCommand(newIdeaPromoteCmd())
	cmd.AddCommand(newIdeaAdvanceCmd())
	cmd.AddCommand(newIdeaCompleteCmd())
	cmd.AddCommand(newIdeaArchiveCmd())
	cmd.AddCommand(newIdeaDeleteCmd())
	return cmd
}

func newIdeaCreateCmd() *cobra.Command {
	var (
		configPath string
		fields     pipeline.IdeaFields
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Park a new idea",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdeaCreate(cmd, configPath, fields)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().StringVar(&fields.Title, "title", "", "idea title (required)")
	cmd.Flags().StringVar(&fields.Description, "description", "", "longer description")
	cmd.Flags().StringVar(&fields.Priority, "priority", models.PriorityMedium, "priority (low, medium, high)")
	cmd.Flags().StringSliceVar(&fields.Tags, "tag", nil, "tag (repeatable)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runIdeaCreate(cmd *cobra.Command, configPath string, fields pipeline.IdeaFields) error {
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	idea, err := a.CreateIdea(ctx, fields)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created idea %s\n", idea.ID)
	warnPending(ctx, out, a)
	return nil
}

func newIdeaListCmd() *cobra.Command {
	var (
		configPath string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ideas with their pipeline stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdeaList(cmd, configPath, status)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (parking, in-pipeline, completed, archived)")
	return cmd
}

func runIdeaList(cmd *cobra.Command, configPath, status string) error {
	a, _, err := openApp(context.Background(), configPath)
	if err != nil {
		return err
	}
	snap := a.Snapshot()

	out := cmd.OutOrStdout()
	var ideas []models.Idea
	for _, idea := range snap.Ideas {
		if status == "" || idea.Status == status {
			ideas = append(ideas, idea)
		}
	}
	if len(ideas) == 0 {
		fmt.Fprintln(out, "No ideas found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRI\tSTAGE\tTAGS")
	for _, idea := range ideas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			idea.ID, truncate(idea.Title, 40), idea.Status, idea.Priority, stageLabel(snap, idea.ID), formatTags(idea.Tags))
	}
	w.Flush()
	return nil
}

func newIdeaPromoteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "promote <idea-id>",
		Short: "Start the execution pipeline for a parking idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdeaPromote(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	return cmd
}

func runIdeaPromote(cmd *cobra.Command, configPath, id string) error {
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	_, p, err := a.PromoteToPipeline(ctx, id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Promoted idea %s to pipeline %s (stage %d: %s)\n", id, p.ID, p.CurrentStage, pipeline.StageName(p.CurrentStage))
	warnPending(ctx, out, a)
	return nil
}

func newIdeaAdvanceCmd() *cobra.Command {
	var (
		configPath string
		back       bool
	)

	cmd := &cobra.Command{
		Use:   "advance <idea-id>",
		Short: "Move an idea's pipeline one stage forward (or back with --back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := pipeline.Forward
			if back {
				dir = pipeline.Backward
			}
			return runIdeaAdvance(cmd, configPath, args[0], dir)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().BoolVar(&back, "back", false, "move back one stage")
	return cmd
}

func runIdeaAdvance(cmd *cobra.Command, configPath, ideaID string, dir int) error {
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	pv, ok := a.Snapshot().PipelineFor(ideaID)
	if !ok {
		return fmt.Errorf("idea %s has no pipeline; promote it first", ideaID)
	}
	p, err := a.AdvanceStage(ctx, pv.ID, dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pipeline %s now at stage %d/%d: %s\n", p.ID, p.CurrentStage, models.FinalStage, pipeline.StageName(p.CurrentStage))
	warnPending(ctx, out, a)
	return nil
}

func newIdeaCompleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "complete <idea-id>",
		Short: "Mark an idea completed once its pipeline reached the final stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdeaTransition(cmd, configPath, args[0], "Completed", (*app.App).CompletePipeline)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	return cmd
}

func newIdeaArchiveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "archive <idea-id>",
		Short: "Archive a parking idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdeaTransition(cmd, configPath, args[0], "Archived", (*app.App).ArchiveIdea)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	return cmd
}

func runIdeaTransition(cmd *cobra.Command, configPath, id, verb string,
	fn func(*app.App, context.Context, string) (models.Idea, error)) error {
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	idea, err := fn(a, ctx, id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s idea %s (%s)\n", verb, idea.ID, idea.Title)
	warnPending(ctx, out, a)
	return nil
}

func newIdeaDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <idea-id>",
		Short: "Delete an idea and its pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdeaDelete(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	return cmd
}

func runIdeaDelete(cmd *cobra.Command, configPath, id string) error {
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	a.DeleteIdea(ctx, id)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Deleted idea %s\n", id)
	warnPending(ctx, out, a)
	return nil
}
