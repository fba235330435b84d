package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/launchpad/internal/app"
	"github.com/zulandar/launchpad/internal/models"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Repeated, office and regular task commands",
	}

	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskDoneCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	return cmd
}

// taskKind parses the --kind flag.
func taskKind(s string) (models.Kind, error) {
	switch k := models.Kind(s); k {
	case models.KindRepeated, models.KindOffice, models.KindRegular:
		return k, nil
	}
	return "", fmt.Errorf("%w: --kind %q is not one of repeated, office, regular", models.ErrValidation, s)
}

type taskAddOpts struct {
	kind        string
	title       string
	description string
	priority    string
	frequency   string
	deadline    string
	project     string
	timeSlot    string
}

func newTaskAddCmd() *cobra.Command {
	var (
		configPath string
		opts       taskAddOpts
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskAdd(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().StringVar(&opts.kind, "kind", string(models.KindRegular), "task kind (repeated, office, regular)")
	cmd.Flags().StringVar(&opts.title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&opts.description, "description", "", "details")
	cmd.Flags().StringVar(&opts.priority, "priority", models.PriorityMedium, "priority (low, medium, high)")
	cmd.Flags().StringVar(&opts.frequency, "frequency", models.FrequencyDaily, "repeated only: daily, weekly or monthly")
	cmd.Flags().StringVar(&opts.deadline, "deadline", "", "office only: YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.project, "project", "", "repeated only: project name")
	cmd.Flags().StringVar(&opts.timeSlot, "time-slot", "", "repeated only: preferred time of day")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runTaskAdd(cmd *cobra.Command, configPath string, opts taskAddOpts) error {
	kind, err := taskKind(opts.kind)
	if err != nil {
		return err
	}
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}

	var id string
	switch kind {
	case models.KindRepeated:
		t, err := a.CreateRepeatedTask(ctx, models.RepeatedTask{
			Title:       opts.title,
			Description: opts.description,
			Priority:    opts.priority,
			Frequency:   opts.frequency,
			Project:     opts.project,
			TimeSlot:    opts.timeSlot,
		})
		if err != nil {
			return err
		}
		id = t.ID
	case models.KindOffice:
		t, err := a.CreateOfficeTask(ctx, models.OfficeTask{
			Title:       opts.title,
			Description: opts.description,
			Priority:    opts.priority,
			Deadline:    opts.deadline,
		})
		if err != nil {
			return err
		}
		id = t.ID
	case models.KindRegular:
		t, err := a.CreateRegularTask(ctx, models.RegularTask{
			Title:       opts.title,
			Description: opts.description,
			Priority:    opts.priority,
		})
		if err != nil {
			return err
		}
		id = t.ID
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s task %s\n", kind, id)
	warnPending(ctx, out, a)
	return nil
}

func newTaskListCmd() *cobra.Command {
	var (
		configPath string
		kind       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "Lists tasks of one kind, or all kinds when --kind is omitted. Office tasks past their deadline show as overdue.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskList(cmd, configPath, kind)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().StringVar(&kind, "kind", "", "task kind (repeated, office, regular)")
	return cmd
}

func runTaskList(cmd *cobra.Command, configPath, kindFlag string) error {
	kinds := []models.Kind{models.KindRepeated, models.KindOffice, models.KindRegular}
	if kindFlag != "" {
		k, err := taskKind(kindFlag)
		if err != nil {
			return err
		}
		kinds = []models.Kind{k}
	}
	a, _, err := openApp(context.Background(), configPath)
	if err != nil {
		return err
	}
	snap := a.Snapshot()

	out := cmd.OutOrStdout()
	if len(snap.Repeated)+len(snap.Office)+len(snap.Regular) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tID\tTITLE\tSTATUS\tPRI\tDETAIL")
	for _, k := range kinds {
		switch k {
		case models.KindRepeated:
			for _, t := range snap.Repeated {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					k, t.ID, truncate(t.Title, 40), repeatedStatus(t), t.Priority, fmt.Sprintf("%s, streak %d", t.Frequency, t.Streak))
			}
		case models.KindOffice:
			for _, t := range snap.Office {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					k, t.ID, truncate(t.Title, 40), t.DisplayStatus, t.Priority, "due "+t.Deadline)
			}
		case models.KindRegular:
			for _, t := range snap.Regular {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					k, t.ID, truncate(t.Title, 40), t.Status, t.Priority, "-")
			}
		}
	}
	w.Flush()
	return nil
}

func repeatedStatus(t app.RepeatedView) string {
	switch {
	case !t.IsActive:
		return "paused"
	case t.CompletedToday:
		return "done today"
	case t.Due:
		return "due"
	}
	return "done"
}

func newTaskDoneCmd() *cobra.Command {
	var (
		configPath string
		kind       string
	)

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Complete a repeated task for today, or toggle an office/regular task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskDone(cmd, configPath, kind, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().StringVar(&kind, "kind", "", "task kind (repeated, office, regular)")
	cmd.MarkFlagRequired("kind")
	return cmd
}

func runTaskDone(cmd *cobra.Command, configPath, kindFlag, id string) error {
	kind, err := taskKind(kindFlag)
	if err != nil {
		return err
	}
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch kind {
	case models.KindRepeated:
		t, err := a.CompleteRepeatedTask(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Completed %s for today (streak %d)\n", t.Title, t.Streak)
	case models.KindOffice:
		t, err := a.ToggleOfficeTask(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now %s\n", t.Title, t.Status)
	case models.KindRegular:
		t, err := a.ToggleRegularTask(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now %s\n", t.Title, t.Status)
	}
	warnPending(ctx, out, a)
	return nil
}

func newTaskDeleteCmd() *cobra.Command {
	var (
		configPath string
		kind       string
	)

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskDelete(cmd, configPath, kind, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "launchpad.yaml", "path to Launchpad config file")
	cmd.Flags().StringVar(&kind, "kind", "", "task kind (repeated, office, regular)")
	cmd.MarkFlagRequired("kind")
	return cmd
}

func runTaskDelete(cmd *cobra.Command, configPath, kindFlag, id string) error {
	kind, err := taskKind(kindFlag)
	if err != nil {
		return err
	}
	ctx := context.Background()
	a, _, err := openApp(ctx, configPath)
	if err != nil {
		return err
	}
	switch kind {
	case models.KindRepeated:
		a.DeleteRepeatedTask(ctx, id)
	case models.KindOffice:
		a.DeleteOfficeTask(ctx, id)
	case models.KindRegular:
		a.DeleteRegularTask(ctx, id)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Deleted %s task %s\n", kind, id)
	warnPending(ctx, out, a)
	return nil
}
