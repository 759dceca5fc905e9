package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-entity-sync/internal/service"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Check the credentials and print the granted role",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			c, result, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			return a.emit(result, section{title: "Authenticated", rows: [][2]string{
				{"role", result.Role},
				{"instance", result.InstanceGUID},
			}})
		}),
	}
}

type syncReport struct {
	Ticket       string   `json:"ticket" yaml:"ticket"`
	AttemptID    string   `json:"attempt_id" yaml:"attempt_id"`
	Confirmed    bool     `json:"confirmed" yaml:"confirmed"`
	Entities     []any    `json:"entities" yaml:"entities"`
	Files        []string `json:"files" yaml:"files"`
	DeletedFiles []string `json:"deleted_files" yaml:"deleted_files"`
}

type syncOptions struct {
	noConfirm bool
	filesDir  string
	uploads   []string
}

func newSyncCmd(a *app) *cobra.Command {
	opts := &syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a sync attempt",
	}
	cmd.PersistentFlags().BoolVar(&opts.noConfirm, "no-confirm", false, "Do not confirm the received data")
	cmd.PersistentFlags().StringVar(&opts.filesDir, "files-dir", "", "Directory to store received files in")

	all := &cobra.Command{
		Use:   "all",
		Short: "Fetch every entity visible to the user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			return a.sync(cmd.Context(), opts, nil, nil)
		}),
	}

	diff := &cobra.Command{
		Use:   "diff ENTITIES_FILE",
		Short: "Send local changes read from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			entities, err := loadEntities(args[0])
			if err != nil {
				return err
			}
			files, closeFiles, err := openUploads(opts.uploads)
			if err != nil {
				return err
			}
			defer closeFiles()

			return a.sync(cmd.Context(), opts, entities, files)
		}),
	}
	diff.Flags().StringArrayVar(&opts.uploads, "file", nil, "Attach a file as GUID=PATH (repeatable)")

	cmd.AddCommand(all, diff)
	return cmd
}

func (a *app) sync(ctx context.Context, opts *syncOptions, entities []any, files []models.File) error {
	c, _, err := a.authenticated(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	var result *service.SyncResult
	if entities == nil && files == nil {
		result, err = c.SyncAll(ctx)
	} else {
		result, err = c.SyncDiff(ctx, entities, files)
	}
	if err != nil {
		return err
	}

	report := syncReport{
		Ticket:       result.Ticket.String(),
		AttemptID:    result.AttemptID,
		Entities:     result.Entities,
		Files:        make([]string, 0, len(result.Files)),
		DeletedFiles: result.DeletedFiles,
	}
	for _, f := range result.Files {
		report.Files = append(report.Files, f.GUID)
	}

	if opts.filesDir != "" {
		if err = saveFiles(opts.filesDir, result.Files); err != nil {
			result.Abandon()
			return err
		}
	}

	if opts.noConfirm {
		result.Abandon()
	} else {
		if err = result.Confirm(ctx); err != nil {
			return err
		}
		report.Confirmed = true
	}

	sections := []section{{title: "Sync " + report.Ticket, rows: [][2]string{
		{"attempt", report.AttemptID},
		{"entities", strconv.Itoa(len(report.Entities))},
		{"files", strings.Join(report.Files, ", ")},
		{"deleted files", strings.Join(report.DeletedFiles, ", ")},
		{"confirmed", strconv.FormatBool(report.Confirmed)},
	}}}
	for _, e := range report.Entities {
		sections = append(sections, section{title: "Entity", rows: entityRows(e)})
	}
	if err = a.emit(report, sections...); err != nil {
		return err
	}
	if report.Confirmed {
		a.printOK("Confirmed " + report.Ticket)
	}
	return nil
}

func openUploads(args []string) ([]models.File, func(), error) {
	files := make([]models.File, 0, len(args))
	closers := make([]io.Closer, 0, len(args))
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, arg := range args {
		guid, path, ok := strings.Cut(arg, "=")
		if !ok || guid == "" || path == "" {
			closeAll()
			return nil, nil, fmt.Errorf("invalid --file %q, expected GUID=PATH", arg)
		}
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("error opening %s: %w", path, err)
		}
		closers = append(closers, f)
		files = append(files, models.File{GUID: guid, Name: filepath.Base(path), Content: f})
	}
	return files, closeAll, nil
}

func saveFiles(dir string, files []models.File) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating %s: %w", dir, err)
	}
	for _, f := range files {
		out, err := os.Create(filepath.Join(dir, f.GUID))
		if err != nil {
			return fmt.Errorf("error creating file %s: %w", f.GUID, err)
		}
		_, err = io.Copy(out, f.Content)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("error saving file %s: %w", f.GUID, err)
		}
	}
	return nil
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history MODEL GUID",
		Short: "Print the conflict history of an entity",
		Args:  cobra.ExactArgs(2),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			c, _, err := a.authenticated(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			versions, err := c.GetConflictHistory(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			sections := make([]section, 0, len(versions))
			for _, v := range versions {
				rows := [][2]string{
					{"user", v.User},
					{"device", v.Device},
				}
				rows = append(rows, entityRows(v.Entity)...)
				sections = append(sections, section{title: v.Timestamp.Format(time.RFC3339), rows: rows})
			}
			if len(sections) == 0 {
				sections = append(sections, section{title: "No conflicts recorded"})
			}
			return a.emit(versions, sections...)
		}),
	}
}

func newJournalCmd(a *app) *cobra.Command {
	var (
		states []string
		mode   string
		limit  uint64
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List journaled sync attempts, newest first",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			c, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			filter := models.AttemptFilter{Mode: models.SyncMode(mode), Limit: limit}
			for _, s := range states {
				filter.States = append(filter.States, models.AttemptState(strings.ToUpper(s)))
			}

			attempts, err := c.Attempts(cmd.Context(), filter)
			if err != nil {
				return err
			}

			sections := make([]section, 0, len(attempts))
			for _, at := range attempts {
				rows := [][2]string{
					{"mode", string(at.Mode)},
					{"state", string(at.State)},
					{"ticket", at.Ticket.String()},
					{"started", at.StartedAt.Format(time.RFC3339)},
					{"updated", at.UpdatedAt.Format(time.RFC3339)},
				}
				if at.ErrorKind != "" || at.ErrorMessage != "" {
					rows = append(rows, [2]string{"error", strings.TrimSpace(at.ErrorKind + " " + at.ErrorMessage)})
				}
				sections = append(sections, section{title: at.ID, rows: rows})
			}
			if len(sections) == 0 {
				sections = append(sections, section{title: "No attempts"})
			}
			return a.emit(attempts, sections...)
		}),
	}
	list.Flags().StringSliceVar(&states, "state", nil, "Only attempts in these states")
	list.Flags().StringVar(&mode, "attempt-mode", "", "Only attempts of this mode (all, diff)")
	list.Flags().Uint64Var(&limit, "limit", 20, "Maximum number of attempts")

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the attempt journal",
	}
	cmd.AddCommand(list)
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": a.buildInfo.BuildVersion(),
				"date":    a.buildInfo.BuildDate(),
				"commit":  a.buildInfo.BuildCommit(),
			}
			return a.emit(info, section{title: "syncctl", rows: [][2]string{
				{"version", info["version"]},
				{"date", info["date"]},
				{"commit", info["commit"]},
			}})
		},
	}
}
