package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/metalagman/fitgenius/internal/catalog"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// batchFile is the on-disk format of a batch run.
type batchFile struct {
	Concurrency int           `yaml:"concurrency"`
	Jobs        []catalog.Job `yaml:"jobs"`
}

// batchResult is one entry of the batch report.
type batchResult struct {
	Flow   string       `yaml:"flow"             json:"flow"`
	OK     bool         `yaml:"ok"               json:"ok"`
	Output schema.Value `yaml:"output,omitempty" json:"output,omitempty"`
	Error  string       `yaml:"error,omitempty"  json:"error,omitempty"`
	Kind   string       `yaml:"kind,omitempty"   json:"kind,omitempty"`
}

func batchCmd() *cobra.Command {
	var (
		concurrency int
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "batch <jobs.yaml>",
		Short: "Run many flow calls from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open batch file: %w", err)
			}
			defer func() { _ = f.Close() }()
			file, err := parseBatchFile(f)
			if err != nil {
				return err
			}

			limit := cfg.Batch.Concurrency
			if file.Concurrency > 0 {
				limit = file.Concurrency
			}
			if concurrency > 0 {
				limit = concurrency
			}

			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			report := batchReport(file.Jobs, rt.catalog.Batch(cmd.Context(), file.Jobs, limit))
			if asJSON {
				if err := printJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				if err := enc.Close(); err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
			}
			for _, r := range report {
				if !r.OK {
					return errors.New("one or more batch jobs failed")
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "max concurrent calls (overrides config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func parseBatchFile(r io.Reader) (batchFile, error) {
	var file batchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return batchFile{}, errors.New("batch file is empty")
		}
		return batchFile{}, fmt.Errorf("parse batch file: %w", err)
	}
	if len(file.Jobs) == 0 {
		return batchFile{}, errors.New("batch file has no jobs")
	}
	for i, job := range file.Jobs {
		if job.Flow == "" {
			return batchFile{}, fmt.Errorf("job %d: flow is required", i)
		}
		if job.Input == nil {
			file.Jobs[i].Input = schema.Value{}
		}
	}
	return file, nil
}

func batchReport(jobs []catalog.Job, results []flow.Result) []batchResult {
	report := make([]batchResult, len(results))
	for i, res := range results {
		r := batchResult{Flow: jobs[i].Flow, OK: res.Err == nil, Output: res.Output}
		if res.Err != nil {
			r.Error = res.Err.Error()
			if fe, ok := flow.AsError(res.Err); ok {
				r.Kind = string(fe.Kind)
			}
		}
		report[i] = r
	}
	return report
}
