package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mealplan/app"
	"github.com/kilianp07/mealplan/core/model"
	"github.com/kilianp07/mealplan/pkg/export"
)

var (
	requestPath string
	outFormat   string
	outPath     string
	savePlan    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a plan from a request file",
	Example: `  mealplan plan -f christmas.yaml
  mealplan plan -f christmas.yaml --format html -o christmas.html
  mealplan plan -f christmas.json --server http://localhost:8080 --save`,
	RunE: runPlan,
}

var exportCmd = &cobra.Command{
	Use:   "export <plan-id>",
	Short: "Export a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	planCmd.Flags().StringVarP(&requestPath, "file", "f", "", "request file (.yaml, .yml or .json), - for JSON on stdin")
	planCmd.Flags().BoolVar(&savePlan, "save", false, "keep the generated plan")
	_ = planCmd.MarkFlagRequired("file")
	for _, c := range []*cobra.Command{planCmd, exportCmd} {
		c.Flags().StringVar(&outFormat, "format", "json", "output format: json, csv, workers or html")
		c.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
		rootCmd.AddCommand(c)
	}
}

func readRequest(path string, stdin io.Reader) (model.PlanRequest, error) {
	if path == "-" {
		return model.DecodeRequest(stdin, "json")
	}
	return model.LoadRequest(path)
}

// output returns the destination writer and a function closing it.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outPath == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runPlan(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(outFormat)
	if err != nil {
		return err
	}
	req, err := readRequest(requestPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if savePlan {
		req.Save = true
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var plan *model.Plan
	c, err := remote(cfg)
	if err != nil {
		return err
	}
	if c != nil {
		plan, err = c.Generate(ctx, req)
	} else {
		var svc *app.Service
		if svc, err = app.New(cfg); err != nil {
			return err
		}
		defer func() { _ = svc.Close() }()
		svc.Start(ctx)
		plan, err = svc.Plans.Generate(ctx, req)
	}
	if err != nil {
		return err
	}

	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}
	if err := export.Write(w, format, plan); err != nil {
		_ = closeOut()
		return err
	}
	if req.Save {
		fmt.Fprintf(cmd.ErrOrStderr(), "saved plan %s\n", plan.ID)
	}
	return closeOut()
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(outFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}
	c, err := remote(cfg)
	if err != nil {
		_ = closeOut()
		return err
	}
	if c != nil {
		if err := c.Export(ctx, args[0], format, w); err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	}
	svc, err := app.New(cfg)
	if err != nil {
		_ = closeOut()
		return err
	}
	defer func() { _ = svc.Close() }()
	saved, err := svc.Plans.Get(ctx, args[0])
	if err != nil {
		_ = closeOut()
		return err
	}
	if err := export.Write(w, format, &saved.Plan); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
