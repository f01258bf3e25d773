package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ludo-technologies/crabscore/domain"
	"github.com/ludo-technologies/crabscore/internal/constants"
	"github.com/ludo-technologies/crabscore/service"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	serve      bool
	port       int
	noOpen     bool
	dir        string
	configPath string
}

func reportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report [path]",
		Short: "Write report files or serve a dashboard",
		Long: `Score a project and write crabscore_report.json, crabscore_report.html and
report_csrd.json, or serve the report over HTTP with --serve.

Examples:
  crabscore report
  crabscore report ./my-service --dir reports
  crabscore report --serve --port 9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.serve, "serve", false,
		"Serve the report dashboard instead of writing files")
	cmd.Flags().IntVar(&opts.port, "port", constants.DefaultDashboardPort,
		"Dashboard port")
	cmd.Flags().BoolVar(&opts.noOpen, "no-open", false,
		"Don't open the dashboard or HTML report in a browser")
	cmd.Flags().StringVar(&opts.dir, "dir", "",
		"Directory for report files (default: output.directory or current directory)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runReport(cmd *cobra.Command, args []string, opts *reportOptions) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	env, err := loadEnvironment(cmd, opts.configPath, target)
	if err != nil {
		return err
	}

	result, err := env.scoreOnce(cmd, target)
	if err != nil {
		return err
	}

	if opts.serve {
		port := env.cfg.Dashboard.Port
		if cmd.Flags().Changed("port") {
			port = opts.port
		}
		return serveReport(cmd, env, result, target, port, opts.noOpen)
	}

	dir := opts.dir
	if dir == "" {
		dir = env.cfg.Output.Directory
	}
	if dir == "" {
		dir = "."
	}

	written, err := writeReportFiles(dir, result)
	if err != nil {
		return err
	}

	for _, path := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	}
	return nil
}

// writeReportFiles writes the JSON, HTML and CSRD reports into dir
func writeReportFiles(dir string, result *domain.ScoreResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.NewOutputError(fmt.Sprintf("failed to create report directory %s", dir), err)
	}

	formatter := service.NewOutputFormatter()
	renderers := []struct {
		name   string
		render func(buf *bytes.Buffer) error
	}{
		{constants.ReportJSONFile, func(buf *bytes.Buffer) error {
			return service.WriteJSON(buf, service.NewJSONReport(result.Score))
		}},
		{constants.ReportHTMLFile, func(buf *bytes.Buffer) error {
			return formatter.WriteHTML(result, buf)
		}},
		{constants.ReportCSRDFile, func(buf *bytes.Buffer) error {
			return service.WriteExport(buf, result.Score, service.ExportCSRD)
		}},
	}

	written := make([]string, 0, len(renderers))
	for _, r := range renderers {
		var buf bytes.Buffer
		if err := r.render(&buf); err != nil {
			return written, err
		}

		path := filepath.Join(dir, r.name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return written, domain.NewOutputError(fmt.Sprintf("failed to write %s", path), err)
		}
		written = append(written, path)
	}

	return written, nil
}

// serveReport runs the dashboard until interrupted
func serveReport(cmd *cobra.Command, env *commandEnv, result *domain.ScoreResult, target string, port int, noOpen bool) error {
	var store domain.HistoryStore
	if env.cfg.History.Enabled {
		s, err := env.openHistory(target)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := service.NewDashboardServer(result, env.fileHelper.ProjectKey(target), store, env.logger)
	addr := fmt.Sprintf(":%d", port)
	url := fmt.Sprintf("http://localhost:%d/", port)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving CrabScore dashboard at %s (Ctrl+C to stop)\n", url)

	if !noOpen && !service.IsSSH() {
		if err := service.OpenBrowser(url); err != nil {
			env.logger.Warn("could not open browser", "error", err)
		}
	}

	return server.Start(ctx, addr)
}
