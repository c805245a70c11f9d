package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlihgenel/videocutter-cli/internal/batch"
	"github.com/mlihgenel/videocutter-cli/internal/ui"
	"github.com/mlihgenel/videocutter-cli/internal/workflow"
)

var (
	runReport     string
	runReportFile string
	runDryRun     bool
)

var runCmd = &cobra.Command{
	Use:   "run <plan.json>",
	Short: "JSON plan dosyasındaki işi çalıştır",
	Long: `İndir → kes → ses ekle → yükle adımlarını bir JSON plan dosyasından çalıştırır.

Örnek plan:
  {
    "input": "video.mp4",
    "segments": ["03:05-03:10", "40:05-40:10"],
    "mode": "balanced",
    "audio": {"file": "muzik.mp3", "volume": 80},
    "upload": {"remote": "gdrive", "path": "klipler"},
    "report": "json",
    "report_file": "rapor.json"
  }

Örnekler:
  videocutter run plan.json
  videocutter run plan.json --report txt
  videocutter run plan.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := workflow.LoadPlan(args[0])
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		job, err := plan.Job()
		if err != nil {
			ui.PrintError(err.Error())
			return err
		}
		if job.Output == "" {
			setJobOutput(&job, outputPath)
		}
		if job.Workers == 0 {
			job.Workers = workers
		}

		// Plan dosyasındaki rapor ayarı flag verilmemişse kullanılır
		if !cmd.Flags().Changed("report") && plan.Report != "" {
			runReport = plan.Report
		} else {
			applyReportDefault(cmd, "report", &runReport)
		}
		if !cmd.Flags().Changed("report-file") && plan.ReportFile != "" {
			runReportFile = plan.ReportFile
		}
		if batch.NormalizeReportFormat(runReport) == "" {
			err := fmt.Errorf("geçersiz rapor formatı: %s", runReport)
			ui.PrintError(err.Error())
			return err
		}

		if runDryRun {
			return runCutDryRun(cmd, job)
		}

		progress := newCLIProgress(verbose)
		executor := &workflow.Executor{
			Tools:   resolveTools(),
			Runner:  runner(),
			Logger:  appLogger,
			Verbose: verbose,
			OnEvent: progress.Handle,
		}
		result, execErr := executor.Execute(cmd.Context(), job)
		progress.Finish()

		if execErr != nil {
			ui.PrintError(fmt.Sprintf("Plan başarısız: %s", execErr.Error()))
		} else {
			ui.PrintSuccess("Plan tamamlandı.")
			printWorkflowResult(result)
		}
		for _, s := range result.Steps {
			if s.Success {
				ui.PrintInfo(fmt.Sprintf("Adım %d (%s): %s -> %s", s.Index, s.Type, s.Input, s.Output))
			} else {
				ui.PrintError(fmt.Sprintf("Adım %d (%s) hatası: %s", s.Index, s.Type, s.Error))
			}
		}

		if err := emitReport(runReport, runReportFile, result); err != nil && execErr == nil {
			return err
		}
		return execErr
	},
}

func init() {
	runCmd.Flags().StringVar(&runReport, "report", batch.ReportOff, "Rapor formatı: off, txt, json")
	runCmd.Flags().StringVar(&runReportFile, "report-file", "", "Raporu belirtilen dosyaya yaz")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Komutları çalıştırmadan göster")
	rootCmd.AddCommand(runCmd)
}
