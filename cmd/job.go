package cmd

import (
	"context"
	"fmt"
	"time"

	"load-manager/feature/job"
	"load-manager/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	jobLoadID     string
	jobListFilter string
	jobMock       bool
	jobMockDelay  time.Duration
	jobCount      int

	jobCompleteFailed bool
	jobCompleteDetail string
	jobCompleteFiles  int
	jobCompleteBytes  int64
)

// jobCmd is the parent command for all job operations.
var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage upload jobs",
	Long: `A job tracks one upload of a manifest through its lifecycle:
PENDING, RUNNING, then COMPLETED, FAILED or CANCELLED.`,
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a PENDING job for a manifest",
	RunE:  runJobCreate,
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	RunE:  runJobList,
}

var jobRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a pending job",
	Long: `Start a pending job: the job moves to RUNNING and its manifest entries
are handed to the transfer worker. With --mock the entries are "uploaded"
in-process without moving any bytes; otherwise the external worker picks the
manifest up and reports completion through the status API.

Examples:
  # Dry run against the first 10 entries
  load-manager job run --load-id IRSA-qr2-2026_024 --mock --count 10`,
	RunE: runJobRun,
}

var jobCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a job",
	RunE:  runJobCancel,
}

var jobCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Record the outcome of a running job",
	Long: `Record the outcome reported by the external transfer worker. This is
the command-line twin of the POST /jobs/:loadID/complete callback.`,
	RunE: runJobComplete,
}

var jobReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the job report",
	RunE:  runJobReport,
}

func init() {
	for _, c := range []*cobra.Command{jobCreateCmd, jobRunCmd, jobCancelCmd, jobCompleteCmd, jobReportCmd} {
		c.Flags().StringVar(&jobLoadID, "load-id", "", "Load identifier (required)")
		_ = c.MarkFlagRequired("load-id")
	}

	jobListCmd.Flags().StringVar(&jobListFilter, "load-id", "", "Filter by load identifier prefix")

	jobRunCmd.Flags().BoolVar(&jobMock, "mock", false, "Upload in-process without moving bytes (dry run)")
	jobRunCmd.Flags().DurationVar(&jobMockDelay, "mock-delay", 0, "Simulated per-file transfer time for --mock")
	jobRunCmd.Flags().IntVar(&jobCount, "count", 0, "Limit the run to the first N manifest entries")

	jobCompleteCmd.Flags().BoolVar(&jobCompleteFailed, "failed", false, "Record the job as FAILED instead of COMPLETED")
	jobCompleteCmd.Flags().StringVar(&jobCompleteDetail, "detail", "", "Outcome detail message")
	jobCompleteCmd.Flags().IntVar(&jobCompleteFiles, "files", 0, "Number of files uploaded")
	jobCompleteCmd.Flags().Int64Var(&jobCompleteBytes, "bytes", 0, "Number of bytes uploaded")

	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobListCmd)
	jobCmd.AddCommand(jobRunCmd)
	jobCmd.AddCommand(jobCancelCmd)
	jobCmd.AddCommand(jobCompleteCmd)
	jobCmd.AddCommand(jobReportCmd)
	RootCmd.AddCommand(jobCmd)
}

// transferrer picks the collaborator for this invocation.
func transferrer() job.Transferrer {
	if jobMock {
		mock := job.NewMockTransfer()
		mock.Delay = jobMockDelay
		return mock
	}
	return job.HandoffTransfer{}
}

func runJobCreate(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	j, err := rt.jobService(job.HandoffTransfer{}).Create(context.Background(), jobLoadID)
	if err != nil {
		return err
	}
	rt.logger.Info("job created",
		zap.String("load_id", j.LoadID),
		zap.String("job_id", j.ID),
		zap.String("status", string(j.Status)))
	return nil
}

func runJobList(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	jobs, err := rt.jobService(job.HandoffTransfer{}).List(context.Background(), jobListFilter)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("no jobs")
		return nil
	}
	for _, j := range jobs {
		fmt.Printf("%s  %-9s  created=%s\n",
			j.LoadID, j.Status, j.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runJobRun(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	svc := rt.jobService(transferrer())
	j, err := svc.Run(context.Background(), jobLoadID, job.RunOptions{Count: jobCount})
	if err != nil {
		return err
	}

	if !j.Status.Terminal() {
		rt.logger.Info("job handed to transfer worker, awaiting completion callback",
			zap.String("load_id", j.LoadID),
			zap.String("status", string(j.Status)))
		return nil
	}
	return printJobReport(rt, jobLoadID)
}

func runJobCancel(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	j, err := rt.jobService(transferrer()).Cancel(context.Background(), jobLoadID)
	if err != nil {
		return err
	}
	rt.logger.Info("job cancelled",
		zap.String("load_id", j.LoadID),
		zap.String("status", string(j.Status)))
	return nil
}

func runJobComplete(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	svc := rt.jobService(job.HandoffTransfer{})
	_, err = svc.Complete(context.Background(), jobLoadID,
		!jobCompleteFailed, jobCompleteDetail, jobCompleteFiles, jobCompleteBytes)
	if err != nil {
		return err
	}
	return printJobReport(rt, jobLoadID)
}

func runJobReport(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	return printJobReport(rt, jobLoadID)
}

func printJobReport(rt *runtime, loadID string) error {
	svc := rt.jobService(job.HandoffTransfer{})
	j, m, err := svc.Report(context.Background(), loadID)
	if err != nil {
		return err
	}
	fmt.Print(report.RenderJob(j, m))
	return nil
}
