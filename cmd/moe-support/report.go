package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/satyamsundaram01/moe-support-assist/core"
	"github.com/satyamsundaram01/moe-support-assist/synthesis"
)

var (
	reportKnowledgeFile string
	reportExecutionFile string
	reportQuery         string
	reportOut           string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a synthesis report from saved findings",
	Long: `report runs the synthesis engine over knowledge and execution findings
captured earlier (for example from a pipeline run) and prints the final
campaign support report: root cause analysis, prioritized recommendations
and next steps.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportKnowledgeFile, "knowledge", "", "file with knowledge stage findings")
	reportCmd.Flags().StringVar(&reportExecutionFile, "execution", "", "file with execution stage findings")
	reportCmd.Flags().StringVar(&reportQuery, "query", "", "user query the findings answer")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write the report to a file instead of stdout")
	_ = reportCmd.MarkFlagRequired("knowledge")
	_ = reportCmd.MarkFlagRequired("execution")
}

// reportState adapts flag and file inputs to the state surface the synthesis
// engine reads.
type reportState map[string]any

func (m reportState) GetState(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func runReport(cmd *cobra.Command, args []string) error {
	knowledge, err := os.ReadFile(reportKnowledgeFile)
	if err != nil {
		return err
	}
	execution, err := os.ReadFile(reportExecutionFile)
	if err != nil {
		return err
	}

	state := reportState{
		core.StateKeyPhase:             core.PhaseTechnicalComplete,
		core.StateKeyKnowledgeFindings: string(knowledge),
		core.StateKeyExecutionResults:  string(execution),
	}
	if reportQuery != "" {
		state[core.StateKeyUserQuery] = reportQuery
	}

	report := synthesis.NewEngine().FinalSolution(state)

	if reportOut != "" {
		return os.WriteFile(reportOut, []byte(report), 0o644)
	}
	fmt.Println(report)
	return nil
}
