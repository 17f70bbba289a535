package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/schwab/config"
	"github.com/etnz/schwab/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

const testConfig = `year: 2024
stock_splits: [{date: "2024-06-07", ratio: 10}]
directories: {transactions: transactions, reports: reports}
`

const testIndividual = `"Date","Action","Symbol","Description","Quantity","Price","Fees & Comm","Amount"
"03/28/2024","Qual Div Reinvest","VTI","","","","","$12.50"
"03/28/2024","Reinvest Shares","VTI","","0.05","$250.00","","-$12.50"
"01/31/2024","Credit Interest","","","","","","$0.42"
"02/15/2024","NRA Tax Adj","VTI","","","","","($3.75)"
`

const testPlan = `Date,Action,Symbol,Quantity,Amount,Type,Shares,SalePrice,VestDate,VestFairMarketValue,PurchaseDate,PurchaseFairMarketValue
05/01/2024,Sale,NVDA,2,"$1,800.00",,,,,,,
,,,,,RS,2,$900.00,03/01/2023,$50.00,,
02/15/2024,Dividend,NVDA,,$0.40,,,,,,,
02/15/2024,Tax Withholding,NVDA,,($0.12),,,,,,,
`

// workspace creates a folder with a configuration and the 2024 exports, and moves into it.
func workspace(t *testing.T, plan string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"config.yaml": testConfig,
		"transactions/Individual_transactions_2024.csv": testIndividual,
		"transactions/EAC_transactions_2024.csv":        plan,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(dir)
	t.Setenv(config.EnvVar, "")
	return dir
}

// execute runs the command with args, and returns its status and output.
func execute(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	return executeContext(t, context.Background(), c, args...)
}

// executeContext is like execute with a context, e.g. carrying a logger.
func executeContext(t *testing.T, ctx context.Context, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var buf bytes.Buffer
	stdout, rawMarkdown = &buf, true
	t.Cleanup(func() { stdout, rawMarkdown = os.Stdout, false })

	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("invalid arguments %q: %v", args, err)
	}
	return c.Execute(ctx, f), buf.String()
}

func TestRunCmd(t *testing.T) {
	dir := workspace(t, testPlan)
	status, out := execute(t, &runCmd{})
	if status != subcommands.ExitSuccess {
		t.Fatalf("run exited with %v: %s", status, out)
	}
	if !strings.Contains(out, "reports/sale_transactions.csv") {
		t.Errorf("run output does not list the sale report: %q", out)
	}

	tests := []struct {
		file string
		want string
	}{
		{"dividend_transactions.csv", "Date,Action,Symbol,Amount\n2024/02/15,Dividend,NVDA,0.4\n2024/03/28,Qual Div Reinvest,VTI,12.5\n"},
		{"interest_transactions.csv", "Date,Action,Amount\n2024/01/31,Credit Interest,0.42\n"},
		{"tax_deducted_transactions.csv", "Date,Symbol,Amount\n2024/02/15,VTI,-3.75\n2024/02/15,NVDA,-0.12\n"},
		{"sale_transactions.csv", "Date,Symbol,Quantity,Amount,Cost Basis,PurchaseDate\n2024/05/01,NVDA,20,1800,1000,2023/03/01\n"},
	}
	for _, tc := range tests {
		got, err := os.ReadFile(filepath.Join(dir, "reports", tc.file))
		if err != nil {
			t.Errorf("cannot read %s: %v", tc.file, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("%s = %q, want %q", tc.file, got, tc.want)
		}
	}
}

func TestRunCmd_ContextLogger(t *testing.T) {
	dir := workspace(t, testPlan)
	// the configured level is ignored when a logger is given, as with -log.
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig+"log_level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&logs).Level(zerolog.InfoLevel))
	if status, out := executeContext(t, ctx, &runCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("run exited with %v: %s", status, out)
	}
	if !strings.Contains(logs.String(), "report built") {
		t.Errorf("run did not log through the context logger: %q", logs.String())
	}
}

func TestRunCmd_NoPartialOutput(t *testing.T) {
	dir := workspace(t, "Date,Action,Symbol,Quantity,Amount,Type,Shares\n,,,,,RS,2\n")
	status, _ := execute(t, &runCmd{})
	if status != subcommands.ExitFailure {
		t.Errorf("run exited with %v, want failure", status)
	}
	if _, err := os.Stat(filepath.Join(dir, "reports")); !os.IsNotExist(err) {
		t.Errorf("reports were written despite the failure")
	}
}

func TestRunCmd_MissingConfig(t *testing.T) {
	workspace(t, testPlan)
	status, _ := execute(t, &runCmd{}, "-config", "missing.yaml")
	if status != subcommands.ExitFailure {
		t.Errorf("run exited with %v, want failure", status)
	}
}

func TestSummaryCmd(t *testing.T) {
	workspace(t, testPlan)
	status, out := execute(t, &summaryCmd{})
	if status != subcommands.ExitSuccess {
		t.Fatalf("summary exited with %v: %s", status, out)
	}
	for _, want := range []string{"# Tax Report 2024", "| Interest | 1 | $0.42 |", "| **Realized Gain** | | **+$800.00** |"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary does not contain %q:\n%s", want, out)
		}
	}
}

func TestQueryCmd(t *testing.T) {
	workspace(t, testPlan)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-path", "$.sales[*].Symbol"}, "[\n  \"NVDA\"\n]\n"},
		{[]string{"-path", "$.interest[0].Amount"}, "0.42\n"},
		{[]string{"-path", "$.tax_deducted[*].Symbol"}, "[\n  \"VTI\",\n  \"NVDA\"\n]\n"},
	}
	for _, tc := range tests {
		status, out := execute(t, &queryCmd{}, tc.args...)
		if status != subcommands.ExitSuccess {
			t.Fatalf("query %q exited with %v", tc.args, status)
		}
		if out != tc.want {
			t.Errorf("query %q = %q, want %q", tc.args, out, tc.want)
		}
	}

	status, out := execute(t, &queryCmd{})
	if status != subcommands.ExitSuccess || !strings.HasPrefix(out, "{\n  \"dividends\": [") {
		t.Errorf("query = %v %q", status, out)
	}
}

func TestTopicCmd(t *testing.T) {
	status, out := execute(t, &topicCmd{}, "config")
	if status != subcommands.ExitSuccess || !strings.HasPrefix(out, "# Configuration") {
		t.Errorf("topic config = %v %q", status, out)
	}
	if status, _ := execute(t, &topicCmd{}, "unknown"); status != subcommands.ExitUsageError {
		t.Errorf("topic unknown exited with %v, want usage error", status)
	}
	status, out = execute(t, &topicCmd{}, "-list")
	if status != subcommands.ExitSuccess || !strings.Contains(out, "reports    Reports\n") {
		t.Errorf("topic -list = %v %q", status, out)
	}
}
