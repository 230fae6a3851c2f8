package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/cryptoledger/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier imprimiendo los runs a stdout.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout. Con table=false
// solo se imprime el resumen compacto de una línea.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyRun imprime el resultado de un run de backtest terminado.
func (c *Console) NotifyRun(_ context.Context, run domain.RunResult) error {
	c.printCompact(run)
	if c.table {
		c.printReport(run)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(run domain.RunResult) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s %s | %d signals | %d entries | index %+.2f%% | capital %+.2f%%",
		now, run.Symbol, run.Interval, len(run.Signals), len(run.Entries),
		run.Performance.BaseIndexPctChange*100, run.Performance.TotalPctChange*100)

	if run.Stats != nil {
		fmt.Fprintf(&sb, " | %d pairs | net %+.4f%% | acc %.0f%%",
			len(run.Stats.Pairs), run.Stats.Net.Value*100, run.Stats.Accuracy*100)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printReport imprime el reporte completo con la tabla por pares.
func (c *Console) printReport(run domain.RunResult) {
	fmt.Fprintf(c.out, "========================================================\n")
	fmt.Fprintf(c.out, "  BACKTEST REPORT — %s %s (run %s)\n", run.Symbol, run.Interval, shortID(run.ID))
	fmt.Fprintf(c.out, "  %s to %s\n",
		run.StartedAt.Format("2006-01-02 15:04"),
		run.FinishedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(c.out, "  capital $%.2f | trade amount %.0f | fee %.2f%%\n",
		run.InitialCapital, run.TradeAmount, run.FeeRate*100)
	fmt.Fprintf(c.out, "========================================================\n")

	if run.Stats == nil {
		fmt.Fprintln(c.out, "\n  Not enough history to form order pairs — no statistics.")
		return
	}
	stats := run.Stats

	tbl := tablewriter.NewWriter(c.out)
	tbl.Header("#", "Entry time", "Entry", "Exit", "P/L", "")

	for i, pair := range stats.Pairs {
		pnl := stats.ProfitsAndLosses[i]
		marker := "+"
		if pnl < 0 {
			marker = "-"
		}
		tbl.Append(
			fmt.Sprintf("%d", i+1),
			pair.Entry.PricePoint.Time.Format("01-02 15:04"),
			fmt.Sprintf("%.8f", pair.Entry.PricePoint.Value),
			fmt.Sprintf("%.8f", pair.Exit.PricePoint.Value),
			fmt.Sprintf("%+.8f", pnl),
			marker,
		)
	}
	tbl.Render()

	ratio := "INF"
	if !math.IsInf(stats.ProfitToLossRatio, 1) {
		ratio = fmt.Sprintf("%.2f", stats.ProfitToLossRatio)
	}

	fmt.Fprintf(c.out, "\n  --- STATISTICS ---\n")
	fmt.Fprintf(c.out, "  Trading gains:      %+.4f%% over %s\n", stats.Trading.Value*100, stats.Trading.Elapsed)
	fmt.Fprintf(c.out, "  Index gains:        %+.4f%% over %s\n", stats.Index.Value*100, stats.Index.Elapsed)
	fmt.Fprintf(c.out, "  Net gains:          %+.4f%%\n", stats.Net.Value*100)
	fmt.Fprintf(c.out, "  Profit per order:   %+.6f%%\n", stats.ProfitPerPair*100)
	fmt.Fprintf(c.out, "  Prediction accuracy: %.1f%%\n", stats.Accuracy*100)
	fmt.Fprintf(c.out, "  Profit/loss ratio:  %s\n", ratio)
}

// PrintHistory imprime los resúmenes de runs guardados, los más
// nuevos primero.
func (c *Console) PrintHistory(runs []domain.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "no stored runs")
		return
	}

	tbl := tablewriter.NewWriter(c.out)
	tbl.Header("Run", "Symbol", "Int", "Finished", "Entries", "Pairs", "Capital %", "Net %", "Acc %")

	for _, r := range runs {
		tbl.Append(
			shortID(r.ID),
			r.Symbol,
			r.Interval,
			r.FinishedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Entries),
			fmt.Sprintf("%d", r.Pairs),
			fmt.Sprintf("%+.2f", r.TotalPctChange*100),
			fmt.Sprintf("%+.4f", r.NetGains*100),
			fmt.Sprintf("%.0f", r.Accuracy*100),
		)
	}
	tbl.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
