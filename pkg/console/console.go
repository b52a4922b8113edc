package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Console é uma implementação do ConsoleInterface.
type Console struct {
	out io.Writer
}

// NewConsole cria um novo Console que escreve na saída padrão.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWithWriter cria um Console que escreve painéis e tabelas em w.
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// Cores predefinidas para uso consistente
var (
	BrightMagenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	BoldRed       = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightGreen   = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow  = color.New(color.FgYellow, color.Bold).SprintFunc()
	BrightCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com o total de etapas.
func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Building KPI report").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false).
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayPanel exibe o conteúdo dentro de uma caixa com título.
func (c *Console) DisplayPanel(title string, content string) {
	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(content)
	fmt.Fprintln(c.out, "\n"+panel)
}

// DisplayTrendBars exibe um gráfico de barras mensal com a variação mês a mês.
// Para volume e receita, crescimento é exibido em verde e queda em vermelho.
func (c *Console) DisplayTrendBars(title string, values []types.MonthlyValue, unit string) {
	maxValue := 0.0
	for _, v := range values {
		if v.Value > maxValue {
			maxValue = v.Value
		}
	}

	if maxValue == 0 {
		pterm.Warning.Printfln("%s: all values are zero for this window", title)
		return
	}

	tableData := pterm.TableData{
		{"Month", "Value", "", "MoM Change"},
	}

	for i, mv := range values {
		barLength := int((mv.Value / maxValue) * 40)
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		change := ""
		if i > 0 {
			label, direction := monthOverMonth(values[i-1].Value, mv.Value)
			switch direction {
			case trendUp:
				change = pterm.FgGreen.Sprint(label)
				barColor = pterm.FgGreen.Sprint(bar)
			case trendDown:
				change = pterm.FgRed.Sprint(label)
				barColor = pterm.FgRed.Sprint(bar)
			default:
				change = pterm.FgYellow.Sprint(label)
				barColor = pterm.FgYellow.Sprint(bar)
			}
		}

		tableData = append(tableData, []string{
			mv.Month,
			FormatValue(mv.Value, unit),
			barColor,
			change,
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	c.DisplayPanel(title, renderedTable)
}

type trend int

const (
	trendFlat trend = iota
	trendUp
	trendDown
)

// monthOverMonth descreve a variação percentual entre dois meses consecutivos.
func monthOverMonth(prev, cur float64) (string, trend) {
	if math.Abs(prev) < 0.01 {
		if math.Abs(cur) < 0.01 {
			return "0%", trendFlat
		}
		return "N/A", trendUp
	}

	changePercent := ((cur - prev) / prev) * 100.0
	switch {
	case math.Abs(changePercent) < 0.01:
		return "0%", trendFlat
	case changePercent > 999:
		return ">+999%", trendUp
	case changePercent < -999:
		return ">-999%", trendDown
	case changePercent > 0:
		return fmt.Sprintf("+%.2f%%", changePercent), trendUp
	default:
		return fmt.Sprintf("%.2f%%", changePercent), trendDown
	}
}

// FormatValue formata um valor com a unidade; inteiros são exibidos sem casas decimais.
func FormatValue(v float64, unit string) string {
	s := fmt.Sprintf("%.2f", v)
	if v == math.Trunc(v) {
		s = fmt.Sprintf("%.0f", v)
	}
	if unit == "" {
		return s
	}
	return s + " " + unit
}
