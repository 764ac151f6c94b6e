package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/steparm/pkg/control"
	"github.com/gwillem/steparm/pkg/robot"
)

type MenuCommand struct{}

const (
	headerHeight = 2 // title + blank line
	helpHeight   = 3 // help text + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

type mode int

const (
	modeMenu mode = iota
	modeManual
	modeButtons
)

// Joint colors
var jointColors = map[robot.JointName]string{
	robot.Base:     "196", // red
	robot.JointOne: "226", // yellow
	robot.JointTwo: "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const menuText = `Options:
1 : Manual Robot Control
2 : Reset Robot's Sensor Position
3 : Reset Robot to Base Position
4 : Print Diagnostics
5 : Button Control
q : Exit Program`

const manualHelp = "d/a base  w/s joint 1  i/k joint 2  t print  c zero  q back"

type menuModel struct {
	ctrl   *control.Controller
	poller *control.ButtonPoller
	chart  *streamlinechart.Model

	mode        mode
	width       int
	height      int
	logs        []string
	notice      string
	showDiag    bool
	showMotors  bool
	diag        robot.Diagnostics
	lastAngles  *robot.Pose
	stopPolling context.CancelFunc
	quitting    bool
	interrupted bool
}

// Messages from the controller
type stateMsg control.State
type logMsg string
type pollDoneMsg struct{ err error }

func waitForState(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func runPoller(ctx context.Context, p *control.ButtonPoller) tea.Cmd {
	return func() tea.Msg {
		return pollDoneMsg{err: p.Run(ctx)}
	}
}

func newMenuModel(ctrl *control.Controller, poller *control.ButtonPoller) menuModel {
	chart := streamlinechart.New(80, 12,
		streamlinechart.WithYRange(-180, 180),
	)
	for _, name := range robot.AllJoints() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[name]))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}
	return menuModel{
		ctrl:   ctrl,
		poller: poller,
		chart:  &chart,
	}
}

func (m *menuModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *menuModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 12 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - helpHeight - footerHeight - borderSize - 8
	if height < 6 {
		height = 6
	}
	return width, height
}

func (m *menuModel) submit(cmd control.Command) {
	if !m.ctrl.Submit(cmd) {
		m.notice = "Busy, try again"
	}
}

func (m menuModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.Resize(m.chartSize())
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeMenu:
			return m.updateMenu(msg.String())
		case modeManual:
			return m.updateManual(msg.String())
		case modeButtons:
			if msg.String() == "q" {
				m.stopButtons()
				m.mode = modeMenu
			}
		}

	case stateMsg:
		state := control.State(msg)
		m.diag = state.Diagnostics
		angles := state.Diagnostics.Angles()
		// Only push to the chart on movement so it freezes while idle.
		if m.lastAngles == nil || *m.lastAngles != angles {
			for i, name := range robot.AllJoints() {
				m.chart.PushDataSet(string(name), angles[i])
			}
			m.chart.DrawAll()
			m.lastAngles = &angles
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)

	case pollDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.addLog(fmt.Sprintf("Button control stopped: %v", msg.err))
			m.stopButtons()
			m.mode = modeMenu
		}
		return m, nil
	}

	return m, nil
}

func (m menuModel) updateMenu(key string) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.showDiag = false
	switch key {
	case "1":
		m.mode = modeManual
		m.showMotors = false
	case "2":
		m.submit(control.ZeroCounters)
		m.notice = "Robot Position Reset"
	case "3":
		m.submit(control.Home)
	case "4":
		m.submit(control.Snapshot)
		m.showDiag = true
	case "5":
		if m.poller == nil {
			m.notice = "No buttons configured"
			return m, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.stopPolling = cancel
		m.mode = modeButtons
		return m, runPoller(ctx, m.poller)
	case "q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.notice = "Invalid key, please retry"
	}
	return m, nil
}

func (m menuModel) updateManual(key string) (tea.Model, tea.Cmd) {
	if key == "q" {
		m.mode = modeMenu
		m.notice = ""
		return m, nil
	}
	cmd, ok := control.KeyCommand(key)
	if !ok {
		return m, nil
	}
	m.notice = ""
	if cmd == control.Snapshot {
		m.showMotors = true
	}
	m.submit(cmd)
	return m, nil
}

func (m *menuModel) stopButtons() {
	if m.stopPolling != nil {
		m.stopPolling()
		m.stopPolling = nil
	}
}

func (m menuModel) View() string {
	if m.quitting {
		if m.interrupted {
			return "Quitting by keyboard interrupt\n"
		}
		return "Exiting\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Robot Operation"))
	switch m.mode {
	case modeManual:
		sb.WriteString(statusStyle.Render("  manual control"))
	case modeButtons:
		sb.WriteString(statusStyle.Render("  button control"))
	}
	sb.WriteString("\n\n")

	switch m.mode {
	case modeMenu:
		sb.WriteString(menuText)
		sb.WriteString("\n\n")
		if m.showDiag {
			sb.WriteString(renderDiagnostics(m.diag))
			sb.WriteString("\n")
		}
	case modeManual:
		sb.WriteString(statusStyle.Render(manualHelp))
		sb.WriteString("\n\n")
		sb.WriteString(chartStyle.Render(m.chart.View()))
		sb.WriteString("\n")
		sb.WriteString(renderLegend())
		sb.WriteString("\n")
		if m.showMotors {
			sb.WriteString(m.diag.Summary())
		}
	case modeButtons:
		sb.WriteString(statusStyle.Render(fmt.Sprintf("Hold a button to jog %d steps per poll. Press q to stop.", m.ctrl.JogSteps())))
		sb.WriteString("\n\n")
		sb.WriteString(renderDiagnostics(m.diag))
		sb.WriteString("\n")
	}

	if m.notice != "" {
		sb.WriteString(noticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Foreground(lipgloss.Color("9"))
	if m.width > 4 {
		logStyle = logStyle.Width(m.width - 4)
	}

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press ctrl+c to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderDiagnostics(d robot.Diagnostics) string {
	headerCell := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	labelCell := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	rows := d.Rows()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(statusStyle).
		Headers(rows[0]...).
		Rows(rows[1:]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			if col == 0 {
				return labelCell
			}
			return cell
		})
	return "Diagnostics:\n" + t.Render()
}

func renderLegend() string {
	var items []string
	for _, name := range robot.AllJoints() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColors[name])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+string(name))
	}
	return strings.Join(items, "  ")
}

func (c *MenuCommand) Execute(args []string) error {
	cfg, g, arm, err := openArm()
	if err != nil {
		return err
	}
	if opts.DryRun {
		fmt.Println("Dry run: pins are simulated")
	}

	ctrl := control.NewController(arm, control.Config{JogSteps: cfg.JogStepCount()})

	var poller *control.ButtonPoller
	if len(cfg.Buttons) > 0 {
		poller, err = control.NewButtonPoller(g, cfg.Buttons, cfg.PollInterval(), ctrl)
		if err != nil {
			return err
		}
	}

	// Start controller in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Controller error: %v", err)
		}
	}()

	p := tea.NewProgram(newMenuModel(ctrl, poller), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		log.Fatalf("Error running program: %v", err)
	}
	if fm, ok := final.(menuModel); ok {
		fm.stopButtons()
		fmt.Print(fm.View())
	}
	return nil
}
