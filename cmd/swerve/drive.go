package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/swerve/pkg/input"
	"github.com/gwillem/swerve/pkg/swerve"
	"github.com/gwillem/swerve/pkg/teleop"
	"github.com/gwillem/swerve/pkg/vision"
)

type DriveCommand struct {
	Hz       int  `long:"hz" description:"Control loop frequency (default from config)"`
	Gamepad  int  `long:"gamepad" default:"1" description:"HID gamepad index"`
	Keyboard bool `long:"keyboard" description:"Drive with the keyboard instead of a gamepad"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	statusHeight = 2 // stick/drive status + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Wheel colors - distinct colors for each wheel
var wheelColors = map[swerve.Wheel]string{
	swerve.FrontRight: "196", // red
	swerve.FrontLeft:  "208", // orange
	swerve.RearLeft:   "46",  // green
	swerve.RearRight:  "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// How hard one key press deflects the virtual stick.
const keyboardStep = 0.25

type driveModel struct {
	ctrl  *teleop.Controller
	stick *input.Stick // nil when a real gamepad is attached
	lime  *vision.Limelight
	chart *streamlinechart.Model

	width         int
	height        int
	logs          []string
	quitting      bool
	lastState     teleop.State
	lastPositions map[swerve.Wheel]float64 // detect movement to freeze the chart when idle
}

func (m *driveModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// hasMovement checks if any wheel position has changed since the last state
func (m *driveModel) hasMovement(positions map[swerve.Wheel]float64) bool {
	if m.lastPositions == nil {
		return true // first reading, consider it movement
	}
	for w, pos := range positions {
		if lastPos, ok := m.lastPositions[w]; !ok || pos != lastPos {
			return true
		}
	}
	return false
}

// Messages from the controller
type stateMsg teleop.State
type logMsg string

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *driveModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - statusHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *driveModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialDriveModel(ctrl *teleop.Controller, stick *input.Stick, lime *vision.Limelight, quantum float64) driveModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-2*quantum, 2*quantum),
	)

	// Set up data set styles for each wheel
	for _, w := range swerve.AllWheels() {
		color := wheelColors[w]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(w), runes.ThinLineStyle, style)
	}

	return driveModel{
		ctrl:  ctrl,
		stick: stick,
		lime:  lime,
		chart: &chart,
	}
}

func (m driveModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m driveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "z":
			m.ctrl.CaptureZero()
			return m, nil
		case "x":
			m.ctrl.ReturnToZero(false)
			return m, nil
		case "n":
			m.ctrl.ReturnToZero(true)
			return m, nil
		}
		if m.stick != nil {
			switch msg.String() {
			case "up":
				m.stick.Nudge(0, keyboardStep, 0)
			case "down":
				m.stick.Nudge(0, -keyboardStep, 0)
			case "left":
				m.stick.Nudge(-keyboardStep, 0, 0)
			case "right":
				m.stick.Nudge(keyboardStep, 0, 0)
			case "[":
				m.stick.Nudge(0, 0, -keyboardStep)
			case "]":
				m.stick.Nudge(0, 0, keyboardStep)
			case " ":
				m.stick.Center()
			}
		}
		return m, nil

	case stateMsg:
		state := teleop.State(msg)
		m.lastState = state
		if state.Positions != nil {
			// Only update chart if there's movement (freeze when idle)
			if m.hasMovement(state.Positions) {
				for w, pos := range state.Positions {
					m.chart.PushDataSet(string(w), pos)
				}
				m.chart.DrawAll()
				m.lastPositions = state.Positions
			}
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m driveModel) View() string {
	if m.quitting {
		return "Teleoperation stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Swerve Drive"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	if m.stick != nil {
		sb.WriteString(statusStyle.Render("  [keyboard]"))
	}
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart of steering positions
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Status line
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("z: capture zero  x: return to zero  n: nearest zero  q: quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m driveModel) renderStatus() string {
	s := m.lastState
	status := fmt.Sprintf("stick (%+.2f %+.2f %+.2f)", s.Sample.X, s.Sample.Y, s.Sample.Z)
	if s.Drive.Deadzone {
		status += "  deadzone"
	} else {
		status += fmt.Sprintf("  speed %.2f  rot %+.2f", s.Drive.Speed, s.Drive.Rotation)
	}
	if m.lime != nil && m.lime.HasTarget() {
		status += fmt.Sprintf("  target tx %+.1f ty %+.1f", m.lime.HorizontalOffset(), m.lime.VerticalOffset())
	}
	return statusStyle.Render(status)
}

func renderLegend() string {
	var items []string
	for _, w := range swerve.AllWheels() {
		color := wheelColors[w]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + string(w)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (c *DriveCommand) Execute(args []string) error {
	cfg, err := swerve.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'swerve calibrate' first.")
		os.Exit(1)
	}
	if cfg.Port == "" {
		fmt.Fprintln(os.Stderr, "Drivetrain not configured. Run 'swerve calibrate' first.")
		os.Exit(1)
	}
	if !cfg.IsCalibrated() {
		fmt.Fprintln(os.Stderr, "Steering zeros not captured. Run 'swerve calibrate' first.")
		os.Exit(1)
	}

	fmt.Printf("Loaded configuration from %s\n", swerve.DefaultConfigFile)

	// The shared number table doubles as the drivetrain dashboard and the
	// vision table.
	dash := vision.NewTable()
	lime := vision.NewLimelight(dash)

	dt, err := swerve.Open(cfg, dash)
	if err != nil {
		log.Fatalf("Failed to open drivetrain: %v", err)
	}
	defer dt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := dt.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize drivetrain: %v", err)
	}
	defer dt.Disable(context.Background())

	// Axis source: real gamepad, or a keyboard-driven virtual stick.
	var axes teleop.AxisSource
	var stick *input.Stick
	if c.Keyboard {
		stick = input.NewStick()
		axes = stick
	} else {
		pad, err := input.OpenGamepad(c.Gamepad)
		if err != nil {
			fmt.Printf("No gamepad found (%v), falling back to keyboard\n", err)
			stick = input.NewStick()
			axes = stick
		} else {
			defer pad.Close()
			axes = pad
		}
	}

	hz := c.Hz
	if hz <= 0 {
		hz = cfg.Hz
	}

	ctrl, err := teleop.NewController(teleop.Config{
		Train: dt.Train,
		Input: axes,
		Hz:    hz,
	})
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	p := tea.NewProgram(initialDriveModel(ctrl, stick, lime, cfg.SteerQuantum), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}
