package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/codeplug/internal/converter"
	"github.com/nconklindev/codeplug/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateSheetSelection
	stateProcessing
	stateComplete
	stateError
)

// Settings carries the configured sheet names and Anytone defaults.
type Settings struct {
	SourceSheet  string
	AnytoneSheet string
	Defaults     map[string]any
}

type Model struct {
	state        state
	settings     Settings
	filepicker   filepicker.Model
	selectedFile string
	fileData     *types.FileData
	cursor       int
	mode         types.Mode
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data *types.FileData
	err  error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(settings Settings) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(highlight)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(muted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accent).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(muted)

	prog := progress.New(progress.WithGradient("#2E86DE", "#54A0FF"))

	return Model{
		state:      stateFilePicker,
		settings:   settings,
		filepicker: fp,
		mode:       types.ModeFT70,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle and help line.
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateSheetSelection:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
					m.mode = suggestedMode(m.fileData.Sheets[m.cursor])
				}
			case "down", "j":
				if m.cursor < len(m.fileData.Sheets)-1 {
					m.cursor++
					m.mode = suggestedMode(m.fileData.Sheets[m.cursor])
				}
			case "tab", "m":
				m.mode = otherMode(m.mode)
			case "enter":
				m.state = stateProcessing
				return m.convertFile()
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.fileData = msg.data
		m.cursor = initialSheet(msg.data, m.settings.SourceSheet)
		m.mode = suggestedMode(m.fileData.Sheets[m.cursor])
		m.state = stateSheetSelection
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

// suggestedMode picks FT70 for sheets carrying the RepeaterBook marker.
func suggestedMode(s types.SheetPreview) types.Mode {
	if s.RepeaterBook {
		return types.ModeFT70
	}
	return types.ModeAnytone
}

func otherMode(mode types.Mode) types.Mode {
	if mode == types.ModeFT70 {
		return types.ModeAnytone
	}
	return types.ModeFT70
}

// initialSheet places the cursor on the configured source sheet if present.
func initialSheet(data *types.FileData, name string) int {
	for i, s := range data.Sheets {
		if s.Name == name {
			return i
		}
	}
	return 0
}

// OutputPath returns where the UI writes the converted copy of input.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_converted" + ext
}

func (m Model) loadFile(path string) tea.Cmd {
	sheet := m.settings.SourceSheet
	return func() tea.Msg {
		data, err := converter.ReadFileData(path, sheet)
		return fileLoadedMsg{data: data, err: err}
	}
}

func (m Model) options() converter.Options {
	return converter.Options{
		InputFile:   m.selectedFile,
		OutputFile:  OutputPath(m.selectedFile),
		Mode:        m.mode,
		SourceSheet: m.fileData.Sheets[m.cursor].Name,
		TargetSheet: m.settings.AnytoneSheet,
		Defaults:    m.settings.Defaults,
	}
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	opts := m.options()
	progressChan := m.progressChan
	resultChan := m.resultChan

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := converter.ConvertFile(opts, progressChan)

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateSheetSelection:
		return m.viewSheetSelection()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	title := TitleStyle.Render("📻 Codeplug - Channel List Converter")
	byLine := lipgloss.JoinHorizontal(lipgloss.Top,
		SubtitleStyle.Render("RepeaterBook → FT-70D • FT-70D → Anytone • "),
		LinkStyle.Render("https://github.com/nconklindev/codeplug"),
	)

	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, title, byLine))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV or XLSX codeplug to convert"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewSheetSelection() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📻 Select Source Sheet"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	for i, sheet := range m.fileData.Sheets {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %s (%d rows, %d columns)", cursor, sheet.Name, sheet.Rows, len(sheet.Headers))
		if sheet.RepeaterBook {
			line += " [RepeaterBook]"
		}

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Conversion: %s\n", CheckedStyle.Render(m.mode.String())))
	if m.mode == types.ModeAnytone {
		s.WriteString(fmt.Sprintf("New sheet:  %s\n", m.settings.AnytoneSheet))
	}
	s.WriteString(fmt.Sprintf("Output:     %s\n", filepath.Base(OutputPath(m.selectedFile))))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: choose sheet • tab: switch conversion • enter: convert • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📻 Processing..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Converting %s...", m.mode))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", truncatePath(m.result.OutputFile, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(Summary(m.result))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, limit int) string {
	if len(path) > limit {
		return "..." + path[len(path)-limit+3:]
	}
	return path
}

// Summary describes a finished conversion in a few lines.
func Summary(res *types.ConversionResult) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("Conversion: %s\n", res.Mode))
	s.WriteString(fmt.Sprintf("Sheet: %s → %s\n", res.SourceSheet, res.TargetSheet))
	s.WriteString(fmt.Sprintf("Channels: %d\n", res.RowsProcessed))
	s.WriteString(fmt.Sprintf("Columns: %d (%d added, %d removed)\n", len(res.Headers), len(res.ColumnsAdded), len(res.ColumnsRemoved)))
	return s.String()
}
