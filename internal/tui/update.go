package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tgplan/internal/domain"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.loading = false
		if err := m.applyConfig(msg.Config); err != nil {
			m.err = err
			return m, nil
		}
		m.status = fmt.Sprintf("Loaded %s", m.configPath)
		return m, nil

	case ReportExportedMsg:
		if msg.Err != nil {
			m.status = "Export failed: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("Report %s written to %s", msg.ReportID, msg.Path)
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// An error screen swallows the next key
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		return m, navigate(SceneHelp)
	case key.Matches(msg, m.keys.Back):
		if m.currentScene == SceneHelp {
			return m, navigate(m.previousScene)
		}
		return m, nil
	case key.Matches(msg, m.keys.Generations):
		return m, navigate(SceneCascade)
	case key.Matches(msg, m.keys.Plan):
		return m, navigate(ScenePlan)
	case key.Matches(msg, m.keys.Compare):
		return m, navigate(SceneCompare)
	case key.Matches(msg, m.keys.Rules):
		return m, navigate(SceneRules)
	}

	switch m.currentScene {
	case SceneCascade:
		return m.updateCascade(msg)
	case ScenePlan:
		return m.updatePlan(msg)
	case SceneRules:
		return m.updateRules(msg)
	}
	return m, nil
}

func (m Model) updateCascade(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.cascadeForm.next()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.cascadeForm.prev()
		return m, nil
	case key.Matches(msg, m.keys.Ownership):
		m.ownershipChanged = !m.ownershipChanged
		m.recalculate()
		return m, nil
	case key.Matches(msg, m.keys.Beneficiary):
		m.faceToGen3Directly = !m.faceToGen3Directly
		m.recalculate()
		return m, nil
	case key.Matches(msg, m.keys.Export):
		if m.cascadeResult == nil {
			m.status = "Nothing to export until the inputs are valid"
			return m, nil
		}
		m.status = "Exporting report..."
		return m, exportReportCmd(m.branding, *m.cascadeResult)
	}

	if editKey(msg) {
		cmd := m.cascadeForm.update(msg)
		m.recalculate()
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.planForm.next()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.planForm.prev()
		return m, nil
	case key.Matches(msg, m.keys.Strategy):
		m.strategy = nextStrategy(m.strategy)
		m.recalculate()
		return m, nil
	case key.Matches(msg, m.keys.RPU):
		m.rpuEnabled = !m.rpuEnabled
		m.recalculate()
		return m, nil
	case key.Matches(msg, m.keys.RPUMode):
		if m.rpuMode == domain.RPUAuto {
			m.rpuMode = domain.RPUManual
		} else {
			m.rpuMode = domain.RPUAuto
		}
		m.recalculate()
		return m, nil
	}

	if editKey(msg) {
		cmd := m.planForm.update(msg)
		m.recalculate()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateRules(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.rulesForm.next()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.rulesForm.prev()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.setRules(m.regulatory.Tax)
		m.applyRules()
		m.status = "Restored the loaded exemption and deductions"
		return m, nil
	}

	if editKey(msg) {
		cmd := m.rulesForm.update(msg)
		m.applyRules()
		return m, cmd
	}
	return m, nil
}

// editKey reports whether a key edits the focused numeric field
func editKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU:
		return true
	}
	return numericRunes(msg)
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}
