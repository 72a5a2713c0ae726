package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tensorplex-labs/doubletfilter/internal/architecture"
	"github.com/tensorplex-labs/doubletfilter/internal/config"
)

type model struct {
	choices       []string
	cursor        int
	selectedIndex int // single selection index; -1 until chosen
	cfg           *config.AppConfig
	channels      int
}

func initialModel() *model {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	return &model{
		choices:       architecture.Names(),
		cursor:        0,
		selectedIndex: -1,
		cfg:           cfg,
		channels:      architecture.DoubletChannels,
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint
	switch msg := msg.(type) { //nolint
	case tea.KeyMsg:
		switch msg.String() {
		// These keys should exit the program.
		case "ctrl+c", "q":
			return m, tea.Quit

		// The "up" and "k" keys move the cursor up
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		// The "down" and "j" keys move the cursor down
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		// The "left"/"right" keys change the pad channels.
		case "left", "h":
			if m.channels > 1 {
				m.channels--
			}
		case "right", "l":
			m.channels++

		// The "enter" key confirms the current cursor selection.
		case "enter":
			m.selectedIndex = m.cursor
			name := m.choices[m.selectedIndex]

			arch, err := architecture.Build(name, m.cfg.Hyperparams(), m.cfg.Dims(m.channels))
			if err != nil {
				fmt.Printf("Error building %s: %v\n", name, err)
				return m, tea.Quit
			}
			if err := arch.Summary(os.Stdout); err != nil {
				fmt.Printf("Error summarizing %s: %v\n", name, err)
				return m, tea.Quit
			}

			path := filepath.Join(m.cfg.LogDir, m.cfg.ModelName+name+".json")
			if err := arch.Save(path); err != nil {
				fmt.Printf("Error saving %s: %v\n", name, err)
				return m, tea.Quit
			}
			fmt.Printf("Saved %s to %s\n", name, path)

			return m, tea.Quit
		}
	}

	// Return the updated model to the Bubble Tea runtime for processing.
	return m, nil
}

func (m *model) View() string {
	s := fmt.Sprintf("Select a model (%d pad channels):\n\n", m.channels)

	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, choice)
	}

	s += "\nleft/right: channels, enter: summarize and save, q: quit.\n"
	return s
}

func (m *model) Init() tea.Cmd {
	return nil
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
