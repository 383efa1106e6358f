package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuhnmomo/magictrain/internal/catalog"
	"github.com/yuhnmomo/magictrain/internal/game"
)

// Zodiac options offered during creation.
var zodiacSigns = []string{
	"♈ 牡羊座", "♉ 金牛座", "♊ 雙子座", "♋ 巨蟹座", "♌ 獅子座", "♍ 處女座",
	"♎ 天秤座", "♏ 天蠍座", "♐ 射手座", "♑ 摩羯座", "♒ 水瓶座", "♓ 雙魚座",
}

type creationStep int

const (
	stepGender creationStep = iota
	stepAppearance
	stepName
	stepNickname
	stepSalutation
	stepZodiac
	stepConfirm
)

var (
	creationTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B9D")).
				MarginBottom(1)

	creationLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				Bold(true)

	creationOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee")).
				Padding(0, 1)

	creationSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 1)

	creationDescStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)

	creationErrStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B"))

	creationHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				MarginTop(1)
)

// CreationModel walks the player through building a persona: gender,
// appearance, names and zodiac, in that order.
type CreationModel struct {
	catalog *catalog.Catalog

	step     creationStep
	selected int
	input    textinput.Model
	errText  string
	width    int
	height   int

	gender     string
	appearance game.Appearance
	name       string
	nickname   string
	salutation string
	zodiac     string
}

// NewCreationModel creates the wizard.
func NewCreationModel(cat *catalog.Catalog) CreationModel {
	ti := textinput.New()
	ti.CharLimit = 30
	return CreationModel{catalog: cat, input: ti}
}

// SetSize updates the view dimensions.
func (m *CreationModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 10
}

// Prefill loads an existing persona so the wizard doubles as an editor.
func (m *CreationModel) Prefill(p game.Player) {
	m.gender = p.Gender
	m.appearance = p.Appearance
	m.name = p.Name
	m.nickname = p.Nickname
	m.salutation = p.Salutation
	m.zodiac = p.Zodiac
}

func (m CreationModel) options() []string {
	switch m.step {
	case stepGender:
		return []string{"男", "女"}
	case stepAppearance:
		apps := m.catalog.Appearances(m.gender)
		names := make([]string, len(apps))
		for i, a := range apps {
			names[i] = a.Name
		}
		return names
	case stepZodiac:
		return zodiacSigns
	default:
		return nil
	}
}

// Update handles messages.
func (m CreationModel) Update(msg tea.Msg) (CreationModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if opts := m.options(); opts != nil {
		switch key.String() {
		case "j", "down":
			if m.selected < len(opts)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "enter":
			m.choose(opts[m.selected])
			m.advance()
		}
		return m, nil
	}

	if m.step == stepConfirm {
		switch key.String() {
		case "enter", "y":
			return m, m.finish()
		case "n", "backspace":
			m.step = stepGender
			m.selected = 0
		}
		return m, nil
	}

	// Text input steps
	switch key.String() {
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.errText = "此欄位不能空白。"
			return m, nil
		}
		m.errText = ""
		switch m.step {
		case stepName:
			m.name = value
		case stepNickname:
			m.nickname = value
		case stepSalutation:
			m.salutation = value
		}
		m.advance()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *CreationModel) choose(option string) {
	switch m.step {
	case stepGender:
		m.gender = option
	case stepAppearance:
		apps := m.catalog.Appearances(m.gender)
		m.appearance = apps[m.selected]
	case stepZodiac:
		m.zodiac = option
	}
}

func (m *CreationModel) advance() {
	m.step++
	m.selected = 0
	switch m.step {
	case stepName:
		m.input.SetValue(m.name)
		m.input.Placeholder = "你的姓名"
		m.input.Focus()
	case stepNickname:
		m.input.SetValue(m.nickname)
		m.input.Placeholder = "角色對你的暱稱"
	case stepSalutation:
		m.input.SetValue(m.salutation)
		m.input.Placeholder = "你希望的稱呼"
	case stepZodiac:
		m.input.Blur()
	}
}

func (m CreationModel) finish() tea.Cmd {
	p := game.Player{
		Gender:     m.gender,
		Name:       m.name,
		Nickname:   m.nickname,
		Salutation: m.salutation,
		Zodiac:     m.zodiac,
		Appearance: m.appearance,
		Attributes: m.appearance.Attributes,
		Lust:       0,
	}
	return func() tea.Msg { return CreationDoneMsg{Player: p} }
}

// View renders the wizard.
func (m CreationModel) View() string {
	var b strings.Builder
	b.WriteString(creationTitleStyle.Render("✨ 建立你的旅客身份") + "\n")

	switch m.step {
	case stepGender:
		b.WriteString(creationLabelStyle.Render("選擇性別") + "\n\n")
		m.renderOptions(&b, nil)
	case stepAppearance:
		b.WriteString(creationLabelStyle.Render("選擇外觀") + "\n\n")
		apps := m.catalog.Appearances(m.gender)
		descs := make([]string, len(apps))
		for i, a := range apps {
			descs[i] = fmt.Sprintf("%s  [觀察%d 洞察%d 體魄%d 社交%d]",
				a.Description, a.Attributes.Observation, a.Attributes.Insight,
				a.Attributes.Body, a.Attributes.Social)
		}
		m.renderOptions(&b, descs)
	case stepName:
		m.renderInput(&b, "姓名")
	case stepNickname:
		m.renderInput(&b, "暱稱")
	case stepSalutation:
		m.renderInput(&b, "稱呼")
	case stepZodiac:
		b.WriteString(creationLabelStyle.Render("選擇星座") + "\n\n")
		m.renderOptions(&b, nil)
	case stepConfirm:
		b.WriteString(creationLabelStyle.Render("確認資料") + "\n\n")
		fmt.Fprintf(&b, "  性別：%s\n  外觀：%s\n  姓名：%s\n  暱稱：%s\n  稱呼：%s\n  星座：%s\n",
			m.gender, m.appearance.Name, m.name, m.nickname, m.salutation, m.zodiac)
		b.WriteString(creationHelpStyle.Render("enter 確認並上車  n 重新填寫"))
		return b.String()
	}

	if m.errText != "" {
		b.WriteString("\n" + creationErrStyle.Render(m.errText))
	}
	b.WriteString("\n" + creationHelpStyle.Render("j/k 移動  enter 下一步"))
	return b.String()
}

func (m CreationModel) renderOptions(b *strings.Builder, descs []string) {
	opts := m.options()

	visible := m.height - 8
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if m.selected >= visible {
		offset = m.selected - visible + 1
	}
	end := offset + visible
	if end > len(opts) {
		end = len(opts)
	}

	for i := offset; i < end; i++ {
		if i == m.selected {
			b.WriteString(creationSelectedStyle.Render("▸ "+opts[i]) + "\n")
			if descs != nil {
				b.WriteString(creationDescStyle.Render("    "+wrapText(descs[i], m.width-8)) + "\n")
			}
		} else {
			b.WriteString(creationOptionStyle.Render("  "+opts[i]) + "\n")
		}
	}
}

func (m CreationModel) renderInput(b *strings.Builder, label string) {
	b.WriteString(creationLabelStyle.Render(label) + "\n\n")
	b.WriteString(m.input.View() + "\n")
}
