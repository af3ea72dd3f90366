package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rovshanmuradov/rubb-presale/internal/blockchain"
	"github.com/rovshanmuradov/rubb-presale/internal/logger"
	"github.com/rovshanmuradov/rubb-presale/internal/presale"
	"github.com/rovshanmuradov/rubb-presale/internal/ui/style"
	"github.com/rovshanmuradov/rubb-presale/internal/wallet"
)

const (
	presetAmount = "0.5"
	recentLogs   = 5
)

// PurchaseDeps – зависимости экрана покупки.
type PurchaseDeps struct {
	Ctx        context.Context
	Controller *presale.Controller
	Session    *wallet.Session
	Client     blockchain.Client
	SubmitOpts wallet.SubmitOptions
	// Logs is optional; when set the last entries are shown under the card.
	Logs *logger.LogBuffer
}

// PurchaseModel – экран покупки токенов. Кнопка покупки отключена, пока
// предыдущая отправка не завершилась или кошелёк не подключён.
type PurchaseModel struct {
	deps PurchaseDeps

	keys    KeyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model
	styles  style.Styles
	printer *message.Printer

	submitting bool
	balance    *uint64
	balanceErr error

	width  int
	height int
}

// NewPurchaseModel creates the purchase screen.
func NewPurchaseModel(deps PurchaseDeps) *PurchaseModel {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	palette := style.DefaultPalette()

	input := textinput.New()
	input.Placeholder = presetAmount
	input.Prompt = "◎ "
	input.CharLimit = 32
	input.Width = 24
	input.SetValue(deps.Controller.Request().Raw)
	input.Focus()

	styles := style.NewStyles(palette)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Pending

	return &PurchaseModel{
		deps:    deps,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   input,
		spinner: sp,
		styles:  styles,
		printer: message.NewPrinter(language.English),
	}
}

func (m *PurchaseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchBalanceCmd())
}

// CanSubmit reports whether the purchase trigger is enabled.
func (m *PurchaseModel) CanSubmit() bool {
	return !m.submitting &&
		m.deps.Session.Connected() &&
		m.deps.Controller.Outcome().State != presale.StatePending
}

func (m *PurchaseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			if !m.CanSubmit() {
				return m, nil
			}
			m.submitting = true
			return m, tea.Batch(m.spinner.Tick, m.submitCmd())

		case key.Matches(msg, m.keys.Preset):
			m.input.SetValue(presetAmount)
			m.input.CursorEnd()
			m.deps.Controller.SetAmount(m.input.Value())
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchBalanceCmd()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.deps.Controller.SetAmount(m.input.Value())
		return m, cmd

	case SubmitResultMsg:
		m.submitting = false
		return m, m.fetchBalanceCmd()

	case BalanceMsg:
		if msg.Err != nil {
			m.balanceErr = msg.Err
			return m, nil
		}
		lamports := msg.Lamports
		m.balance = &lamports
		m.balanceErr = nil
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PurchaseModel) submitCmd() tea.Cmd {
	ctx := m.deps.Ctx
	ctrl := m.deps.Controller
	session := m.deps.Session
	submit := session.Submitter(m.deps.Client, m.deps.SubmitOpts)
	payer := session.PublicKey()

	return func() tea.Msg {
		return SubmitResultMsg{Err: ctrl.Submit(ctx, payer, submit)}
	}
}

func (m *PurchaseModel) fetchBalanceCmd() tea.Cmd {
	if !m.deps.Session.Connected() || m.deps.Client == nil {
		return nil
	}
	ctx := m.deps.Ctx
	session := m.deps.Session
	client := m.deps.Client

	return func() tea.Msg {
		lamports, err := session.Balance(ctx, client)
		return BalanceMsg{Lamports: lamports, Err: err}
	}
}

func (m *PurchaseModel) View() string {
	settings := m.deps.Controller.Settings()
	symbol := settings.TokenSymbol
	s := m.styles

	var b strings.Builder

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		s.Title.Render(symbol+" Presale"), "  ", s.Badge.Render("LIVE")))
	b.WriteString("\n\n")
	b.WriteString(m.row("Price", fmt.Sprintf("1 %s = %s SOL", symbol, settings.Price.PricePerToken.String())))
	b.WriteString(m.row("Network", "Solana "+settings.Cluster))
	b.WriteString(m.row("Wallet", m.walletLine()))
	if settings.TokenMint != "" {
		b.WriteString(m.row("Mint", settings.TokenMint))
	}

	b.WriteString("\n" + s.Label.Render("Amount in SOL") + "\n")
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(m.row("You will receive", m.printer.Sprintf("%d %s", m.deps.Controller.QuotedTokens(), symbol)))
	b.WriteString("\n" + m.buttonView() + "\n")

	if status := m.outcomeView(); status != "" {
		b.WriteString("\n" + status + "\n")
	}

	b.WriteString("\n" + s.Muted.Render("On-chain transactions are final. Tokens are distributed according to the presale schedule."))

	view := s.Card.Render(b.String())
	if logs := m.logsView(); logs != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, logs)
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, m.help.View(m.keys))
}

func (m *PurchaseModel) row(label, value string) string {
	return m.styles.Label.Render(fmt.Sprintf("%-18s", label)) + m.styles.Value.Render(value) + "\n"
}

func (m *PurchaseModel) walletLine() string {
	if !m.deps.Session.Connected() {
		return "not connected"
	}
	line := m.deps.Session.PublicKey().String()
	switch {
	case m.balanceErr != nil:
		line += "  (balance unavailable)"
	case m.balance != nil:
		line += fmt.Sprintf("  %s SOL", presale.FromLamports(*m.balance).String())
	}
	return line
}

func (m *PurchaseModel) buttonView() string {
	switch {
	case !m.deps.Session.Connected():
		return m.styles.Disabled.Render("Connect Wallet to Buy")
	case m.submitting || m.deps.Controller.Outcome().State == presale.StatePending:
		return m.styles.Disabled.Render(m.spinner.View() + " Processing transaction...")
	default:
		return m.styles.Button.Render("Purchase Tokens")
	}
}

func (m *PurchaseModel) outcomeView() string {
	out := m.deps.Controller.Outcome()
	if !out.IsTerminal() {
		return ""
	}
	if out.State == presale.StateFailed {
		return m.styles.Error.Render(out.Message)
	}
	url := presale.ExplorerURL(out.TxID, m.deps.Controller.Settings().Cluster)
	return m.styles.Success.Render("Transaction sent: " + url)
}

func (m *PurchaseModel) logsView() string {
	if m.deps.Logs == nil {
		return ""
	}
	entries := m.deps.Logs.Recent(recentLogs)
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("%s %-5s %s",
			e.Timestamp.Format("15:04:05"), e.Level, e.Message)))
	}
	return strings.Join(lines, "\n")
}
