package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rubb-presale/internal/blockchain"
	"github.com/rovshanmuradov/rubb-presale/internal/presale"
	"github.com/rovshanmuradov/rubb-presale/internal/wallet"
)

// fakeClient отвечает фиксированными значениями и считает отправки.
type fakeClient struct {
	sends   int
	sendErr error
	balance uint64
}

func (f *fakeClient) GetRecentBlockhash(context.Context) (solana.Hash, error) {
	return solana.Hash{1}, nil
}

func (f *fakeClient) SendTransactionWithOpts(context.Context, *solana.Transaction, blockchain.TransactionOptions) (solana.Signature, error) {
	f.sends++
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	return solana.Signature{9}, nil
}

func (f *fakeClient) GetBalance(context.Context, solana.PublicKey, rpc.CommitmentType) (uint64, error) {
	return f.balance, nil
}

func newTestModel(t *testing.T, connected bool, client *fakeClient) *PurchaseModel {
	t.Helper()
	session := wallet.NewSession(zap.NewNop())
	if connected {
		w, err := wallet.NewWallet(solana.NewWallet().PrivateKey.String())
		require.NoError(t, err)
		session.Connect(w)
	}
	ctrl := presale.NewController(presale.Settings{
		Treasury: solana.NewWallet().PublicKey().String(),
	}, zap.NewNop())

	return NewPurchaseModel(PurchaseDeps{
		Controller: ctrl,
		Session:    session,
		Client:     client,
	})
}

func typeText(m *PurchaseModel, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// runCmd выполняет команду, раскрывая tea.BatchMsg, и возвращает все сообщения.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, runCmd(c)...)
	}
	return msgs
}

func findSubmitResult(t *testing.T, msgs []tea.Msg) SubmitResultMsg {
	t.Helper()
	for _, msg := range msgs {
		if res, ok := msg.(SubmitResultMsg); ok {
			return res
		}
	}
	t.Fatal("no SubmitResultMsg produced")
	return SubmitResultMsg{}
}

func TestPurchaseModelQuote(t *testing.T) {
	m := newTestModel(t, true, &fakeClient{})

	typeText(m, "0.5")
	assert.Equal(t, "0.5", m.deps.Controller.Request().Raw)
	assert.Equal(t, uint64(50000), m.deps.Controller.QuotedTokens())
	assert.Contains(t, m.View(), "50,000 RUBBCOIN")
}

func TestPurchaseModelPreset(t *testing.T) {
	m := newTestModel(t, true, &fakeClient{})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, "0.5", m.input.Value())
	assert.Equal(t, uint64(50000), m.deps.Controller.QuotedTokens())
}

func TestPurchaseModelDisabledWithoutWallet(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(t, false, client)
	typeText(m, "1")

	assert.False(t, m.CanSubmit())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, client.sends)
	assert.Contains(t, m.View(), "Connect Wallet to Buy")
}

func TestPurchaseModelSubmitSuccess(t *testing.T) {
	client := &fakeClient{balance: 1_500_000_000}
	m := newTestModel(t, true, client)
	typeText(m, "0.5")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)
	assert.False(t, m.CanSubmit())

	// Повторное нажатие во время отправки игнорируется.
	_, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	res := findSubmitResult(t, runCmd(cmd))
	require.NoError(t, res.Err)
	assert.Equal(t, 1, client.sends)

	_, balanceCmd := m.Update(res)
	assert.False(t, m.submitting)
	for _, msg := range runCmd(balanceCmd) {
		m.Update(msg)
	}

	view := m.View()
	assert.Contains(t, view, "Transaction sent: https://explorer.solana.com/tx/")
	assert.Contains(t, view, "1.5 SOL")
	assert.True(t, m.CanSubmit())
}

func TestPurchaseModelSubmitFailure(t *testing.T) {
	client := &fakeClient{sendErr: errors.New("insufficient funds")}
	m := newTestModel(t, true, client)
	typeText(m, "2")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	res := findSubmitResult(t, runCmd(cmd))
	m.Update(res)

	assert.EqualError(t, res.Err, "insufficient funds")
	assert.Equal(t, presale.Outcome{State: presale.StateFailed, Message: "insufficient funds"}, m.deps.Controller.Outcome())
	assert.Contains(t, m.View(), "insufficient funds")
}

func TestPurchaseModelInvalidAmount(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(t, true, client)
	typeText(m, "abc")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	res := findSubmitResult(t, runCmd(cmd))

	assert.ErrorIs(t, res.Err, presale.ErrInvalidAmount)
	assert.Equal(t, 0, client.sends)
}
