package tui

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"product_manager/internal/clients"
	"product_manager/internal/domain"
	"product_manager/internal/mockapi"
	"product_manager/internal/usecase"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func record(id, name string, price int64) mockapi.Record {
	rec := mockapi.Record{Quantity: 1, PriceGoc: decimal.NewFromInt(price)}
	rec.ID = id
	rec.Name = name
	rec.Price = decimal.NewFromInt(price)
	rec.Description = "mô tả"
	rec.Image = "http://img/" + id
	return rec
}

func newTestModel(t *testing.T, seed ...mockapi.Record) (Model, mockapi.Store) {
	t.Helper()
	logger := quietLogger()
	store := mockapi.NewMemoryStore(seed...)
	api := httptest.NewServer(mockapi.NewRouter(store, "/api/v1", logger))
	t.Cleanup(api.Close)

	client := clients.NewCatalogHTTPClient(api.URL+"/api/v1", 5*time.Second, logger)
	m := NewModel(context.Background(), usecase.NewManager(client, logger), "Quản Lý Sản Phẩm")
	m = settle(t, m, m.Init())
	return m, store
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(key(k))
	return next.(Model), cmd
}

// settle runs an action command and feeds its result back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(resultMsg)
	require.True(t, ok, "expected a manager action")
	next, _ := m.Update(msg)
	return next.(Model)
}

func names(t *testing.T, store mockapi.Store) []string {
	t.Helper()
	recs, err := store.List(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func TestInitLoadsTable(t *testing.T) {
	m, _ := newTestModel(t, record("1", "Áo", 120000), record("2", "Quần", 350000))

	view := m.View()
	assert.Contains(t, view, "Quản Lý Sản Phẩm")
	assert.Contains(t, view, "Áo")
	assert.Contains(t, view, "120.000đ")
	assert.Len(t, m.products, 2)
}

func TestEmptyCatalog(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Không có sản phẩm")
}

func TestAddProduct(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(m, "a")
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "Thêm sản phẩm")

	m.inputs[fieldName].SetValue("Mũ")
	m.inputs[fieldPrice].SetValue("99000")
	m.inputs[fieldImage].SetValue("http://img/mu")
	m.inputs[fieldDescription].SetValue("len")

	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"Mũ"}, names(t, store))
	assert.Contains(t, m.View(), "99.000đ")
	assert.Empty(t, m.inputs[fieldName].Value(), "form is cleared")
}

func TestAddWithBlankFieldShowsNotice(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(m, "a")
	m.inputs[fieldName].SetValue("Mũ")
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)

	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), domain.BlankFieldsMessage)
	assert.Equal(t, "Mũ", m.inputs[fieldName].Value())
	assert.Empty(t, names(t, store))
}

func TestTabCyclesFields(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, "a")
	for i := 1; i <= fieldCount; i++ {
		m, _ = press(m, "tab")
		assert.Equal(t, i%fieldCount, m.focus)
	}
}

func TestEditProduct(t *testing.T) {
	m, store := newTestModel(t, record("1", "Áo", 120000), record("2", "Quần", 350000))

	m, _ = press(m, "down")
	m, _ = press(m, "e")
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Quần", m.inputs[fieldName].Value())
	assert.Equal(t, "350000", m.inputs[fieldPrice].Value())
	assert.Contains(t, m.View(), "Sửa sản phẩm")

	m.inputs[fieldName].SetValue("Quần short")
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"Áo", "Quần short"}, names(t, store))
	assert.False(t, m.manager.Snapshot().Editing())
}

func TestEscCancelsEdit(t *testing.T) {
	m, _ := newTestModel(t, record("1", "Áo", 120000))
	m, _ = press(m, "e")
	m, _ = press(m, "esc")

	assert.Equal(t, modeBrowse, m.mode)
	assert.False(t, m.manager.Snapshot().Editing())
	assert.Empty(t, m.inputs[fieldName].Value())
}

func TestDeleteAsksFirst(t *testing.T) {
	m, store := newTestModel(t, record("1", "Áo", 1000), record("2", "Quần", 2000))

	m, _ = press(m, "d")
	require.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Xóa sản phẩm này?")

	m, cmd := press(m, "n")
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, names(t, store), 2)

	m, _ = press(m, "d")
	m, cmd = press(m, "y")
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"Quần"}, names(t, store))
	assert.Len(t, m.products, 1)
}

func TestSearchAndReload(t *testing.T) {
	m, _ := newTestModel(t, record("1", "Áo thun", 1000), record("2", "Quần jean", 2000))

	m, _ = press(m, "/")
	require.Equal(t, modeSearch, m.mode)
	m.search.SetValue("jean")
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)

	require.Len(t, m.products, 1)
	assert.Equal(t, "Quần jean", m.products[0].Name)

	m, cmd = press(m, "r")
	m = settle(t, m, cmd)
	assert.Len(t, m.products, 2)
	assert.Empty(t, m.search.Value())
}

func TestResultWhileTypingKeepsInput(t *testing.T) {
	m, store := newTestModel(t, record("1", "Áo", 1000))
	require.NoError(t, store.Delete(context.Background(), "1"))

	m, reload := press(m, "r")
	m, _ = press(m, "a")
	m, _ = press(m, "Mu len")
	m = settle(t, m, reload)

	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Mu len", m.inputs[fieldName].Value())
	assert.Empty(t, m.products, "the table still refreshes")

	m, _ = press(m, "esc")
	m, reload = press(m, "r")
	m, _ = press(m, "/")
	m, _ = press(m, "quần")
	m = settle(t, m, reload)

	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, "quần", m.search.Value())
}

func TestFailedActionKeepsListAndReportsStatus(t *testing.T) {
	m, store := newTestModel(t, record("1", "Áo", 1000))
	require.NoError(t, store.Delete(context.Background(), "1"))

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	m = settle(t, m, cmd)

	assert.Len(t, m.products, 1, "list stays stale")
	assert.True(t, m.statusErr)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
