package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/wardrobe/internal/config"
	"github.com/mmcdole/wardrobe/internal/domain"
	"github.com/mmcdole/wardrobe/internal/kvstore"
	wlog "github.com/mmcdole/wardrobe/internal/log"
	"github.com/mmcdole/wardrobe/internal/search"
	"github.com/mmcdole/wardrobe/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	user    *domain.User
	master  *domain.MasterData
	userErr error
}

func (c *stubClient) SetToken(string) {}

func (c *stubClient) GetAuthenticatedUser(context.Context) (*domain.User, error) {
	return c.user, c.userErr
}

func (c *stubClient) GetMasterData(context.Context) (*domain.MasterData, error) {
	return c.master, nil
}

func ptr(v int64) *int64 { return &v }

func testMasterData() *domain.MasterData {
	return &domain.MasterData{
		Categories: []domain.Category{
			{ID: 1, Name: "Tops", IsParent: true},
			{ID: 2, Name: "Shirts", ParentID: ptr(1)},
			{ID: 3, Name: "Sweaters", ParentID: ptr(1)},
			{ID: 4, Name: "Shoes", IsParent: true},
		},
		Colors:    []domain.Color{{ID: 1, Name: "Navy", Hex: "#000080"}},
		Occasions: []domain.Occasion{{ID: 1, Name: "Work", Image: "https://cdn.example.com/work.png"}},
	}
}

func newTestModel(t *testing.T, client *stubClient) (Model, *session.Store) {
	t.Helper()
	kv := kvstore.OpenMemory()
	t.Cleanup(func() { kv.Close() })
	store := session.New(kv, client, wlog.NullLogger())
	t.Cleanup(store.Close)

	cfg := config.Default()
	m := NewModel(store, search.NewService(store, nil), cfg.ThemeName, wlog.NullLogger())
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), store
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestToggleDarkModeSwitchesTheme(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})
	assert.Equal(t, "light", m.Styles.Theme)

	m, _ = press(t, m, "d")
	assert.True(t, store.IsDark())
	assert.Equal(t, "midnight", m.Styles.Theme)

	m, _ = press(t, m, "d")
	assert.False(t, store.IsDark())
	assert.Equal(t, "light", m.Styles.Theme)
}

func TestStateChangeRebuildsBrowser(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})
	assert.Empty(t, m.Browser.Visible())

	store.SetMasterData(testMasterData())
	next, cmd := m.Update(StateChangedMsg{State: store.Snapshot()})
	m = next.(Model)
	assert.NotNil(t, cmd, "model keeps listening")

	labels := make([]string, 0)
	for _, e := range m.Browser.Visible() {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"Tops", "Tops / Shirts", "Tops / Sweaters", "Shoes"}, labels)
}

func TestOlderStateIsIgnored(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})
	old := store.Snapshot()

	m, _ = press(t, m, "d")
	next, _ := m.Update(StateChangedMsg{State: old})
	m = next.(Model)

	assert.True(t, m.State.IsDark)
}

func TestEnterOpensDetailsAndEscCloses(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})
	store.SetMasterData(testMasterData())
	next, _ := m.Update(StateChangedMsg{State: store.Snapshot()})
	m = next.(Model)

	m, _ = press(t, m, "enter")
	visible, content := store.Modal()
	require.True(t, visible)
	d, ok := content.(Details)
	require.True(t, ok)
	assert.Equal(t, "Tops", d.Title)
	assert.Contains(t, d.Lines, "Subcategories (2): Shirts, Sweaters")
	assert.Contains(t, m.View(), "Tops")

	// keys other than dismissal are swallowed
	m, _ = press(t, m, "d")
	assert.False(t, store.IsDark())

	m, _ = press(t, m, "esc")
	visible, content = store.Modal()
	assert.False(t, visible)
	assert.Nil(t, content)
	assert.False(t, m.State.ModalVisible)
}

func TestSubcategoryDetailsShowPath(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})
	store.SetMasterData(testMasterData())
	next, _ := m.Update(StateChangedMsg{State: store.Snapshot()})
	m = next.(Model)

	m, _ = press(t, m, "j", "enter")
	_, content := store.Modal()
	d := content.(Details)
	assert.Equal(t, "Shirts", d.Title)
	assert.Contains(t, d.Lines, "Path: Tops / Shirts")
}

func TestFilter(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})
	store.SetMasterData(testMasterData())
	next, _ := m.Update(StateChangedMsg{State: store.Snapshot()})
	m = next.(Model)

	m, _ = press(t, m, "/", "s", "w")
	assert.True(t, m.Browser.Filtering())
	visible := m.Browser.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Sweaters", visible[0].Name)

	// enter commits, the filter stays applied
	m, _ = press(t, m, "enter")
	assert.False(t, m.Browser.Filtering())
	assert.Len(t, m.Browser.Visible(), 1)

	m, _ = press(t, m, "esc")
	assert.Len(t, m.Browser.Visible(), 4)
}

func TestSectionsCycle(t *testing.T) {
	m, _ := newTestModel(t, &stubClient{})

	m, _ = press(t, m, "tab")
	assert.Equal(t, SectionColors, m.Browser.Section())
	m, _ = press(t, m, "h", "h")
	assert.Equal(t, SectionOccasions, m.Browser.Section())
}

func TestReloadWhenSignedOut(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})

	m, _ = press(t, m, "r")
	assert.Equal(t, "Not signed in", m.StatusMsg)
	assert.True(t, m.StatusIsErr)
	loading, _ := store.Loading()
	assert.False(t, loading)
}

func TestReloadShowsSpinnerUntilDone(t *testing.T) {
	client := &stubClient{user: &domain.User{ID: 1, Name: "Ann"}, master: testMasterData()}
	m, store := newTestModel(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, store.SetToken("abc").Wait(ctx))

	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	assert.True(t, m.State.IsLoading)
	assert.Contains(t, m.View(), "Reloading profile")

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.State.IsLoading)
	assert.Equal(t, "Session reloaded", m.StatusMsg)
	assert.Contains(t, m.View(), "Ann")
}

func TestReloadFailureOpensModal(t *testing.T) {
	client := &stubClient{userErr: domain.ErrServerOffline, master: testMasterData()}
	m, store := newTestModel(t, client)
	store.SetToken("abc")

	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)

	visible, content := store.Modal()
	require.True(t, visible)
	assert.Equal(t, "Reload failed", content.(Details).Title)
	assert.False(t, m.State.IsLoading)
}

func TestStaleRefreshDoneIsIgnored(t *testing.T) {
	m, store := newTestModel(t, &stubClient{})
	store.ShowLoading("busy")
	m.sync()
	m.reloadGen = 5

	next, _ := m.Update(RefreshDoneMsg{Generation: 4, Err: errors.New("old")})
	m = next.(Model)

	assert.True(t, m.State.IsLoading)
	visible, _ := store.Modal()
	assert.False(t, visible)
}

func TestTrackShowsSpinnerUntilLoginRefreshDone(t *testing.T) {
	client := &stubClient{user: &domain.User{ID: 1, Name: "Ann"}, master: testMasterData()}
	m, store := newTestModel(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r := store.SetToken("abc")
	require.NoError(t, r.Wait(ctx))

	m = m.Track(r, "Signing in...")
	assert.True(t, m.State.IsLoading)
	assert.Contains(t, m.View(), "Signing in")

	next, _ := m.Update(RefreshDoneMsg{Generation: r.Generation()})
	m = next.(Model)
	assert.False(t, m.State.IsLoading)
	assert.Equal(t, "Signed in", m.StatusMsg)
}

func TestTrackNilRefreshIsNoop(t *testing.T) {
	m, _ := newTestModel(t, &stubClient{})
	m = m.Track(nil, "Signing in...")
	assert.False(t, m.State.IsLoading)
}

func TestLoginRefreshDoneKeepsReloadSpinner(t *testing.T) {
	client := &stubClient{user: &domain.User{ID: 1, Name: "Ann"}, master: testMasterData()}
	m, store := newTestModel(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	login := store.SetToken("abc")
	require.NoError(t, login.Wait(ctx))
	m = m.Track(login, "Signing in...")

	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)

	// The login refresh reports after the reload has taken over
	next, _ := m.Update(RefreshDoneMsg{Generation: login.Generation()})
	m = next.(Model)
	assert.True(t, m.State.IsLoading)
	assert.Contains(t, m.View(), "Reloading profile")

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.State.IsLoading)
	assert.Equal(t, "Session reloaded", m.StatusMsg)
}

func TestLogoutKey(t *testing.T) {
	client := &stubClient{user: &domain.User{ID: 1, Name: "Ann"}, master: testMasterData()}
	m, store := newTestModel(t, client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, store.SetToken("abc").Wait(ctx))
	m.sync()
	assert.Len(t, m.Browser.Visible(), 4)

	m, _ = press(t, m, "L")
	assert.Empty(t, store.Token())
	assert.Equal(t, "Logged out", m.StatusMsg)
	assert.Empty(t, m.Browser.Visible())
	assert.Contains(t, m.View(), "not signed in")
}

func TestChannelObserverKeepsNewest(t *testing.T) {
	ch := make(chan session.State, 1)
	o := NewChannelObserver(ch)

	o.OnChange(session.State{Version: 1})
	o.OnChange(session.State{Version: 2})
	o.OnChange(session.State{Version: 3})

	got := <-ch
	assert.Equal(t, uint64(3), got.Version)
	select {
	case <-ch:
		t.Fatal("only one state should be buffered")
	default:
	}
}
