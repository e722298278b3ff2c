package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/mmcdole/wardrobe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUserTwiceWritesOnce(t *testing.T) {
	kv := newFakeKV(nil)
	s := newTestStore(t, kv, newFakeClient(nil, nil))
	rec := &recorder{}
	s.Subscribe(rec)

	s.SetUser(&domain.User{ID: 1, Name: "Ann"})
	s.SetUser(&domain.User{ID: 1, Name: "Ann"})
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.Equal(t, 1, kv.setCount(KeyUser))
	assert.Equal(t, 1, rec.count())

	raw, ok := kv.value(KeyUser)
	require.True(t, ok)
	var stored domain.User
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, "Ann", stored.Name)
}

func TestSetUserCopiesInput(t *testing.T) {
	s := newTestStore(t, newFakeKV(nil), newFakeClient(nil, nil))

	u := &domain.User{ID: 1, Name: "Ann"}
	s.SetUser(u)
	u.Name = "Mutated"

	assert.Equal(t, "Ann", s.User().Name)
}

func TestSetUserNilDeletes(t *testing.T) {
	kv := newFakeKV(nil)
	s := newTestStore(t, kv, newFakeClient(nil, nil))

	s.SetUser(sampleUser())
	s.SetUser(nil)
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.Nil(t, s.User())
	_, ok := kv.value(KeyUser)
	assert.False(t, ok)
}

func TestLogoutClearsTokenUserAndMasterData(t *testing.T) {
	kv := newFakeKV(nil)
	client := newFakeClient(sampleUser(), sampleMasterData())
	s := newTestStore(t, kv, client)

	r := s.SetToken("abc")
	require.NoError(t, r.Wait(waitCtx(t)))
	require.NoError(t, s.Wait(waitCtx(t)))
	require.NotNil(t, s.User())
	require.NotNil(t, s.MasterData())
	assert.Equal(t, []string{KeyMasterData, KeyToken, KeyUser}, kv.keys())

	assert.Nil(t, s.SetToken(""))
	require.NoError(t, s.Wait(waitCtx(t)))

	state := s.Snapshot()
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
	assert.Nil(t, state.MasterData)
	assert.False(t, state.Authenticated())
	assert.Empty(t, kv.keys())

	attached, _, _ := client.calls()
	assert.Equal(t, []string{"abc", ""}, attached)
}

func TestLoginTriggersOneAttachOneWriteAndBothFetches(t *testing.T) {
	kv := newFakeKV(nil)
	client := newFakeClient(sampleUser(), sampleMasterData())
	s := newTestStore(t, kv, client)

	r := s.SetToken("abc")
	require.NotNil(t, r)
	require.NoError(t, r.Wait(waitCtx(t)))
	require.NoError(t, s.Wait(waitCtx(t)))

	attached, userCalls, masterCalls := client.calls()
	assert.Equal(t, []string{"abc"}, attached)
	assert.Equal(t, 1, userCalls)
	assert.Equal(t, 1, masterCalls)
	assert.Equal(t, 1, kv.setCount(KeyToken))

	v, _ := kv.value(KeyToken)
	assert.Equal(t, "abc", v, "token is stored as the raw string")
}

func TestSetTokenUnchangedIsNoop(t *testing.T) {
	kv := newFakeKV(nil)
	client := newFakeClient(sampleUser(), sampleMasterData())
	s := newTestStore(t, kv, client)

	require.NoError(t, s.SetToken("abc").Wait(waitCtx(t)))
	version := s.Version()

	assert.Nil(t, s.SetToken("abc"))
	require.NoError(t, s.Wait(waitCtx(t)))

	attached, userCalls, _ := client.calls()
	assert.Len(t, attached, 1)
	assert.Equal(t, 1, userCalls)
	assert.Equal(t, 1, kv.setCount(KeyToken))
	assert.Equal(t, version, s.Version())
}

func TestSetMasterDataEqualIsNoop(t *testing.T) {
	kv := newFakeKV(nil)
	s := newTestStore(t, kv, newFakeClient(nil, nil))

	s.SetMasterData(sampleMasterData())
	require.NoError(t, s.Wait(waitCtx(t)))
	before := s.MasterData()
	version := s.Version()

	s.SetMasterData(sampleMasterData())
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.Equal(t, 1, kv.setCount(KeyMasterData))
	assert.Same(t, before, s.MasterData())
	assert.Equal(t, version, s.Version())

	changed := sampleMasterData()
	changed.Occasions = append(changed.Occasions, domain.Occasion{ID: 2, Name: "Party"})
	s.SetMasterData(changed)
	require.NoError(t, s.Wait(waitCtx(t)))
	assert.Equal(t, 2, kv.setCount(KeyMasterData))
	assert.Equal(t, version+1, s.Version())
}

func TestStartRehydratesAndAlwaysRefreshes(t *testing.T) {
	userJSON, _ := json.Marshal(sampleUser())
	masterJSON, _ := json.Marshal(sampleMasterData())
	kv := newFakeKV(map[string]string{
		KeyToken:      "abc",
		KeyUser:       string(userJSON),
		KeyMasterData: string(masterJSON),
		KeyIsDark:     "true",
	})
	client := newFakeClient(sampleUser(), sampleMasterData())
	s := newTestStore(t, kv, client)

	r := s.Start(context.Background())
	require.NotNil(t, r, "a saved token must start a refresh")

	state := s.Snapshot()
	assert.Equal(t, "abc", state.Token)
	assert.Equal(t, "Ann", state.User.Name)
	assert.Len(t, state.MasterData.Occasions, 1)
	assert.True(t, state.IsDark)

	require.NoError(t, r.Wait(waitCtx(t)))
	require.NoError(t, s.Wait(waitCtx(t)))

	attached, userCalls, masterCalls := client.calls()
	assert.Equal(t, []string{"abc"}, attached)
	assert.Equal(t, 1, userCalls)
	assert.Equal(t, 1, masterCalls)

	// the fetched values equal the snapshots, so nothing is rewritten
	assert.Zero(t, kv.setCount(KeyToken))
	assert.Zero(t, kv.setCount(KeyUser))
	assert.Zero(t, kv.setCount(KeyMasterData))
}

func TestLogoutDuringStartKeepsSessionCleared(t *testing.T) {
	kv := newFakeKV(map[string]string{KeyToken: "abc", KeyIsDark: "true"})
	client := newFakeClient(sampleUser(), sampleMasterData())
	s := newTestStore(t, kv, client)

	var once sync.Once
	kv.onGet = func(key string) {
		if key == KeyIsDark {
			once.Do(s.Logout)
		}
	}

	assert.Nil(t, s.Start(context.Background()))
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.Empty(t, s.Token())
	_, ok := kv.value(KeyToken)
	assert.False(t, ok)

	_, userCalls, masterCalls := client.calls()
	assert.Zero(t, userCalls)
	assert.Zero(t, masterCalls)
}

func TestDarkModeSetDuringStartWins(t *testing.T) {
	kv := newFakeKV(map[string]string{KeyIsDark: "true"})
	s := newTestStore(t, kv, newFakeClient(nil, nil))

	var once sync.Once
	kv.onGet = func(key string) {
		if key == KeyIsDark {
			once.Do(func() { s.SetDarkMode(true); s.SetDarkMode(false) })
		}
	}

	s.Start(context.Background())
	assert.False(t, s.IsDark())
}

func TestStartWithoutTokenDoesNotFetch(t *testing.T) {
	kv := newFakeKV(map[string]string{KeyIsDark: "false"})
	client := newFakeClient(sampleUser(), sampleMasterData())
	s := newTestStore(t, kv, client)

	assert.Nil(t, s.Start(context.Background()))
	require.NoError(t, s.Wait(waitCtx(t)))

	attached, userCalls, masterCalls := client.calls()
	assert.Empty(t, attached)
	assert.Zero(t, userCalls)
	assert.Zero(t, masterCalls)
	assert.False(t, s.Snapshot().Authenticated())
}

func TestStartDiscardsCorruptSnapshot(t *testing.T) {
	kv := newFakeKV(map[string]string{
		KeyToken: "abc",
		KeyUser:  "{not json",
	})
	s := newTestStore(t, kv, newFakeClient(sampleUser(), sampleMasterData()))

	r := s.Start(context.Background())
	require.NoError(t, r.Wait(waitCtx(t)))
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.Equal(t, "Ann", s.User().Name)
	raw, ok := kv.value(KeyUser)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":1,"name":"Ann"}`, raw)
}

func TestCloseModalClearsBothInOneChange(t *testing.T) {
	s := newTestStore(t, newFakeKV(nil), newFakeClient(nil, nil))
	rec := &recorder{}
	s.Subscribe(rec)

	s.OpenModal("outfit saved")
	visible, content := s.Modal()
	assert.True(t, visible)
	assert.Equal(t, "outfit saved", content)

	s.CloseModal()
	visible, content = s.Modal()
	assert.False(t, visible)
	assert.Nil(t, content)

	states := rec.all()
	require.Len(t, states, 2)
	for _, st := range states {
		assert.Equal(t, st.ModalVisible, st.ModalContent != nil, "visibility and content must change together")
	}

	s.CloseModal()
	assert.Equal(t, 2, rec.count(), "closing a closed modal is not a change")
}

func TestLoadingMessageIsNotPersisted(t *testing.T) {
	kv := newFakeKV(nil)
	s := newTestStore(t, kv, newFakeClient(nil, nil))

	s.ShowLoading("Generating outfit...")
	require.NoError(t, s.Wait(waitCtx(t)))

	on, msg := s.Loading()
	assert.True(t, on)
	assert.Equal(t, "Generating outfit...", msg)
	assert.Equal(t, []string{KeyIsLoading}, kv.keys())
	v, _ := kv.value(KeyIsLoading)
	assert.Equal(t, "true", v)

	s.HideLoading()
	require.NoError(t, s.Wait(waitCtx(t)))
	on, msg = s.Loading()
	assert.False(t, on)
	assert.Empty(t, msg)
	v, _ = kv.value(KeyIsLoading)
	assert.Equal(t, "false", v)

	// message change with the flag already up does not rewrite the flag
	s.SetLoading(true)
	s.ShowLoading("Uploading")
	require.NoError(t, s.Wait(waitCtx(t)))
	assert.Equal(t, 3, kv.setCount(KeyIsLoading))
}

func TestDarkModePersisted(t *testing.T) {
	kv := newFakeKV(nil)
	s := newTestStore(t, kv, newFakeClient(nil, nil))

	s.SetDarkMode(true)
	s.SetDarkMode(true)
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.True(t, s.IsDark())
	assert.Equal(t, 1, kv.setCount(KeyIsDark))
	v, _ := kv.value(KeyIsDark)
	assert.Equal(t, "true", v)
}

func TestImageCacheBusterIsSessionOnly(t *testing.T) {
	kv := newFakeKV(nil)
	s := newTestStore(t, kv, newFakeClient(nil, nil))
	version := s.Version()

	s.ToggleImageCacheBuster()
	assert.True(t, s.ImageCacheBuster())
	assert.Equal(t, uint64(1), s.ImageVersion())
	s.ToggleImageCacheBuster()
	assert.False(t, s.ImageCacheBuster())
	assert.Equal(t, uint64(2), s.ImageVersion(), "the version keeps counting when the flag returns")
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.Equal(t, version+2, s.Version())
	assert.Empty(t, kv.keys())
}

func TestOnlyPersistedFieldsReachStorage(t *testing.T) {
	kv := newFakeKV(nil)
	s := newTestStore(t, kv, newFakeClient(sampleUser(), sampleMasterData()))

	require.NoError(t, s.SetToken("abc").Wait(waitCtx(t)))
	s.SetDarkMode(true)
	s.ShowLoading("working")
	s.OpenModal("content")
	s.ToggleImageCacheBuster()
	require.NoError(t, s.Wait(waitCtx(t)))

	for _, key := range kv.keys() {
		assert.Contains(t, PersistedFields, key)
	}
	assert.Len(t, kv.keys(), len(PersistedFields))
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	kv := newFakeKV(nil)
	kv.failSet = errors.New("disk full")
	s := newTestStore(t, kv, newFakeClient(nil, nil))

	s.SetDarkMode(true)
	s.SetUser(sampleUser())
	require.NoError(t, s.Wait(waitCtx(t)))

	assert.True(t, s.IsDark())
	assert.Equal(t, "Ann", s.User().Name)
	assert.Empty(t, kv.keys())
}

func TestUnsubscribe(t *testing.T) {
	s := newTestStore(t, newFakeKV(nil), newFakeClient(nil, nil))
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec)

	s.SetDarkMode(true)
	unsubscribe()
	s.SetDarkMode(false)

	assert.Equal(t, 1, rec.count())
}
