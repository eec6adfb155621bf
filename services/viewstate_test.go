package services

import (
	"testing"

	"prdconsole/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCacheBust(t *testing.T) {
	assert.Equal(t, "a.png?v=42", AppendCacheBust("a.png", 42))
	assert.Equal(t, "a.png?x=1&v=42", AppendCacheBust("a.png?x=1", 42))
	assert.Equal(t, "", AppendCacheBust("", 42))
}

func TestBumpCacheTokenMonotonic(t *testing.T) {
	state := NewConsoleState()

	previous := state.CacheToken()
	for i := 0; i < 100; i++ {
		next := state.BumpCacheToken()
		assert.Greater(t, next, previous)
		previous = next
	}
}

func TestApplyCacheBust(t *testing.T) {
	state := NewConsoleState()
	token := state.CacheToken()

	url := state.ApplyCacheBust("/api/desktop/assets/load")
	assert.Equal(t, AppendCacheBust("/api/desktop/assets/load", token), url)
}

func TestBrokenCellFlags(t *testing.T) {
	state := NewConsoleState()

	state.MarkCellBroken("load@@white")
	state.MarkCellBroken("load@@__base__")
	state.MarkCellBroken("bg@@dark")

	assert.True(t, state.IsCellBroken("load@@white"))
	assert.False(t, state.IsCellBroken("load@@dark"))

	// 목록은 정렬되어 반환된다
	assert.Equal(t, []string{"bg@@dark", "load@@__base__", "load@@white"}, state.BrokenCells())

	state.ClearCellBroken("load@@white")
	assert.False(t, state.IsCellBroken("load@@white"))
	assert.True(t, state.IsCellBroken("load@@__base__"))
}

func TestClearBrokenForKey(t *testing.T) {
	state := NewConsoleState()

	state.MarkCellBroken("load@@__base__")
	state.MarkCellBroken("load@@white")
	state.MarkCellBroken("loader@@white") // 프리픽스가 비슷한 다른 키

	state.ClearBrokenForKey("load")

	assert.False(t, state.IsCellBroken("load@@__base__"))
	assert.False(t, state.IsCellBroken("load@@white"))
	assert.True(t, state.IsCellBroken("loader@@white"))
}

func TestBeginUploadSingleFlight(t *testing.T) {
	state := NewConsoleState()

	require.True(t, state.BeginUpload("load@@white"))
	assert.False(t, state.BeginUpload("load@@white"), "same cell must be rejected while in flight")

	// 다른 셀의 업로드는 독립적이다
	assert.True(t, state.BeginUpload("load@@dark"))

	state.EndUpload("load@@white")
	assert.True(t, state.BeginUpload("load@@white"))
}

func TestUploadTargetTakeClears(t *testing.T) {
	state := NewConsoleState()

	_, err := state.TakeUploadTarget()
	assert.ErrorIs(t, err, ErrMissingUploadTarget)

	skin := "white"
	state.SetUploadTarget(models.UploadTarget{Skin: &skin, Key: "load", Mode: models.UploadModeMatrix})

	target, err := state.TakeUploadTarget()
	require.NoError(t, err)
	assert.Equal(t, "load", target.Key)
	require.NotNil(t, target.Skin)
	assert.Equal(t, "white", *target.Skin)

	// 꺼낸 뒤에는 비어 있어야 한다 (이전 대상 재사용 금지)
	_, err = state.TakeUploadTarget()
	assert.ErrorIs(t, err, ErrMissingUploadTarget)
}

func TestClearUploadTarget(t *testing.T) {
	state := NewConsoleState()

	state.SetUploadTarget(models.UploadTarget{Key: "load", Mode: models.UploadModeMatrix})
	state.ClearUploadTarget()

	_, err := state.TakeUploadTarget()
	assert.ErrorIs(t, err, ErrMissingUploadTarget)
}
