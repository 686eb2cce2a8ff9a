package host

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentID(t *testing.T) {
	assert.Equal(t, ComponentID(786434), BankContainer)
	assert.Equal(t, 12, BankContainer.Interface())
	assert.Equal(t, 2, BankContainer.Child())
	assert.Equal(t, "12.2", BankContainer.String())
}

func TestParseComponentID(t *testing.T) {
	id, err := ParseComponentID("12.2")
	require.NoError(t, err)
	assert.Equal(t, BankContainer, id)

	id, err = ParseComponentID("786434")
	require.NoError(t, err)
	assert.Equal(t, BankContainer, id)

	_, err = ParseComponentID("bank")
	assert.Error(t, err)
	_, err = ParseComponentID("12.x")
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	w, err := m.Widget(BankContainer)
	require.NoError(t, err)
	assert.Nil(t, w, "absent widget should be nil")

	m.SetHidden(BankContainer, false)
	w, err = m.Widget(BankContainer)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.False(t, w.Hidden)

	boom := errors.New("client thread busy")
	m.SetFault(boom)
	_, err = m.Widget(BankContainer)
	assert.ErrorIs(t, err, boom)

	m.SetFault(nil)
	m.Remove(BankContainer)
	w, err = m.Widget(BankContainer)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	f := NewFile(path)

	w, err := f.Widget(BankContainer)
	require.NoError(t, err)
	assert.Nil(t, w, "missing file means no widgets")

	require.NoError(t, WriteFile(path, Widget{ID: BankContainer, Hidden: false}))
	w, err = f.Widget(BankContainer)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.False(t, w.Hidden)

	require.NoError(t, WriteFile(path, Widget{ID: BankContainer, Hidden: true}))
	w, err = f.Widget(BankContainer)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.True(t, w.Hidden)

	w, err = f.Widget(PackComponentID(149, 0))
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\"786434\":\n  hidden: false\n"), 0644))

	w, err := NewFile(path).Widget(BankContainer)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.False(t, w.Hidden)
}

func TestFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFile(path).Widget(BankContainer)
	assert.Error(t, err)
}
