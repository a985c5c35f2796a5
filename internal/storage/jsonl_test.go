package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/orderdesk/internal/model"
)

func sampleOrder(ref string) model.Order {
	return model.Order{
		ID:           ref,
		Ref:          ref,
		Created:      "15 Jul 2020 22:00",
		Customer:     "Ola Nordmann",
		Products:     "Pinarello Gan Disk",
		Start:        "07 Aug 2020 14:00",
		End:          model.Unset,
		Distribution: "Avdeling 16, Oslo",
		Status:       model.StatusBooked,
		Delivery:     model.DeliveryUnset,
		Price:        "1,600.00 NOK",
		Department:   "Avdeling 16",
		CreatedBy:    "Sindre",
	}
}

func TestJSONLStore_AppendAndRead(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewJSONLStore(filepath.Join(tmpDir, ".orderdesk"))

	t.Run("read missing file returns empty slice", func(t *testing.T) {
		orders, err := store.ReadAll()
		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.False(t, store.Exists())
	})

	t.Run("append creates the file", func(t *testing.T) {
		require.NoError(t, store.Append(sampleOrder("VB58")))
		assert.FileExists(t, store.Path())
	})

	t.Run("append keeps earlier orders", func(t *testing.T) {
		require.NoError(t, store.Append(sampleOrder("QH29")))

		orders, err := store.ReadAll()
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "VB58", orders[0].Ref)
		assert.Equal(t, "QH29", orders[1].Ref)
		assert.Equal(t, model.DeliveryUnset, orders[1].Delivery)
		assert.Equal(t, "Avdeling 16, Oslo", orders[1].Distribution)
	})

	t.Run("append rejects duplicate ref", func(t *testing.T) {
		err := store.Append(sampleOrder("VB58"))
		assert.ErrorIs(t, err, model.ErrDuplicateRef)
	})

	t.Run("append rejects invalid order", func(t *testing.T) {
		o := sampleOrder("XX11")
		o.Status = "Shipped"
		assert.ErrorIs(t, store.Append(o), model.ErrInvalidStatus)
	})

	t.Run("find by ref", func(t *testing.T) {
		o, err := store.Find("QH29")
		require.NoError(t, err)
		assert.Equal(t, "Ola Nordmann", o.Customer)

		_, err = store.Find("NOPE")
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})
}

func TestJSONLStore_ReadAll(t *testing.T) {
	write := func(t *testing.T, content string) *JSONLStore {
		t.Helper()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, OrdersFile), []byte(content), 0644))
		return NewJSONLStore(dir)
	}

	t.Run("skips blank lines", func(t *testing.T) {
		store := write(t, `{"ref":"AB12","status":"Booked","delivery":"Picked up"}`+"\n\n"+
			`{"ref":"CD34","status":"Test","delivery":"—"}`+"\n")
		orders, err := store.ReadAll()
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("duplicate refs are rejected with line numbers", func(t *testing.T) {
		store := write(t, `{"ref":"AB12","status":"Booked","delivery":"Picked up"}`+"\n"+
			`{"ref":"AB12","status":"Test","delivery":"—"}`+"\n")
		_, err := store.ReadAll()
		require.ErrorIs(t, err, model.ErrDuplicateRef)
		assert.Contains(t, err.Error(), "lines 1 and 2")
	})

	t.Run("malformed json reports the line", func(t *testing.T) {
		store := write(t, `{"ref":"AB12","status":"Booked","delivery":"Picked up"}`+"\n{oops\n")
		_, err := store.ReadAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestJSONLStore_WriteAll(t *testing.T) {
	store := NewJSONLStore(t.TempDir())
	orders := DemoOrders()
	require.NoError(t, store.WriteAll(orders))

	got, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, orders, got)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
