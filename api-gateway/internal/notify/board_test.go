package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/Aakash694/EcoFinds/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBoard_ShowAndExpire(t *testing.T) {
	board := NewBoard(30*time.Millisecond, zap.NewNop())
	defer board.Close()

	toast := board.Success("Your ad has been posted successfully!")
	assert.Equal(t, models.ToastSuccess, toast.Kind)
	assert.Equal(t, 30*time.Millisecond, toast.ExpiresAt.Sub(toast.CreatedAt))
	require.Len(t, board.Active(), 1)

	assert.Eventually(t, func() bool { return len(board.Active()) == 0 },
		time.Second, 5*time.Millisecond, "toast should be dismissed after its TTL")
}

func TestBoard_ActiveIsOrdered(t *testing.T) {
	board := NewBoard(time.Minute, nil)
	defer board.Close()

	board.Success("Filters applied!")
	board.Error("Please fill all required fields!")
	board.Success("Filters cleared!")

	active := board.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "Filters applied!", active[0].Message)
	assert.Equal(t, models.ToastError, active[1].Kind)
	assert.Equal(t, "Filters cleared!", active[2].Message)
}

func TestBoard_Dismiss(t *testing.T) {
	board := NewBoard(time.Minute, nil)
	defer board.Close()

	toast := board.Success("Calling Raj Kumar at 9876543210...")
	assert.True(t, board.Dismiss(toast.ID))
	assert.False(t, board.Dismiss(toast.ID))
	assert.Empty(t, board.Active())
}

func TestBoard_OnShow(t *testing.T) {
	board := NewBoard(time.Minute, nil)
	defer board.Close()

	var mu sync.Mutex
	var seen []string
	board.OnShow(func(toast models.Toast) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, toast.Message)
	})

	board.Success("one")
	board.Error("two")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestBoard_DefaultTTL(t *testing.T) {
	board := NewBoard(0, nil)
	defer board.Close()

	toast := board.Success("hello")
	assert.Equal(t, DefaultTTL, toast.ExpiresAt.Sub(toast.CreatedAt))
}

func TestBoard_CloseStopsTimers(t *testing.T) {
	board := NewBoard(time.Hour, nil)
	board.Success("pending")
	board.Close()

	assert.Empty(t, board.Active())
	board.Success("after close")
	assert.Empty(t, board.Active())
}
