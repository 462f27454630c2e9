package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures messages and attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("step completed", slog.String("stage", "clean"), slog.Int("rows", 12))
		logger.Debug("details")

		require.Equal(t, 2, handler.Count())
		records := handler.GetRecords()
		assert.Equal(t, "step completed", records[0].Message)
		assert.Equal(t, "clean", records[0].Attrs["stage"])
		assert.EqualValues(t, 12, records[0].Attrs["rows"])
		assert.True(t, handler.ContainsMessage("completed"))
		assert.True(t, handler.ContainsAttr("stage", "clean"))
		assert.False(t, handler.ContainsAttr("stage", "load"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("a")
		logger.Warn("b")
		logger.Error("c")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		assert.Empty(t, handler.GetRecordsByLevel(slog.LevelDebug))
	})

	t.Run("derived loggers share the buffer and keep attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "exporter")).Info("sheet written")
		logger.WithGroup("sheet").Info("sheet written", slog.String("name", "Avg_Pivot"))

		require.Equal(t, 2, handler.Count())
		found := handler.FindRecords("sheet written")
		require.Len(t, found, 2)
		assert.Equal(t, "exporter", found[0].Attrs["component"])
		assert.Equal(t, "Avg_Pivot", found[1].Attrs["sheet.name"])
	})

	t.Run("clear empties the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("x")

		handler.Clear()

		assert.Zero(t, handler.Count())
		assert.False(t, handler.ContainsMessage("x"))
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("concurrent log", slog.Int("goroutine", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
	})
}
