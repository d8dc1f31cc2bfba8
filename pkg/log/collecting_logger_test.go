package log

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectingLoggerRecordsInOrder(t *testing.T) {
	c := NewCollectingLogger()
	c.Log(Event{Severity: SeverityWarning, Message: "first"})
	c.Log(Event{Severity: SeverityError, Message: "second"})

	events := c.Events()
	if assert.Len(t, events, 2) {
		assert.Equal(t, "first", events[0].Message)
		assert.Equal(t, "second", events[1].Message)
	}
	assert.Equal(t, 1, c.Count(SeverityWarning))
	assert.Equal(t, 1, c.Count(SeverityError))
	assert.Equal(t, 0, c.Count(SeverityInfo))
}

func TestCollectingLoggerEventsIsCopy(t *testing.T) {
	c := NewCollectingLogger()
	c.Log(Event{Message: "a"})

	events := c.Events()
	events[0].Message = "changed"

	assert.Equal(t, "a", c.Events()[0].Message)
}

func TestCollectingLoggerConcurrent(t *testing.T) {
	c := NewCollectingLogger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Log(Event{Severity: SeverityWarning})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Count(SeverityWarning))
}
