package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestTemplFilter(t *testing.T) {
	assert.True(t, TemplFilter("components/button.templ"))
	assert.False(t, TemplFilter("components/button.go"))
	assert.False(t, TemplFilter("README.md"))
}

func TestGoFilter(t *testing.T) {
	assert.True(t, GoFilter("main.go"))
	assert.False(t, GoFilter("main.templ"))
}

func TestExcludeFilter(t *testing.T) {
	filter := ExcludeFilter([]string{"*_test.templ", "*.bak"})

	assert.True(t, filter("components/button.templ"))
	assert.False(t, filter("components/button_test.templ"))
	assert.False(t, filter("components/button.templ.bak"))
}

func TestValidatePathRejectsTraversal(t *testing.T) {
	fw, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddPath("../outside"))
	assert.Error(t, fw.AddPath("/etc"))
}

func TestDebouncerGroupsBursts(t *testing.T) {
	d := &Debouncer{
		delay:   20 * time.Millisecond,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	// A burst of writes to two files should flush as one deduplicated batch.
	for i := 0; i < 5; i++ {
		d.events <- ChangeEvent{Type: EventTypeModified, Path: "a.templ"}
		d.events <- ChangeEvent{Type: EventTypeModified, Path: "b.templ"}
	}

	select {
	case batch := <-d.output:
		assert.Len(t, batch, 2)
		paths := map[string]bool{}
		for _, event := range batch {
			paths[event.Path] = true
		}
		assert.True(t, paths["a.templ"])
		assert.True(t, paths["b.templ"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debounced batch")
	}
}

func TestWatcherDeliversFilteredChanges(t *testing.T) {
	dir := t.TempDir()

	// The watcher only accepts paths under the working directory.
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(oldWd) }()

	fw, err := New(30*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(TemplFilter)

	var mutex sync.Mutex
	var received []ChangeEvent
	fw.AddHandler(func(events []ChangeEvent) error {
		mutex.Lock()
		received = append(received, events...)
		mutex.Unlock()
		return nil
	})

	require.NoError(t, fw.AddPath("."))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "button.templ"), []byte("templ Button() {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	require.Eventually(t, func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return len(received) > 0
	}, 3*time.Second, 50*time.Millisecond)

	mutex.Lock()
	defer mutex.Unlock()
	for _, event := range received {
		assert.Equal(t, ".templ", filepath.Ext(event.Path))
	}
}
