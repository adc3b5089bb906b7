package schema

import (
	"sync"
	"testing"
)

func TestCache_LoadAndKnown(t *testing.T) {
	c := NewCache()

	if c.Loaded("device-1") {
		t.Error("Loaded() = true for unprimed device, want false")
	}
	if c.Known("device-1", "temperature") {
		t.Error("Known() = true for unprimed device, want false")
	}

	c.Load("device-1", []string{"temperature", "humidity"})

	if !c.Loaded("device-1") {
		t.Error("Loaded() = false after Load, want true")
	}
	if !c.Known("device-1", "temperature") {
		t.Error("Known(temperature) = false after Load, want true")
	}
	if c.Known("device-1", "vibration") {
		t.Error("Known(vibration) = true, want false")
	}
	if c.Known("device-2", "temperature") {
		t.Error("Known() leaked across devices")
	}
}

func TestCache_LoadMerges(t *testing.T) {
	c := NewCache()
	c.Load("device-1", []string{"temperature"})
	c.Add("device-1", "vibration")
	c.Load("device-1", []string{"temperature", "humidity"})

	// A reload must not drop properties added between loads.
	if !c.Known("device-1", "vibration") {
		t.Error("Known(vibration) = false after reload, want true (merge, not replace)")
	}
	if c.PropertyCount("device-1") != 3 {
		t.Errorf("PropertyCount() = %d, want 3", c.PropertyCount("device-1"))
	}
}

func TestCache_AddPrimesDevice(t *testing.T) {
	c := NewCache()
	c.Add("device-1", "temperature")

	if !c.Known("device-1", "temperature") {
		t.Error("Known() = false after Add, want true")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache()
	c.Load("device-1", []string{"temperature"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Add("device-1", "humidity")
		}()
		go func() {
			defer wg.Done()
			_ = c.Known("device-1", "temperature")
		}()
	}
	wg.Wait()

	if c.PropertyCount("device-1") != 2 {
		t.Errorf("PropertyCount() = %d, want 2", c.PropertyCount("device-1"))
	}
}
