// Package history provides a fixed-capacity, time-ordered ring buffer
// of sensor snapshots.
package history

import (
	"sync"

	"github.com/fancontrol/fancontrol/internal/util"
)

// DefaultCapacity holds one hour of snapshots at one snapshot per second
const DefaultCapacity = 3600

// Snapshot is a single reading of the temperature, fan speeds and applied PWM values
type Snapshot struct {
	Timestamp   int64   `json:"timestamp"`
	Temperature float64 `json:"temp"`
	Fan1Rpm     float64 `json:"fan1_rpm"`
	Fan2Rpm     float64 `json:"fan2_rpm"`
	Pwm1        int     `json:"pwm1"`
	Pwm2        int     `json:"pwm2"`
}

// Stats summarizes the temperatures stored in a Buffer
type Stats struct {
	Count          int     `json:"count"`
	MinTemperature float64 `json:"min_temp"`
	MaxTemperature float64 `json:"max_temp"`
	AvgTemperature float64 `json:"avg_temp"`
}

// Buffer stores the most recent snapshots, evicting the oldest one
// when its capacity is reached. Readers always receive copies.
type Buffer struct {
	mu       sync.RWMutex
	items    []Snapshot
	start    int
	size     int
	capacity int
}

// NewBuffer creates an empty buffer holding at most capacity snapshots
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		items:    make([]Snapshot, capacity),
		capacity: capacity,
	}
}

// Append adds a snapshot, evicting the oldest one if the buffer is full
func (b *Buffer) Append(snapshot Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size < b.capacity {
		b.items[(b.start+b.size)%b.capacity] = snapshot
		b.size++
		return
	}
	b.items[b.start] = snapshot
	b.start = (b.start + 1) % b.capacity
}

// Latest returns the most recent snapshot, false if the buffer is empty
func (b *Buffer) Latest() (Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return Snapshot{}, false
	}
	return b.items[(b.start+b.size-1)%b.capacity], true
}

// Recent returns the last n snapshots (or fewer, if the buffer holds less)
// in chronological order
func (b *Buffer) Recent(n int) []Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.recentLocked(n)
}

func (b *Buffer) recentLocked(n int) []Snapshot {
	if n > b.size {
		n = b.size
	}
	if n <= 0 {
		return []Snapshot{}
	}

	result := make([]Snapshot, n)
	offset := b.start + b.size - n
	for i := 0; i < n; i++ {
		result[i] = b.items[(offset+i)%b.capacity]
	}
	return result
}

// Clear removes all snapshots
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.start = 0
	b.size = 0
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

func (b *Buffer) Capacity() int {
	return b.capacity
}

// Stats calculates min, max and average temperature over all stored snapshots
func (b *Buffer) Stats() Stats {
	snapshots := b.Recent(b.capacity)
	if len(snapshots) == 0 {
		return Stats{}
	}

	window := util.CreateRollingWindow(len(snapshots))
	for _, snapshot := range snapshots {
		window.Append(snapshot.Temperature)
	}

	return Stats{
		Count:          len(snapshots),
		MinTemperature: util.GetWindowMin(window),
		MaxTemperature: util.GetWindowMax(window),
		AvgTemperature: util.GetWindowAvg(window),
	}
}
