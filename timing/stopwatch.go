package timing

import (
	"fmt"
	"sync"
	"time"
)

// Reading is a pair of CPU and wall-clock durations.
type Reading struct {
	CPU  time.Duration `json:"cpu"`
	Wall time.Duration `json:"wall"`
}

func (r Reading) add(o Reading) Reading {
	return Reading{CPU: r.CPU + o.CPU, Wall: r.Wall + o.Wall}
}

// Stopwatch measures CPU and wall time across start/stop cycles.
// CPU time is process-wide, as reported by the operating system.
type Stopwatch struct {
	mu        sync.Mutex
	running   bool
	startCPU  time.Duration
	startWall time.Time
	last      Reading
	total     Reading
	laps      int
}

// New creates a stopped Stopwatch.
func New() *Stopwatch {
	return &Stopwatch{}
}

// Start begins a lap. Starting a running stopwatch restarts the lap.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.startCPU = processCPUTime()
	s.startWall = time.Now()
}

// Stop ends the current lap and returns its reading. Stopping a stopped
// stopwatch returns the zero reading.
func (s *Stopwatch) Stop() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return Reading{}
	}
	s.running = false
	lap := Reading{
		CPU:  max(processCPUTime()-s.startCPU, 0),
		Wall: time.Since(s.startWall),
	}
	s.last = lap
	s.total = s.total.add(lap)
	s.laps++
	return lap
}

// Last returns the reading of the most recent completed lap.
func (s *Stopwatch) Last() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Total returns the accumulated reading over all completed laps.
func (s *Stopwatch) Total() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Laps returns the number of completed laps.
func (s *Stopwatch) Laps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.laps
}

// Running reports whether a lap is in progress.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Reset clears all readings and stops the stopwatch.
func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.last = Reading{}
	s.total = Reading{}
	s.laps = 0
}

func (s *Stopwatch) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%d laps; Elapsed CPU Time: %.6fs; Elapsed Wall Time: %.6fs",
		s.laps, s.total.CPU.Seconds(), s.total.Wall.Seconds())
}
