package stats

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"
	"sync"
)

// NewGlobalStats returns an empty set of per hint counters.
func NewGlobalStats() *GlobalStats {
	return &GlobalStats{
		Stats: make(map[string]HintStats),
	}
}

func (s *GlobalStats) Save(path string) error {
	fStats, err := os.Create(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}

	s.RLock()
	encoder := gob.NewEncoder(fStats)
	err = encoder.Encode(s.Stats)
	s.RUnlock()
	_ = fStats.Close()
	return err
}

func (s *GlobalStats) Load(path string) error {
	fStats, err := os.Open(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}

	s.Lock()
	decoder := gob.NewDecoder(fStats)
	err = decoder.Decode(&s.Stats)
	s.Unlock()
	_ = fStats.Close()
	return err
}

// Add records one invocation of the named hint.
func (s *GlobalStats) Add(hintName string, cells int, failed bool) {
	s.Lock()
	defer s.Unlock()
	hs := s.Stats[hintName]
	hs.NbCalls++
	hs.NbCells += cells
	if failed {
		hs.NbFailures++
	}
	s.Stats[hintName] = hs
}

// Get returns the counters of the named hint.
func (s *GlobalStats) Get(hintName string) HintStats {
	s.RLock()
	defer s.RUnlock()
	return s.Stats[hintName]
}

// Names returns the recorded hint names, sorted.
func (s *GlobalStats) Names() []string {
	s.RLock()
	defer s.RUnlock()
	names := make([]string, 0, len(s.Stats))
	for name := range s.Stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type GlobalStats struct {
	sync.RWMutex
	Stats map[string]HintStats
}

type HintStats struct {
	NbCalls, NbCells, NbFailures int
}

func (hs HintStats) String() string {
	return fmt.Sprintf("nbCalls: %d, nbCells: %d, nbFailures: %d", hs.NbCalls, hs.NbCells, hs.NbFailures)
}
