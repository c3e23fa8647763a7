package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreReplaceIsWholesale(t *testing.T) {
	s := NewStore()
	s.Replace(Snapshot{
		1: {ProfileName: "a"},
		2: {ProfileName: "b"},
		3: {ProfileName: "c"},
	})
	s.Replace(Snapshot{
		1: {ProfileName: "a2"},
		2: {ProfileName: "b2"},
	})

	got := s.Read()
	assert.Len(t, got, 2)
	assert.Equal(t, "a2", got[1].ProfileName)
	_, ok := got[3]
	assert.False(t, ok, "dropped id must not survive a replace")
}

func TestStoreReadReturnsCopy(t *testing.T) {
	s := NewStore()
	next := Snapshot{1: {ProfileName: "a"}}
	s.Replace(next)

	next[1] = State{ProfileName: "mutated"}
	got := s.Read()
	got[2] = State{ProfileName: "extra"}

	again := s.Read()
	assert.Equal(t, "a", again[1].ProfileName)
	assert.Len(t, again, 1)
}

func TestStoreList(t *testing.T) {
	s := NewStore()
	s.Replace(Snapshot{
		30: {ProfileName: "zed"},
		10: {ProfileName: "amy"},
		20: {ProfileName: "amy"},
	})

	list := s.List()
	assert.Equal(t, []uint64{10, 20, 30}, []uint64{list[0].SteamID, list[1].SteamID, list[2].SteamID})
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Replace(Snapshot{uint64(i): {ProfileName: "x"}})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.List()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
