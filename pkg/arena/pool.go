// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package arena tracks the fixed set of battle arenas and hands them out
// exclusively, one match at a time.
package arena

import (
	"sync"

	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/models"
)

// WorldLoader prepares the backing world for an arena at startup.
// A load failure disables the arena instead of crashing the pool.
type WorldLoader interface {
	LoadWorld(scope *envelope.Scope, arenaName string) error
}

// Pool holds every arena known to this process. Arenas are registered once at
// load time and only toggled between available and in-use afterwards.
type Pool struct {
	mu     sync.Mutex
	arenas []*models.Arena
}

// NewPool loads the given arena definitions. Arenas whose world fails to load
// stay in the pool disabled, so operators can see them in listings.
func NewPool(scope *envelope.Scope, definitions []models.Arena, loader WorldLoader) *Pool {
	pool := &Pool{}
	for i := range definitions {
		def := definitions[i]
		def.Enabled = true
		def.InUse = false
		if loader != nil {
			if err := loader.LoadWorld(scope, def.Name); err != nil {
				scope.Log.WithField("arena", def.Name).Errorf("failed to load arena world, disabling arena: %s", err)
				def.Enabled = false
			}
		}
		pool.arenas = append(pool.arenas, &def)
	}
	return pool
}

// Acquire returns the first enabled, not-in-use arena serving the kit and
// marks it in use, or nil when every eligible arena is taken. First-fit is
// acceptable at the arena counts this pool is sized for.
func (p *Pool) Acquire(kit string) *models.Arena {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range p.arenas {
		if a.Enabled && !a.InUse && a.ServesKit(kit) {
			a.InUse = true
			return a
		}
	}
	return nil
}

// Release marks the arena available again. Releasing an already-available
// arena is a no-op so every terminal path of a match may call it.
func (p *Pool) Release(a *models.Arena) {
	if a == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	a.InUse = false
}

// MarkInUse flips the named arena to in-use, returning false when the arena
// is unknown or already taken.
func (p *Pool) MarkInUse(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range p.arenas {
		if a.Name == name {
			if !a.Enabled || a.InUse {
				return false
			}
			a.InUse = true
			return true
		}
	}
	return false
}

// MarkAvailable flips the named arena back to available.
func (p *Pool) MarkAvailable(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range p.arenas {
		if a.Name == name {
			a.InUse = false
			return
		}
	}
}

// Get returns the named arena, or nil.
func (p *Pool) Get(name string) *models.Arena {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range p.arenas {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Available counts enabled arenas not currently in use.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, a := range p.arenas {
		if a.Enabled && !a.InUse {
			count++
		}
	}
	return count
}
