// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package testsetup provides shared test fixtures: scopes, noop metrics and
// stub implementations of every external boundary.
package testsetup

import (
	"sync"

	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// StubPlayer is an in-memory PlayerHandle.
type StubPlayer struct {
	mu        sync.Mutex
	id        playerdata.ID
	connected bool
	location  models.Location
	inventory []models.ItemStack
	equipment map[string]models.ItemStack
	effects   []models.Effect
}

func NewStubPlayer(id playerdata.ID, location models.Location) *StubPlayer {
	return &StubPlayer{
		id:        id,
		connected: true,
		location:  location,
		equipment: map[string]models.ItemStack{},
	}
}

func (p *StubPlayer) ID() playerdata.ID { return p.id }

func (p *StubPlayer) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// SetConnected simulates a disconnect or reconnect.
func (p *StubPlayer) SetConnected(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = connected
}

func (p *StubPlayer) Location() models.Location {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

func (p *StubPlayer) Teleport(loc models.Location) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = loc
}

func (p *StubPlayer) Inventory() []models.ItemStack {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inventory
}

func (p *StubPlayer) Equipment() map[string]models.ItemStack {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.equipment
}

func (p *StubPlayer) Effects() []models.Effect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.effects
}

func (p *StubPlayer) SetInventory(items []models.ItemStack) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inventory = items
}

func (p *StubPlayer) SetEquipment(slots map[string]models.ItemStack) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.equipment = slots
}

func (p *StubPlayer) SetEffects(effects []models.Effect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.effects = effects
}

func (p *StubPlayer) ClearLoadout() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inventory = nil
	p.equipment = map[string]models.ItemStack{}
	p.effects = nil
}

// StubDirectory is an in-memory PlayerDirectory.
type StubDirectory struct {
	mu      sync.Mutex
	players map[playerdata.ID]*StubPlayer
}

func NewStubDirectory(players ...*StubPlayer) *StubDirectory {
	d := &StubDirectory{players: map[playerdata.ID]*StubPlayer{}}
	for _, p := range players {
		d.players[p.ID()] = p
	}
	return d
}

func (d *StubDirectory) Add(p *StubPlayer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.players[p.ID()] = p
}

// Remove simulates a hard disconnect where the handle is gone entirely.
func (d *StubDirectory) Remove(id playerdata.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.players, id)
}

func (d *StubDirectory) Resolve(id playerdata.ID) (external.PlayerHandle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// StubKitProvider serves a fixed kit map.
type StubKitProvider struct {
	Kits map[string]*models.Kit
}

func NewStubKitProvider(kits ...*models.Kit) *StubKitProvider {
	provider := &StubKitProvider{Kits: map[string]*models.Kit{}}
	for _, kit := range kits {
		provider.Kits[kit.Name] = kit
	}
	return provider
}

func (p *StubKitProvider) GetKit(_ *envelope.Scope, name string) (*models.Kit, bool) {
	kit, ok := p.Kits[name]
	return kit, ok
}

// StubRatingService keeps ratings in a map and records every settlement and
// adjustment for assertions.
type StubRatingService struct {
	mu          sync.Mutex
	Ratings     map[playerdata.ID]int
	Delta       int // nominal delta returned by UpdateRatingAfterMatch
	Updates     [][2]playerdata.ID
	Adjustments []StubAdjustment
}

type StubAdjustment struct {
	PlayerID playerdata.ID
	Delta    int
	Reason   string
}

func NewStubRatingService(delta int) *StubRatingService {
	return &StubRatingService{Ratings: map[playerdata.ID]int{}, Delta: delta}
}

func (s *StubRatingService) Configured() bool { return true }

func (s *StubRatingService) GetRating(_ *envelope.Scope, id playerdata.ID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Ratings[id], nil
}

func (s *StubRatingService) UpdateRatingAfterMatch(_ *envelope.Scope, winner, loser playerdata.ID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ratings[winner] += s.Delta
	s.Ratings[loser] -= s.Delta
	s.Updates = append(s.Updates, [2]playerdata.ID{winner, loser})
	return s.Delta, nil
}

func (s *StubRatingService) AdjustRating(_ *envelope.Scope, id playerdata.ID, delta int, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ratings[id] += delta
	s.Adjustments = append(s.Adjustments, StubAdjustment{PlayerID: id, Delta: delta, Reason: reason})
	return nil
}

// StubRecordSink collects appended records.
type StubRecordSink struct {
	mu      sync.Mutex
	Records []models.MatchRecord
}

func NewStubRecordSink() *StubRecordSink {
	return &StubRecordSink{}
}

func (s *StubRecordSink) AppendMatchRecord(_ *envelope.Scope, record models.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, record)
	return nil
}

func (s *StubRecordSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Records)
}

// StubNotifier collects messages per player.
type StubNotifier struct {
	mu       sync.Mutex
	Messages map[playerdata.ID][]string
}

func NewStubNotifier() *StubNotifier {
	return &StubNotifier{Messages: map[playerdata.ID][]string{}}
}

func (n *StubNotifier) Message(id playerdata.ID, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages[id] = append(n.Messages[id], text)
}

func (n *StubNotifier) Count(id playerdata.ID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Messages[id])
}

// Received returns a copy of the messages sent to the player.
func (n *StubNotifier) Received(id playerdata.ID) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.Messages[id]...)
}
