package discord

import "sync"

// guildSet tracks the guilds the bot is known to be in, so a GUILD_CREATE
// for one of them reads as availability rather than a join.
type guildSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newGuildSet() *guildSet {
	return &guildSet{ids: make(map[string]struct{})}
}

// Reset replaces the known set with the guilds announced by a ready.
func (g *guildSet) Reset(ids []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		g.ids[id] = struct{}{}
	}
}

// Join records id and reports whether it was new.
func (g *guildSet) Join(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.ids[id]; ok {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

func (g *guildSet) Leave(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, id)
}
