package guild

import (
	"fmt"

	"github.com/Dynat/alpha-core/engine/common"
)

// Guild ranks, a lower value is a higher rank
const (
	RankGuildMaster uint32 = 0
	RankOfficer     uint32 = 1
	RankVeteran     uint32 = 2
	RankMember      uint32 = 3
	RankInitiate    uint32 = 4
)

// Guild is a named group of players with ranks
type Guild struct {
	ID         uint32
	Name       string
	MasterGUID common.GUID
	members    map[common.GUID]uint32
}

func newGuild(id uint32, name string, master common.GUID) *Guild {
	return &Guild{
		ID:         id,
		Name:       name,
		MasterGUID: master,
		members:    map[common.GUID]uint32{master: RankGuildMaster},
	}
}

func (g *Guild) String() string {
	return fmt.Sprintf("Guild<%d|%s>", g.ID, g.Name)
}

// IsMember returns if the player is in the guild
func (g *Guild) IsMember(guid common.GUID) bool {
	_, ok := g.members[guid]
	return ok
}

// Rank returns the rank of a member
func (g *Guild) Rank(guid common.GUID) (uint32, bool) {
	rank, ok := g.members[guid]
	return rank, ok
}

// Members returns the sorted guids of the members
func (g *Guild) Members() []common.GUID {
	gs := make(common.GUIDSet, len(g.members))
	for guid := range g.members {
		gs.Add(guid)
	}
	return gs.ToList()
}

// MemberCount returns the number of members
func (g *Guild) MemberCount() int {
	return len(g.members)
}
