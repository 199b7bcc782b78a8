// Package guild keeps the guilds of the world with their pending invites and handles the guild commands.
package guild

import (
	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/entity"
	"github.com/Dynat/alpha-core/engine/gwlog"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/proto"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Guild command types of SMSG_GUILD_COMMAND_RESULT
const (
	GUILD_CREATE_S uint32 = 0x00
	GUILD_INVITE_S uint32 = 0x01
	GUILD_QUIT_S   uint32 = 0x02
)

// Guild command results of SMSG_GUILD_COMMAND_RESULT
const (
	GUILD_PLAYER_NO_MORE_IN_GUILD  uint32 = 0x00
	GUILD_INTERNAL                 uint32 = 0x01
	GUILD_ALREADY_IN_GUILD         uint32 = 0x02
	GUILD_ALREADY_IN_GUILD_S       uint32 = 0x03
	GUILD_INVITED_TO_GUILD         uint32 = 0x04
	GUILD_ALREADY_INVITED_TO_GUILD uint32 = 0x05
	GUILD_NAME_INVALID             uint32 = 0x06
	GUILD_NAME_EXISTS              uint32 = 0x07
	GUILD_PERMISSIONS              uint32 = 0x08
	GUILD_PLAYER_NOT_IN_GUILD      uint32 = 0x09
	GUILD_PLAYER_NOT_IN_GUILD_S    uint32 = 0x0A
	GUILD_PLAYER_NOT_FOUND         uint32 = 0x0B
)

// Guild events of SMSG_GUILD_EVENT
const (
	GE_PROMOTION uint8 = 0x00
	GE_JOINED    uint8 = 0x03
)

// Invite is a pending guild invite, keyed by the invited player
type Invite struct {
	Inviter common.GUID
	GuildID uint32
}

// Manager owns the guilds and the pending invites of one world
type Manager struct {
	entities       *entity.EntityManager
	guilds         map[uint32]*Guild
	PendingInvites map[common.GUID]*Invite
	nextID         uint32
}

// NewManager creates a guild manager looking up players in entities
func NewManager(entities *entity.EntityManager) *Manager {
	return &Manager{
		entities:       entities,
		guilds:         map[uint32]*Guild{},
		PendingInvites: map[common.GUID]*Invite{},
	}
}

// Guild returns the guild, nil if not found
func (m *Manager) Guild(id uint32) *Guild {
	return m.guilds[id]
}

// GuildOf returns the guild of the player, nil if none
func (m *Manager) GuildOf(player *entity.Entity) *Guild {
	g := m.guilds[player.GuildID()]
	if g == nil || !g.IsMember(player.GUID) {
		return nil
	}
	return g
}

// Create founds a guild with master as its guild master
func (m *Manager) Create(master *entity.Entity, name string) (*Guild, error) {
	if name == "" {
		return nil, errors.Errorf("%s: empty guild name", master)
	}
	if m.GuildOf(master) != nil {
		return nil, errors.Errorf("%s is already in a guild", master)
	}
	for _, g := range m.guilds {
		if g.Name == name {
			return nil, errors.Errorf("guild %s already exists", name)
		}
	}
	m.nextID++
	g := newGuild(m.nextID, name, master.GUID)
	m.guilds[g.ID] = g
	master.SetGuild(g.ID, RankGuildMaster)
	gwlog.Infof("%s created by %s", g, master)
	return g, nil
}

// Restore adds a guild loaded from storage
func (m *Manager) Restore(id uint32, name string, master common.GUID, members map[common.GUID]uint32) *Guild {
	g := newGuild(id, name, master)
	for guid, rank := range members {
		g.members[guid] = rank
	}
	m.guilds[id] = g
	if id > m.nextID {
		m.nextID = id
	}
	return g
}

// Invite records a pending invite of target into the guild of inviter and notifies target
func (m *Manager) Invite(inviter *entity.Entity, target *entity.Entity) error {
	g := m.GuildOf(inviter)
	switch {
	case g == nil:
		return sendCommandResult(inviter, GUILD_INVITE_S, "", GUILD_PLAYER_NOT_IN_GUILD)
	case m.GuildOf(target) != nil:
		return sendCommandResult(inviter, GUILD_INVITE_S, target.Name, GUILD_ALREADY_IN_GUILD_S)
	case m.PendingInvites[target.GUID] != nil:
		return sendCommandResult(inviter, GUILD_INVITE_S, target.Name, GUILD_ALREADY_INVITED_TO_GUILD)
	}

	m.PendingInvites[target.GUID] = &Invite{Inviter: inviter.GUID, GuildID: g.ID}
	p := netutil.NewPacket()
	p.AppendCString(inviter.Name)
	p.AppendCString(g.Name)
	payload := p.CopyPayload()
	p.Release()
	return multierr.Append(
		target.Client().SendPacket(proto.SMSG_GUILD_INVITE, payload),
		sendCommandResult(inviter, GUILD_INVITE_S, target.Name, GUILD_PLAYER_NO_MORE_IN_GUILD),
	)
}

// InviteByName invites the online player with the name
func (m *Manager) InviteByName(inviter *entity.Entity, targetName string) error {
	target := m.entities.FindPlayerByName(targetName)
	if target == nil {
		return sendCommandResult(inviter, GUILD_INVITE_S, targetName, GUILD_PLAYER_NOT_FOUND)
	}
	return m.Invite(inviter, target)
}

// AcceptInvite makes the player join the guild it was invited to with the lowest rank
func (m *Manager) AcceptInvite(player *entity.Entity) error {
	invite, ok := m.PendingInvites[player.GUID]
	if !ok {
		return sendCommandResult(player, GUILD_INVITE_S, "", GUILD_INTERNAL)
	}
	delete(m.PendingInvites, player.GUID)

	g := m.guilds[invite.GuildID]
	if g == nil {
		return sendCommandResult(player, GUILD_INVITE_S, "", GUILD_INTERNAL)
	}
	g.members[player.GUID] = RankInitiate
	player.SetGuild(g.ID, RankInitiate)
	gwlog.Infof("%s joined %s", player, g)
	return m.broadcastEvent(g, GE_JOINED, player.Name)
}

// Promote raises the rank of a member by one, only the guild master can promote
// and nobody can be promoted to guild master
func (m *Manager) Promote(actor *entity.Entity, targetName string) error {
	g := m.GuildOf(actor)
	if g == nil {
		return sendCommandResult(actor, GUILD_INVITE_S, "", GUILD_PLAYER_NOT_IN_GUILD)
	}
	if g.MasterGUID != actor.GUID {
		return sendCommandResult(actor, GUILD_INVITE_S, "", GUILD_PERMISSIONS)
	}
	target := m.entities.FindPlayerByName(targetName)
	if target == nil {
		return sendCommandResult(actor, GUILD_INVITE_S, targetName, GUILD_PLAYER_NOT_FOUND)
	}
	if !g.IsMember(target.GUID) {
		return sendCommandResult(actor, GUILD_INVITE_S, targetName, GUILD_PLAYER_NOT_IN_GUILD)
	}
	rank := g.members[target.GUID]
	if rank <= RankOfficer {
		return sendCommandResult(actor, GUILD_INVITE_S, "", GUILD_INTERNAL)
	}
	rank--
	g.members[target.GUID] = rank
	target.SetGuildRank(rank)
	gwlog.Infof("%s: %s promoted %s to rank %d", g, actor, target, rank)
	return m.broadcastEvent(g, GE_PROMOTION, actor.Name, target.Name, rankName(rank))
}

// Forget drops the invites for and from the player, it is called on logout
func (m *Manager) Forget(guid common.GUID) {
	delete(m.PendingInvites, guid)
	for invited, invite := range m.PendingInvites {
		if invite.Inviter == guid {
			delete(m.PendingInvites, invited)
		}
	}
}

// Clear drops every guild and invite
func (m *Manager) Clear() {
	m.guilds = map[uint32]*Guild{}
	m.PendingInvites = map[common.GUID]*Invite{}
}

func rankName(rank uint32) string {
	switch rank {
	case RankGuildMaster:
		return "Guild Master"
	case RankOfficer:
		return "Officer"
	case RankVeteran:
		return "Veteran"
	case RankMember:
		return "Member"
	}
	return "Initiate"
}

func (m *Manager) broadcastEvent(g *Guild, event uint8, args ...string) error {
	p := netutil.NewPacket()
	p.AppendByte(event)
	p.AppendByte(uint8(len(args)))
	for _, arg := range args {
		p.AppendCString(arg)
	}
	payload := p.CopyPayload()
	p.Release()

	var errs error
	for _, guid := range g.Members() {
		member := m.entities.Get(guid)
		if member == nil || !member.IsOnline() {
			continue
		}
		if err := member.Client().SendPacket(proto.SMSG_GUILD_EVENT, payload); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "guild event to %s", member))
		}
	}
	return errs
}

func sendCommandResult(player *entity.Entity, command uint32, name string, result uint32) error {
	p := netutil.NewPacket()
	p.AppendUint32(command)
	p.AppendCString(name)
	p.AppendUint32(result)
	payload := p.CopyPayload()
	p.Release()
	if err := player.Client().SendPacket(proto.SMSG_GUILD_COMMAND_RESULT, payload); err != nil {
		return errors.Wrapf(err, "guild command result to %s", player)
	}
	return nil
}
