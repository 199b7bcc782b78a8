package entity

import (
	"math"

	"github.com/Dynat/alpha-core/engine/common"
	"github.com/Dynat/alpha-core/engine/netutil"
	"github.com/Dynat/alpha-core/engine/proto"
	uf "github.com/Dynat/alpha-core/engine/updatefields"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// GiveXP rewards experience to a living player, scaled by the xp rate.
//
// victim is the killed unit, nil GUID when the experience has no source. Every level reached
// sends SMSG_LEVELUP_INFO, and nothing is gained at the max level.
func (m *EntityManager) GiveXP(player *Entity, victim common.GUID, amounts ...uint32) error {
	player.mustPlayer("GiveXP")
	if player.Level() >= m.opts.MaxLevel || !player.IsAlive() || len(amounts) == 0 {
		return nil
	}
	if victim.IsNil() {
		victim = player.GUID
	}

	xp := uint64(player.XP())
	p := netutil.NewPacket()
	p.AppendUint64(uint64(victim))
	p.AppendUint32(uint32(len(amounts)))
	for _, amount := range amounts {
		amount = scaleXP(amount, m.opts.XPRate)
		xp += uint64(amount)
		p.AppendUint64(uint64(player.GUID))
		p.AppendUint32(amount)
	}

	var errs error
	if err := player.client.SendPacket(proto.SMSG_LOG_XPGAIN, finishPayload(p)); err != nil {
		errs = multierr.Append(errs, errors.Wrapf(err, "xp gain to %s", player))
	}

	level := player.Level()
	for level < m.opts.MaxLevel && xp >= uint64(XPToNextLevel(level)) {
		xp -= uint64(XPToNextLevel(level))
		level++
		errs = multierr.Append(errs, m.SetLevel(player, level))
	}
	if level >= m.opts.MaxLevel {
		xp = 0
	} else if xp > math.MaxUint32 {
		xp = math.MaxUint32
	}
	player.Fields.SetUint32(uf.PLAYER_XP, uint32(xp))
	return errs
}

// scaleXP applies the xp rate, saturating at the largest uint32
func scaleXP(amount uint32, rate float32) uint32 {
	v := float64(amount) * float64(rate)
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// SetLevel changes the level of a unit. A player reaching a higher level is healed,
// gets its next level experience updated and receives SMSG_LEVELUP_INFO.
func (m *EntityManager) SetLevel(e *Entity, level uint32) error {
	e.mustUnit("SetLevel")
	old := e.Level()
	if level == old || level == 0 || level > m.opts.MaxLevel {
		return nil
	}
	e.SetLevel(level)
	if e.Player == nil {
		return nil
	}

	e.Fields.SetUint32(uf.PLAYER_NEXT_LEVEL_XP, XPToNextLevel(level))
	if level < old {
		return nil
	}
	e.SetHealth(e.MaxHealth())
	e.SetPower(int(PowerMana), e.Fields.Uint32(uf.UNIT_FIELD_MAXPOWER1))

	p := netutil.NewPacket()
	p.AppendUint32(level)
	p.AppendUint32(0) // health gained
	p.AppendUint32(0) // mana gained
	if err := e.client.SendPacket(proto.SMSG_LEVELUP_INFO, finishPayload(p)); err != nil {
		return errors.Wrapf(err, "level up info to %s", e)
	}
	return nil
}
