package agent

import (
	"fmt"

	"github.com/Software-Cat/MLHummingbirds/components"
	"github.com/Software-Cat/MLHummingbirds/geom"
)

// Tick runs post-physics bookkeeping for one fixed step: feeding through any
// nectar trigger the beak reaches, the boundary penalty, nearest-flower
// upkeep, and the training step counter. Returns true when a training episode
// just hit its step limit.
func (h *Hummingbird) Tick() bool {
	if h.frozen {
		return false
	}

	h.feedThroughTriggers()

	contact := h.contactMap.Get(h.entity)
	if contact.Boundary && !h.prevBoundary {
		h.BoundaryHits++
		if h.Training {
			h.Reward += float32(h.env.Cfg.Rewards.BoundaryPenalty)
		}
	}
	h.prevBoundary = contact.Boundary

	// The tracked flower may have been drained by the other bird.
	if h.hasNearest && !h.env.Patch.HasNectar(h.nearest) {
		h.UpdateNearestFlower()
	}

	if !h.Training {
		return false
	}
	h.StepCount++
	return h.StepCount >= h.env.Cfg.Episode.MaxSteps
}

// feedThroughTriggers withdraws nectar from every flower whose trigger the
// beak tip currently touches. Training rewards each sip by a fixed base plus
// an alignment bonus for pointing the beak into the flower.
func (h *Hummingbird) feedThroughTriggers() {
	tip := h.BeakTip()
	tipRadius := h.flightMap.Get(h.entity).BeakTipRadius

	h.overlaps = h.env.Hash.OverlapSphereInto(h.overlaps[:0], tip, tipRadius)
	for _, e := range h.overlaps {
		c := h.colMap.Get(e)
		if c == nil || c.Tag != components.TagNectar {
			continue
		}

		flower, ok := h.env.Patch.OwnerOf(c.Surface)
		if !ok {
			panic(fmt.Sprintf("agent: nectar surface %d has no owner", c.Surface))
		}

		got := h.env.Patch.Withdraw(flower, float32(h.env.Cfg.Nectar.PerTick))
		h.NectarObtained += got
		if got > 0 {
			h.Withdrawals++
		}

		if h.Training {
			down := h.env.Patch.FlowerUp(flower).Neg()
			forward := h.rotMap.Get(h.entity).Forward()
			bonus := geom.Clamp01(forward.Dot(down))
			h.Reward += float32(h.env.Cfg.Rewards.NectarBase) + float32(h.env.Cfg.Rewards.AlignmentBonus)*bonus
		}

		if !h.env.Patch.HasNectar(flower) {
			if got > 0 {
				h.FlowersDrained++
			}
			h.UpdateNearestFlower()
		}
	}
}

// UpdateNearestFlower rescans the patch for the closest flower that still
// holds nectar. The current pick survives unless it ran dry or a strictly
// closer eligible flower exists, so distance ties keep the earliest flower
// in patch order.
func (h *Hummingbird) UpdateNearestFlower() {
	beak := h.BeakTip()

	for _, e := range h.env.Patch.Flowers() {
		if !h.env.Patch.HasNectar(e) {
			continue
		}

		replace := !h.hasNearest || !h.env.Patch.HasNectar(h.nearest)
		if !replace {
			held := h.env.Patch.FlowerCenter(h.nearest).DistanceTo(beak)
			replace = h.env.Patch.FlowerCenter(e).DistanceTo(beak) < held
		}
		if replace {
			h.nearest = e
			h.hasNearest = true
		}
	}
}
