package battle_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
)

// rapidRoller draws every die result from the property's input
type rapidRoller struct {
	t *rapid.T
}

func (r rapidRoller) Roll(size int) (int, error) {
	return rapid.IntRange(1, size).Draw(r.t, "roll"), nil
}

func (r rapidRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = r.Roll(size)
	}
	return out, nil
}

func itemGen() *rapid.Generator[*entities.InventoryItem] {
	return rapid.Custom(func(t *rapid.T) *entities.InventoryItem {
		cost := rapid.IntRange(-1, 6).Draw(t, "cost")
		kind := rapid.SampledFrom([]entities.EffectKind{entities.EffectDamage, entities.EffectHeal}).Draw(t, "kind")
		return &entities.InventoryItem{
			ID:       rapid.StringMatching(`[a-z]{4}`).Draw(t, "id"),
			ManaCost: &cost,
			Effect:   &entities.Effect{Kind: kind, Value: rapid.IntRange(-2, 12).Draw(t, "value")},
		}
	})
}

func checkInvariants(t *rapid.T, st battle.State) {
	if st.ManaAvailable < 0 || st.ManaAvailable > st.ManaCapacity {
		t.Fatalf("mana %d outside [0, %d]", st.ManaAvailable, st.ManaCapacity)
	}
	if st.ManaCapacity < 1 || st.ManaCapacity > battle.MaxMana {
		t.Fatalf("mana capacity %d outside [1, %d]", st.ManaCapacity, battle.MaxMana)
	}
	if st.PlayerHP < 0 || st.PlayerHP > battle.MaxHP || st.OpponentHP < 0 || st.OpponentHP > battle.MaxHP {
		t.Fatalf("hp out of range: player %d opponent %d", st.PlayerHP, st.OpponentHP)
	}
	if len(st.Hand) > battle.MaxHandSize {
		t.Fatalf("hand size %d exceeds %d", len(st.Hand), battle.MaxHandSize)
	}
	if (st.PlayerHP == 0 || st.OpponentHP == 0) && st.Phase != battle.PhaseEnded {
		t.Fatalf("zero hp but phase %s", st.Phase)
	}
}

func TestEngine_InvariantsHoldForAnyActionSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		engine, err := battle.NewEngine(&battle.Config{
			ID:          "player",
			Roller:      rapidRoller{t: t},
			Rewarder:    &stubRewarder{},
			IDGenerator: idgen.NewSequential("id"),
			Pacer:       battle.ImmediatePacer{},
		})
		if err != nil {
			t.Fatal(err)
		}
		defer engine.Close()

		inventory := rapid.SliceOfN(itemGen(), 0, 8).Draw(t, "inventory")
		if _, err := engine.Start("opponent", inventory); err != nil {
			t.Fatal(err)
		}
		checkInvariants(t, engine.Snapshot())

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := engine.Snapshot()

			if rapid.Bool().Draw(t, "end_turn") {
				ok := engine.EndTurn()
				if ok != (before.Phase == battle.PhasePlayerTurn) {
					t.Fatalf("EndTurn returned %v in phase %s", ok, before.Phase)
				}
			} else if len(before.Hand) > 0 {
				card := before.Hand[rapid.IntRange(0, len(before.Hand)-1).Draw(t, "card")]
				ok := engine.PlayCard(card.InstanceID, rapid.IntRange(-1, 5).Draw(t, "position"))
				cost := max(card.Item.Cost(), 0)
				affordable := before.Phase == battle.PhasePlayerTurn && cost <= before.ManaAvailable
				if ok != affordable {
					t.Fatalf("PlayCard returned %v, affordable %v", ok, affordable)
				}
				if !ok {
					after := engine.Snapshot()
					if after.ManaAvailable != before.ManaAvailable || len(after.Hand) != len(before.Hand) {
						t.Fatalf("rejected play changed state")
					}
				}
			}

			after := engine.Snapshot()
			checkInvariants(t, after)
			if before.Phase == battle.PhaseEnded && after.TurnNumber != before.TurnNumber {
				t.Fatalf("ended battle advanced")
			}
		}

		first := engine.EndBattle(true)
		if second := engine.EndBattle(true); first != second {
			t.Fatalf("EndBattle not idempotent: %+v vs %+v", first, second)
		}
	})
}
