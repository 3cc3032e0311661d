package warriors

import (
	"encoding/json"
	"fmt"

	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/vm"
)

// Parameter structs for the engine boundary. Call arguments arrive as JSON.

type MintWarriorParams struct {
	Name string `json:"name,omitempty"`
}

type MintSwordParams struct {
	Forge core.ObjectID `json:"forge,omitempty"`
	Name  string        `json:"name,omitempty"`
	Power uint64        `json:"power,omitempty"`
}

type EquipParams struct {
	Warrior core.ObjectID `json:"warrior,omitempty"`
	Slot    string        `json:"slot,omitempty"`
	Sword   core.ObjectID `json:"sword,omitempty"`
}

type UnequipParams struct {
	Warrior core.ObjectID `json:"warrior,omitempty"`
	Slot    string        `json:"slot,omitempty"`
}

type FightMonsterParams struct {
	Warrior      core.ObjectID `json:"warrior,omitempty"`
	Slot         string        `json:"slot,omitempty"`
	MonsterPower uint64        `json:"monster_power,omitempty"`
}

type SwordsForgedParams struct {
	Forge core.ObjectID `json:"forge,omitempty"`
}

type EquippedSwordParams struct {
	Warrior core.ObjectID `json:"warrior,omitempty"`
	Slot    string        `json:"slot,omitempty"`
}

type WarriorInfoParams struct {
	Warrior core.ObjectID `json:"warrior,omitempty"`
}

func handleInitialize(ctx core.Context, params []byte) (any, error) {
	return Initialize(ctx)
}

func handleMintWarrior(ctx core.Context, params []byte) (any, error) {
	var args MintWarriorParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return MintWarrior(ctx, args.Name)
}

func handleMintSword(ctx core.Context, params []byte) (any, error) {
	var args MintSwordParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return MintSword(ctx, args.Forge, args.Name, args.Power)
}

func handleEquip(ctx core.Context, params []byte) (any, error) {
	var args EquipParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return nil, Equip(ctx, args.Warrior, args.Slot, args.Sword)
}

func handleUnequip(ctx core.Context, params []byte) (any, error) {
	var args UnequipParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return Unequip(ctx, args.Warrior, args.Slot)
}

func handleFightMonster(ctx core.Context, params []byte) (any, error) {
	var args FightMonsterParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return FightMonster(ctx, args.Warrior, args.Slot, args.MonsterPower)
}

func handleSwordsForged(ctx core.Context, params []byte) (any, error) {
	var args SwordsForgedParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return SwordsForged(ctx, args.Forge)
}

func handleEquippedSword(ctx core.Context, params []byte) (any, error) {
	var args EquippedSwordParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return EquippedSword(ctx, args.Warrior, args.Slot)
}

func handleWarriorInfo(ctx core.Context, params []byte) (any, error) {
	var args WarriorInfoParams
	if err := unmarshalParams(params, &args); err != nil {
		return nil, err
	}
	return WarriorInfo(ctx, args.Warrior)
}

func unmarshalParams(params []byte, into any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, into); err != nil {
		return fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return nil
}

// Contract wires the handlers for engine deployment. Initialize is the
// constructor, so it only runs on deploy and cannot be replayed through
// Execute.
func Contract() *vm.Contract {
	return &vm.Contract{
		Constructor: handleInitialize,
		Handlers: map[string]vm.HandlerFunc{
			"MintWarrior":   handleMintWarrior,
			"MintSword":     handleMintSword,
			"Equip":         handleEquip,
			"Unequip":       handleUnequip,
			"FightMonster":  handleFightMonster,
			"SwordsForged":  handleSwordsForged,
			"EquippedSword": handleEquippedSword,
			"WarriorInfo":   handleWarriorInfo,
		},
	}
}
