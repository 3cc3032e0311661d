// Package warriors is a demonstration contract for the object model: player
// owned Warrior characters, equippable Sword items, and a single shared
// Forge that counts every sword ever minted.
//
// Ownership rules the contract relies on: Warriors and Swords are owned by
// the player that minted them; the Forge is owned by the contract itself, so
// any sender may mint against it. While a sword is equipped it is held in
// contract custody and the occupied slot on the warrior records its ID, so a
// sword is referenced from exactly one place at any time.
package warriors

import (
	"errors"

	"github.com/mrathod05/SuiWarriors/core"
)

// DefaultStrength is the base strength every freshly minted warrior gets.
const DefaultStrength = uint64(10)

// Object field keys.
const (
	fieldName         = "name"
	fieldBaseStrength = "base_strength"
	fieldPower        = "power"
	fieldSwordsForged = "swords_forged"

	equipKeyPrefix = "equip:"
)

var (
	// ErrSlotOccupied is returned by Equip when the target slot already
	// holds a sword. The caller must unequip first or pick another slot.
	ErrSlotOccupied = errors.New("slot already occupied")
	// ErrInvalidSlot is returned by Unequip when the slot is empty.
	ErrInvalidSlot = errors.New("slot is empty")

	ErrNotOwner           = errors.New("sender does not own the object")
	ErrAlreadyInitialized = errors.New("forge already initialized")
	ErrNotInitialized     = errors.New("forge not initialized")
)

// ForgeID returns the deterministic object ID the Forge lives at. Pinning
// the singleton to a fixed ID lets any caller find it without an ID handoff
// and makes a second Initialize fail on creation.
func ForgeID() core.ObjectID {
	var id core.ObjectID
	copy(id[:], []byte("forge"))
	return id
}

func equipKey(slot string) string {
	return equipKeyPrefix + slot
}

// Initialize creates the shared Forge. It runs once, on deploy; a replayed
// call fails because the Forge object already exists at its fixed ID.
func Initialize(ctx core.Context) (core.ObjectID, error) {
	if _, err := ctx.GetObject(ForgeID()); err == nil {
		return core.ZeroObjectID, ErrAlreadyInitialized
	}

	forge := ctx.CreateObjectWithID(ForgeID())
	if err := forge.Set(fieldSwordsForged, uint64(0)); err != nil {
		return core.ZeroObjectID, err
	}

	// Share the forge: contract-owned objects are writable by any sender.
	forge.SetOwner(ctx.ContractAddress())

	ctx.Log("ForgeCreated",
		"id", forge.ID(),
		"creator", ctx.Sender())

	return forge.ID(), nil
}

// MintWarrior creates a new warrior owned by the sender.
func MintWarrior(ctx core.Context, name string) (core.ObjectID, error) {
	warrior := ctx.CreateObject()
	if err := warrior.Set(fieldName, name); err != nil {
		return core.ZeroObjectID, err
	}
	if err := warrior.Set(fieldBaseStrength, DefaultStrength); err != nil {
		return core.ZeroObjectID, err
	}
	warrior.SetOwner(ctx.Sender())

	ctx.Log("WarriorMinted",
		"id", warrior.ID(),
		"creator", ctx.Sender())

	return warrior.ID(), nil
}

// MintSword forges a new sword owned by the sender and bumps the forge
// counter. The counter is bookkeeping only; nothing reads it to gate
// minting.
func MintSword(ctx core.Context, forgeID core.ObjectID, name string, power uint64) (core.ObjectID, error) {
	forge, err := ctx.GetObject(forgeID)
	if err != nil {
		return core.ZeroObjectID, ErrNotInitialized
	}

	var forged uint64
	if err := forge.Get(fieldSwordsForged, &forged); err != nil {
		return core.ZeroObjectID, err
	}
	if err := forge.Set(fieldSwordsForged, forged+1); err != nil {
		return core.ZeroObjectID, err
	}

	sword := ctx.CreateObject()
	if err := sword.Set(fieldName, name); err != nil {
		return core.ZeroObjectID, err
	}
	if err := sword.Set(fieldPower, power); err != nil {
		return core.ZeroObjectID, err
	}
	sword.SetOwner(ctx.Sender())

	ctx.Log("SwordMinted",
		"id", sword.ID(),
		"name", name,
		"power", power,
		"creator", ctx.Sender())

	return sword.ID(), nil
}

// Equip moves a sender-owned sword into a slot on a sender-owned warrior.
// The slot must be empty; equipping never overwrites. The sword keeps its
// identity and attributes, only its ownership moves.
func Equip(ctx core.Context, warriorID core.ObjectID, slot string, swordID core.ObjectID) error {
	warrior, err := ctx.GetObject(warriorID)
	if err != nil {
		return err
	}
	if warrior.Owner() != ctx.Sender() {
		return ErrNotOwner
	}

	equipped, err := equippedSword(warrior, slot)
	if err != nil {
		return err
	}
	if equipped != core.ZeroObjectID {
		return ErrSlotOccupied
	}

	sword, err := ctx.GetObject(swordID)
	if err != nil {
		return err
	}
	if sword.Owner() != ctx.Sender() {
		return ErrNotOwner
	}

	// All checks passed; now relocate. The slot records the sword and the
	// sword itself moves into contract custody until unequipped.
	if err := warrior.Set(equipKey(slot), swordID); err != nil {
		return err
	}
	sword.SetOwner(ctx.ContractAddress())

	ctx.Log("SwordEquipped",
		"warrior", warriorID,
		"slot", slot,
		"sword", swordID)

	return nil
}

// Unequip moves the sword out of the slot and back to the sender.
func Unequip(ctx core.Context, warriorID core.ObjectID, slot string) (core.ObjectID, error) {
	warrior, err := ctx.GetObject(warriorID)
	if err != nil {
		return core.ZeroObjectID, err
	}
	if warrior.Owner() != ctx.Sender() {
		return core.ZeroObjectID, ErrNotOwner
	}

	equipped, err := equippedSword(warrior, slot)
	if err != nil {
		return core.ZeroObjectID, err
	}
	if equipped == core.ZeroObjectID {
		return core.ZeroObjectID, ErrInvalidSlot
	}

	sword, err := ctx.GetObject(equipped)
	if err != nil {
		return core.ZeroObjectID, err
	}

	if err := warrior.Set(equipKey(slot), core.ZeroObjectID); err != nil {
		return core.ZeroObjectID, err
	}
	sword.SetOwner(ctx.Sender())

	ctx.Log("SwordUnequipped",
		"warrior", warriorID,
		"slot", slot,
		"sword", equipped)

	return equipped, nil
}

// FightMonster compares the warrior's total power against the monster. An
// empty slot is not an error, it just adds no bonus. Pure read, any sender
// may call it on any warrior.
func FightMonster(ctx core.Context, warriorID core.ObjectID, slot string, monsterPower uint64) (bool, error) {
	warrior, err := ctx.GetObject(warriorID)
	if err != nil {
		return false, err
	}

	var strength uint64
	if err := warrior.Get(fieldBaseStrength, &strength); err != nil {
		return false, err
	}

	total := strength
	equipped, err := equippedSword(warrior, slot)
	if err != nil {
		return false, err
	}
	if equipped != core.ZeroObjectID {
		sword, err := ctx.GetObject(equipped)
		if err != nil {
			return false, err
		}
		var power uint64
		if err := sword.Get(fieldPower, &power); err != nil {
			return false, err
		}
		total += power
	}

	return total >= monsterPower, nil
}

// SwordsForged reads the forge counter.
func SwordsForged(ctx core.Context, forgeID core.ObjectID) (uint64, error) {
	forge, err := ctx.GetObject(forgeID)
	if err != nil {
		return 0, ErrNotInitialized
	}

	var forged uint64
	if err := forge.Get(fieldSwordsForged, &forged); err != nil {
		return 0, err
	}
	return forged, nil
}

// EquippedSword returns the sword occupying a slot, or the zero ID when the
// slot is empty.
func EquippedSword(ctx core.Context, warriorID core.ObjectID, slot string) (core.ObjectID, error) {
	warrior, err := ctx.GetObject(warriorID)
	if err != nil {
		return core.ZeroObjectID, err
	}
	return equippedSword(warrior, slot)
}

// WarriorView is the read model returned by WarriorInfo.
type WarriorView struct {
	ID           core.ObjectID `json:"id"`
	Owner        core.Address  `json:"owner"`
	Name         string        `json:"name"`
	BaseStrength uint64        `json:"base_strength"`
}

// WarriorInfo returns a warrior's attributes.
func WarriorInfo(ctx core.Context, warriorID core.ObjectID) (*WarriorView, error) {
	warrior, err := ctx.GetObject(warriorID)
	if err != nil {
		return nil, err
	}

	view := &WarriorView{
		ID:    warrior.ID(),
		Owner: warrior.Owner(),
	}
	if err := warrior.Get(fieldName, &view.Name); err != nil {
		return nil, err
	}
	if err := warrior.Get(fieldBaseStrength, &view.BaseStrength); err != nil {
		return nil, err
	}
	return view, nil
}

// equippedSword reads a slot field. A missing field and a stored zero ID
// both mean the slot is empty.
func equippedSword(warrior core.Object, slot string) (core.ObjectID, error) {
	var equipped core.ObjectID
	err := warrior.Get(equipKey(slot), &equipped)
	if errors.Is(err, core.ErrFieldNotFound) {
		return core.ZeroObjectID, nil
	}
	if err != nil {
		return core.ZeroObjectID, err
	}
	return equipped, nil
}
