package warriors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrathod05/SuiWarriors/context/memory"
	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/types"
	"github.com/mrathod05/SuiWarriors/vm"
)

var (
	contractAddr = core.AddressFromString("ca11ab1e00000000000000000000000000000001")
	deployer     = core.AddressFromString("de9107e400000000000000000000000000000001")
	player       = core.AddressFromString("a11ce00000000000000000000000000000000001")
	rival        = core.AddressFromString("b0b0000000000000000000000000000000000002")
)

// eventSink exposes the memory backend's recorded events.
type eventSink interface {
	Events() []types.Event
}

func newTestChain(t *testing.T) types.BlockchainContext {
	bctx := memory.NewBlockchainContext(nil)
	require.NoError(t, bctx.SetBlockInfo(1, 1700000000, core.HashFromString("0xb10c")))
	return bctx
}

// as starts a new transaction from the given sender and returns a contract
// context bound to it.
func as(t *testing.T, bctx types.BlockchainContext, sender core.Address) core.Context {
	txHash := core.GetHash([]byte(fmt.Sprintf("tx-%s", sender)))
	require.NoError(t, bctx.SetTransactionInfo(txHash, sender, contractAddr, 0))
	return vm.NewExecutionContext(bctx, contractAddr, sender)
}

// setupForge initializes the contract and returns the chain plus forge ID.
func setupForge(t *testing.T) (types.BlockchainContext, core.ObjectID) {
	bctx := newTestChain(t)
	forgeID, err := Initialize(as(t, bctx, deployer))
	require.NoError(t, err)
	return bctx, forgeID
}

func findEvent(t *testing.T, bctx types.BlockchainContext, name string) types.Event {
	sink, ok := bctx.(eventSink)
	require.True(t, ok, "memory backend expected")
	for _, event := range sink.Events() {
		if event.Name == name {
			return event
		}
	}
	t.Fatalf("event %s not emitted", name)
	return types.Event{}
}

func TestInitialize(t *testing.T) {
	bctx, forgeID := setupForge(t)

	assert.Equal(t, ForgeID(), forgeID)

	// The forge is shared: owned by the contract itself
	forge, err := bctx.GetObject(contractAddr, forgeID)
	require.NoError(t, err)
	assert.Equal(t, contractAddr, forge.Owner())

	forged, err := SwordsForged(as(t, bctx, player), forgeID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), forged)

	event := findEvent(t, bctx, "ForgeCreated")
	assert.Equal(t, contractAddr, event.Contract)
}

func TestInitializeOnce(t *testing.T) {
	bctx, _ := setupForge(t)

	_, err := Initialize(as(t, bctx, deployer))
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// A different sender cannot re-initialize either
	_, err = Initialize(as(t, bctx, rival))
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestMintWarriorDefaults(t *testing.T) {
	bctx, _ := setupForge(t)
	ctx := as(t, bctx, player)

	warriorID, err := MintWarrior(ctx, "Conan")
	require.NoError(t, err)

	view, err := WarriorInfo(ctx, warriorID)
	require.NoError(t, err)
	assert.Equal(t, "Conan", view.Name)
	assert.Equal(t, DefaultStrength, view.BaseStrength)
	assert.Equal(t, player, view.Owner)

	event := findEvent(t, bctx, "WarriorMinted")
	assert.Equal(t, []any{"id", warriorID, "creator", player}, event.KeyValues)
}

func TestForgeCounterMonotonic(t *testing.T) {
	bctx, forgeID := setupForge(t)

	ctx := as(t, bctx, player)
	_, err := MintSword(ctx, forgeID, "Longsword", 50)
	require.NoError(t, err)
	_, err = MintSword(ctx, forgeID, "Dagger", 5)
	require.NoError(t, err)

	// The forge is shared, so another sender mints against the same counter
	_, err = MintSword(as(t, bctx, rival), forgeID, "Axe", 30)
	require.NoError(t, err)

	forged, err := SwordsForged(as(t, bctx, player), forgeID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), forged)
}

func TestMintSwordRequiresForge(t *testing.T) {
	bctx := newTestChain(t)
	ctx := as(t, bctx, player)

	_, err := MintSword(ctx, ForgeID(), "Longsword", 50)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEquipUnequip(t *testing.T) {
	bctx, forgeID := setupForge(t)
	ctx := as(t, bctx, player)

	warriorID, err := MintWarrior(ctx, "Conan")
	require.NoError(t, err)
	swordID, err := MintSword(ctx, forgeID, "Longsword", 50)
	require.NoError(t, err)

	require.NoError(t, Equip(ctx, warriorID, "main_hand", swordID))

	// The slot records the sword and the sword is in contract custody
	equipped, err := EquippedSword(ctx, warriorID, "main_hand")
	require.NoError(t, err)
	assert.Equal(t, swordID, equipped)

	sword, err := bctx.GetObject(contractAddr, swordID)
	require.NoError(t, err)
	assert.Equal(t, contractAddr, sword.Owner())

	// Unequip hands the same sword back to the caller
	returned, err := Unequip(ctx, warriorID, "main_hand")
	require.NoError(t, err)
	assert.Equal(t, swordID, returned)

	sword, err = bctx.GetObject(contractAddr, swordID)
	require.NoError(t, err)
	assert.Equal(t, player, sword.Owner())

	equipped, err = EquippedSword(ctx, warriorID, "main_hand")
	require.NoError(t, err)
	assert.Equal(t, core.ZeroObjectID, equipped)
}

func TestEquipOccupiedSlot(t *testing.T) {
	bctx, forgeID := setupForge(t)
	ctx := as(t, bctx, player)

	warriorID, err := MintWarrior(ctx, "Conan")
	require.NoError(t, err)
	first, err := MintSword(ctx, forgeID, "Longsword", 50)
	require.NoError(t, err)
	second, err := MintSword(ctx, forgeID, "Dagger", 5)
	require.NoError(t, err)

	require.NoError(t, Equip(ctx, warriorID, "main_hand", first))

	err = Equip(ctx, warriorID, "main_hand", second)
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// The equipped sword is untouched and the incoming sword never moved
	equipped, err := EquippedSword(ctx, warriorID, "main_hand")
	require.NoError(t, err)
	assert.Equal(t, first, equipped)

	sword, err := bctx.GetObject(contractAddr, second)
	require.NoError(t, err)
	assert.Equal(t, player, sword.Owner())
}

func TestEquipRequiresOwnership(t *testing.T) {
	bctx, forgeID := setupForge(t)

	playerCtx := as(t, bctx, player)
	warriorID, err := MintWarrior(playerCtx, "Conan")
	require.NoError(t, err)
	playerSword, err := MintSword(playerCtx, forgeID, "Longsword", 50)
	require.NoError(t, err)

	rivalCtx := as(t, bctx, rival)
	rivalSword, err := MintSword(rivalCtx, forgeID, "Axe", 30)
	require.NoError(t, err)

	// A rival cannot equip someone else's warrior
	err = Equip(rivalCtx, warriorID, "main_hand", rivalSword)
	assert.ErrorIs(t, err, ErrNotOwner)

	// The owner cannot equip a sword they do not own
	playerCtx = as(t, bctx, player)
	err = Equip(playerCtx, warriorID, "main_hand", rivalSword)
	assert.ErrorIs(t, err, ErrNotOwner)

	// Their own sword still works
	require.NoError(t, Equip(playerCtx, warriorID, "main_hand", playerSword))
}

func TestUnequipEmptySlot(t *testing.T) {
	bctx, _ := setupForge(t)
	ctx := as(t, bctx, player)

	warriorID, err := MintWarrior(ctx, "Conan")
	require.NoError(t, err)

	_, err = Unequip(ctx, warriorID, "main_hand")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestFightMonster(t *testing.T) {
	bctx, forgeID := setupForge(t)
	ctx := as(t, bctx, player)

	warriorID, err := MintWarrior(ctx, "Conan")
	require.NoError(t, err)
	swordID, err := MintSword(ctx, forgeID, "Longsword", 50)
	require.NoError(t, err)

	// Empty slot: only base strength counts, and an empty slot is no error
	win, err := FightMonster(ctx, warriorID, "main_hand", 10)
	require.NoError(t, err)
	assert.True(t, win)

	win, err = FightMonster(ctx, warriorID, "main_hand", 11)
	require.NoError(t, err)
	assert.False(t, win)

	require.NoError(t, Equip(ctx, warriorID, "main_hand", swordID))

	// base 10 + power 50 = 60
	win, err = FightMonster(ctx, warriorID, "main_hand", 40)
	require.NoError(t, err)
	assert.True(t, win)

	win, err = FightMonster(ctx, warriorID, "main_hand", 60)
	require.NoError(t, err)
	assert.True(t, win)

	win, err = FightMonster(ctx, warriorID, "main_hand", 80)
	require.NoError(t, err)
	assert.False(t, win)

	// Pure read: repeating the call yields the same outcome
	again, err := FightMonster(ctx, warriorID, "main_hand", 80)
	require.NoError(t, err)
	assert.Equal(t, win, again)

	// A sword in another slot adds nothing to this one
	win, err = FightMonster(ctx, warriorID, "off_hand", 11)
	require.NoError(t, err)
	assert.False(t, win)
}

func TestUnequipReequipRestoresTotal(t *testing.T) {
	bctx, forgeID := setupForge(t)
	ctx := as(t, bctx, player)

	warriorID, err := MintWarrior(ctx, "Conan")
	require.NoError(t, err)
	swordID, err := MintSword(ctx, forgeID, "Longsword", 50)
	require.NoError(t, err)

	require.NoError(t, Equip(ctx, warriorID, "main_hand", swordID))
	before, err := FightMonster(ctx, warriorID, "main_hand", 60)
	require.NoError(t, err)
	assert.True(t, before)

	returned, err := Unequip(ctx, warriorID, "main_hand")
	require.NoError(t, err)
	require.NoError(t, Equip(ctx, warriorID, "main_hand", returned))

	after, err := FightMonster(ctx, warriorID, "main_hand", 60)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// The boundary is unchanged too
	win, err := FightMonster(ctx, warriorID, "main_hand", 61)
	require.NoError(t, err)
	assert.False(t, win)
}
