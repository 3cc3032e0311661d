package warriors

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mrathod05/SuiWarriors/context/db"
	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/vm"
)

func setupEngine(t *testing.T) *vm.Engine {
	return setupEngineWith(t, &vm.Config{ContextType: "memory"})
}

// setupDBEngine deploys against a fresh sqlite file, exercising the same
// persistence path the CLI runs on.
func setupDBEngine(t *testing.T) *vm.Engine {
	return setupEngineWith(t, &vm.Config{
		ContextType:   "db",
		ContextParams: map[string]any{"db_path": filepath.Join(t.TempDir(), "warriors.db")},
	})
}

func setupEngineWith(t *testing.T, config *vm.Config) *vm.Engine {
	engine, err := vm.NewEngine(config)
	require.NoError(t, err)

	ctx := engine.GetContext()
	require.NoError(t, ctx.SetBlockInfo(1, 1700000000, core.HashFromString("0xb10c")))
	require.NoError(t, ctx.SetTransactionInfo(core.GetHash([]byte("deploy")), deployer, contractAddr, 0))

	forgeID, err := engine.Deploy(contractAddr, Contract(), nil)
	require.NoError(t, err)
	assert.Equal(t, ForgeID(), forgeID)

	return engine
}

func call(t *testing.T, engine *vm.Engine, sender core.Address, function string, args any) (any, error) {
	var params []byte
	if args != nil {
		var err error
		params, err = json.Marshal(args)
		require.NoError(t, err)
	}

	// A fresh transaction per call; the hash covers the arguments so two
	// different calls never replay the same transaction.
	ctx := engine.GetContext()
	txHash := core.GetHash([]byte(fmt.Sprintf("tx-%s-%s-%s", sender, function, params)))
	require.NoError(t, ctx.SetTransactionInfo(txHash, sender, contractAddr, 0))

	return engine.Execute(contractAddr, function, params)
}

func TestContractThroughEngine(t *testing.T) {
	engine := setupEngine(t)

	result, err := call(t, engine, player, "MintWarrior", MintWarriorParams{Name: "Conan"})
	require.NoError(t, err)
	warriorID, ok := result.(core.ObjectID)
	require.True(t, ok)

	result, err = call(t, engine, player, "MintSword", MintSwordParams{
		Forge: ForgeID(),
		Name:  "Longsword",
		Power: 50,
	})
	require.NoError(t, err)
	swordID, ok := result.(core.ObjectID)
	require.True(t, ok)

	_, err = call(t, engine, player, "Equip", EquipParams{
		Warrior: warriorID,
		Slot:    "main_hand",
		Sword:   swordID,
	})
	require.NoError(t, err)

	result, err = call(t, engine, player, "FightMonster", FightMonsterParams{
		Warrior:      warriorID,
		Slot:         "main_hand",
		MonsterPower: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = call(t, engine, player, "FightMonster", FightMonsterParams{
		Warrior:      warriorID,
		Slot:         "main_hand",
		MonsterPower: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, false, result)

	result, err = call(t, engine, player, "SwordsForged", SwordsForgedParams{Forge: ForgeID()})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result)
}

func TestSnakeCaseCallNames(t *testing.T) {
	engine := setupEngine(t)

	result, err := call(t, engine, player, "mint_warrior", MintWarriorParams{Name: "Red Sonja"})
	require.NoError(t, err)
	warriorID, ok := result.(core.ObjectID)
	require.True(t, ok)

	result, err = call(t, engine, player, "warrior_info", WarriorInfoParams{Warrior: warriorID})
	require.NoError(t, err)
	view, ok := result.(*WarriorView)
	require.True(t, ok)
	assert.Equal(t, "Red Sonja", view.Name)
	assert.Equal(t, DefaultStrength, view.BaseStrength)
}

func TestInitializeNotCallable(t *testing.T) {
	engine := setupEngine(t)

	// The constructor is not an executable function, so the one-time
	// initialization cannot be replayed through a call.
	_, err := call(t, engine, rival, "Initialize", nil)
	assert.ErrorIs(t, err, core.ErrFunctionNotFound)

	// Neither can the contract be deployed again
	_, err = engine.Deploy(contractAddr, Contract(), nil)
	assert.Error(t, err)
}

func TestFailedEquipLeavesNoTrace(t *testing.T) {
	engine := setupEngine(t)

	result, err := call(t, engine, player, "MintWarrior", MintWarriorParams{Name: "Conan"})
	require.NoError(t, err)
	warriorID := result.(core.ObjectID)

	result, err = call(t, engine, player, "MintSword", MintSwordParams{Forge: ForgeID(), Name: "Longsword", Power: 50})
	require.NoError(t, err)
	first := result.(core.ObjectID)
	result, err = call(t, engine, player, "MintSword", MintSwordParams{Forge: ForgeID(), Name: "Dagger", Power: 5})
	require.NoError(t, err)
	second := result.(core.ObjectID)

	_, err = call(t, engine, player, "Equip", EquipParams{Warrior: warriorID, Slot: "main_hand", Sword: first})
	require.NoError(t, err)

	_, err = call(t, engine, player, "Equip", EquipParams{Warrior: warriorID, Slot: "main_hand", Sword: second})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// The rejected sword is still caller-owned and the slot still holds
	// the first one
	result, err = call(t, engine, player, "EquippedSword", EquippedSwordParams{Warrior: warriorID, Slot: "main_hand"})
	require.NoError(t, err)
	assert.Equal(t, first, result)

	sword, err := engine.GetContext().GetObject(contractAddr, second)
	require.NoError(t, err)
	assert.Equal(t, player, sword.Owner())
}

func TestReplayedMintLeavesNoCounterGap(t *testing.T) {
	engine := setupDBEngine(t)
	ctx := engine.GetContext()

	params, err := json.Marshal(MintSwordParams{Forge: ForgeID(), Name: "Longsword", Power: 50})
	require.NoError(t, err)

	// The same transaction hash twice, as a replayed call would carry. The
	// second call regenerates the first sword's object ID and must fail.
	txHash := core.GetHash([]byte("replayed-tx"))
	require.NoError(t, ctx.SetTransactionInfo(txHash, player, contractAddr, 0))
	_, err = engine.Execute(contractAddr, "MintSword", params)
	require.NoError(t, err)

	require.NoError(t, ctx.SetTransactionInfo(txHash, player, contractAddr, 0))
	_, err = engine.Execute(contractAddr, "MintSword", params)
	assert.ErrorIs(t, err, core.ErrExecutionReverted)

	// The failed call's counter increment was rolled back: one sword minted,
	// counter reads 1
	result, err := call(t, engine, player, "SwordsForged", SwordsForgedParams{Forge: ForgeID()})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result)
}

func TestFailedCallLeavesNoStateDB(t *testing.T) {
	engine := setupDBEngine(t)

	result, err := call(t, engine, player, "MintWarrior", MintWarriorParams{Name: "Conan"})
	require.NoError(t, err)
	warriorID := result.(core.ObjectID)

	result, err = call(t, engine, player, "MintSword", MintSwordParams{Forge: ForgeID(), Name: "Longsword", Power: 50})
	require.NoError(t, err)
	first := result.(core.ObjectID)
	result, err = call(t, engine, player, "MintSword", MintSwordParams{Forge: ForgeID(), Name: "Dagger", Power: 5})
	require.NoError(t, err)
	second := result.(core.ObjectID)

	_, err = call(t, engine, player, "Equip", EquipParams{Warrior: warriorID, Slot: "main_hand", Sword: first})
	require.NoError(t, err)

	_, err = call(t, engine, player, "Equip", EquipParams{Warrior: warriorID, Slot: "main_hand", Sword: second})
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// Nothing from the failed equip persisted
	result, err = call(t, engine, player, "EquippedSword", EquippedSwordParams{Warrior: warriorID, Slot: "main_hand"})
	require.NoError(t, err)
	assert.Equal(t, first, result)

	sword, err := engine.GetContext().GetObject(contractAddr, second)
	require.NoError(t, err)
	assert.Equal(t, player, sword.Owner())
}
