// Package memory provides an in-memory BlockchainContext, used by tests and
// by the CLI when no persistence is wanted.
package memory

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrathod05/SuiWarriors/context"
	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/types"
)

// blockchainContext implements types.BlockchainContext with plain maps.
// A single mutex serializes all state access, which is what makes shared
// objects (one object mutated by many senders) safe here.
type blockchainContext struct {
	// Block information
	blockHeight uint64
	blockTime   int64
	blockHash   core.Hash

	// Account balances
	balances map[types.Address]uint64

	// Object storage
	objects        map[core.ObjectID]map[string][]byte
	objectOwner    map[core.ObjectID]core.Address
	objectContract map[core.ObjectID]core.Address

	// Emitted events, in order
	events []types.Event

	// Current execution context
	contractAddr types.Address
	sender       types.Address
	txHash       core.Hash
	nonce        uint64
	mu           sync.Mutex
}

func init() {
	context.Register(context.MemoryContextType, NewBlockchainContext)
}

// NewBlockchainContext creates an empty in-memory blockchain context.
// It takes no parameters; the params argument exists to satisfy the
// registry constructor signature.
func NewBlockchainContext(params map[string]any) types.BlockchainContext {
	return &blockchainContext{
		balances:       make(map[types.Address]uint64),
		objects:        make(map[core.ObjectID]map[string][]byte),
		objectOwner:    make(map[core.ObjectID]core.Address),
		objectContract: make(map[core.ObjectID]core.Address),
	}
}

func (ctx *blockchainContext) SetBlockInfo(height uint64, time int64, hash core.Hash) error {
	ctx.blockHeight = height
	ctx.blockTime = time
	ctx.blockHash = hash
	return nil
}

func (ctx *blockchainContext) SetTransactionInfo(hash core.Hash, from types.Address, to types.Address, value uint64) error {
	ctx.txHash = hash
	ctx.sender = from
	ctx.contractAddr = to
	return nil
}

// BlockHeight gets the current block height
func (ctx *blockchainContext) BlockHeight() uint64 {
	return ctx.blockHeight
}

// BlockTime gets the current block timestamp
func (ctx *blockchainContext) BlockTime() int64 {
	return ctx.blockTime
}

// ContractAddress gets the current contract address
func (ctx *blockchainContext) ContractAddress() types.Address {
	return ctx.contractAddr
}

// TransactionHash gets the current transaction hash
func (ctx *blockchainContext) TransactionHash() core.Hash {
	return ctx.txHash
}

// Sender gets the transaction sender
func (ctx *blockchainContext) Sender() types.Address {
	return ctx.sender
}

// Balance gets the account balance
func (ctx *blockchainContext) Balance(addr types.Address) uint64 {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.balances[addr]
}

// SetBalance sets an account balance directly. Used by genesis loading only.
func (ctx *blockchainContext) SetBalance(addr types.Address, amount uint64) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.balances[addr] = amount
	return nil
}

// Transfer moves funds between accounts
func (ctx *blockchainContext) Transfer(contract types.Address, from, to types.Address, amount uint64) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	fromBalance := ctx.balances[from]
	if fromBalance < amount {
		return errors.New("insufficient balance")
	}

	ctx.balances[from] -= amount
	ctx.balances[to] += amount
	return nil
}

// CreateObject creates a new object owned by the current sender
func (ctx *blockchainContext) CreateObject(contract types.Address) (types.VMObject, error) {
	ctx.mu.Lock()
	id := ctx.generateObjectID(contract, ctx.sender)
	ctx.mu.Unlock()
	return ctx.CreateObjectWithID(contract, id)
}

// CreateObjectWithID creates a new object at a caller-chosen ID. Creating an
// object at an occupied ID is an error; deterministic IDs rely on this to
// make re-initialization attempts fail.
func (ctx *blockchainContext) CreateObjectWithID(contract types.Address, id types.ObjectID) (types.VMObject, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if _, exists := ctx.objects[id]; exists {
		return nil, fmt.Errorf("object %s already exists", id)
	}
	ctx.objects[id] = make(map[string][]byte)
	ctx.objectOwner[id] = ctx.sender
	ctx.objectContract[id] = contract

	return &vmObject{
		ctx:         ctx,
		objOwner:    ctx.sender,
		objContract: contract,
		id:          id,
	}, nil
}

// generateObjectID derives a fresh object ID from the current transaction
func (ctx *blockchainContext) generateObjectID(contract types.Address, sender types.Address) core.ObjectID {
	ctx.nonce++
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s-%d", contract, sender, ctx.txHash, ctx.nonce)))
	var id core.ObjectID
	copy(id[:], hash[:])
	return id
}

// GetObject gets a specified object
func (ctx *blockchainContext) GetObject(contract types.Address, id core.ObjectID) (types.VMObject, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if _, exists := ctx.objects[id]; !exists {
		return nil, core.ErrObjectNotFound
	}
	// Objects are scoped to their contract, matching the db backend.
	if ctx.objectContract[id] != contract {
		return nil, core.ErrObjectNotFound
	}

	return &vmObject{
		ctx:         ctx,
		objOwner:    ctx.objectOwner[id],
		objContract: ctx.objectContract[id],
		id:          id,
	}, nil
}

// GetObjectWithOwner gets an object by owner
func (ctx *blockchainContext) GetObjectWithOwner(contract, owner types.Address) (types.VMObject, error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	for id, objOwner := range ctx.objectOwner {
		if objOwner == owner && ctx.objectContract[id] == contract {
			return &vmObject{
				ctx:         ctx,
				objOwner:    objOwner,
				objContract: contract,
				id:          id,
			}, nil
		}
	}
	return nil, core.ErrObjectNotFound
}

// DeleteObject deletes an object
func (ctx *blockchainContext) DeleteObject(contract types.Address, id core.ObjectID) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	delete(ctx.objects, id)
	delete(ctx.objectOwner, id)
	delete(ctx.objectContract, id)
	return nil
}

// Log records an event in memory and mirrors it to slog
func (ctx *blockchainContext) Log(contract types.Address, eventName string, keyValues ...any) {
	ctx.mu.Lock()
	ctx.events = append(ctx.events, types.Event{
		Contract:  contract,
		Name:      eventName,
		KeyValues: keyValues,
	})
	ctx.mu.Unlock()

	params := []any{
		"contract", contract,
		"event", eventName,
	}
	params = append(params, keyValues...)
	slog.Info("Contract event", params...)
}

// Events returns the events emitted so far, oldest first.
func (ctx *blockchainContext) Events() []types.Event {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	out := make([]types.Event, len(ctx.events))
	copy(out, ctx.events)
	return out
}

// memorySnapshot captures the full mutable state of the context.
type memorySnapshot struct {
	balances       map[types.Address]uint64
	objects        map[core.ObjectID]map[string][]byte
	objectOwner    map[core.ObjectID]core.Address
	objectContract map[core.ObjectID]core.Address
	events         []types.Event
	nonce          uint64
}

// Snapshot implements types.Snapshotter.
func (ctx *blockchainContext) Snapshot() any {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	snap := &memorySnapshot{
		balances:       make(map[types.Address]uint64, len(ctx.balances)),
		objects:        make(map[core.ObjectID]map[string][]byte, len(ctx.objects)),
		objectOwner:    make(map[core.ObjectID]core.Address, len(ctx.objectOwner)),
		objectContract: make(map[core.ObjectID]core.Address, len(ctx.objectContract)),
		events:         make([]types.Event, len(ctx.events)),
		nonce:          ctx.nonce,
	}
	for addr, amount := range ctx.balances {
		snap.balances[addr] = amount
	}
	for id, fields := range ctx.objects {
		cloned := make(map[string][]byte, len(fields))
		for k, v := range fields {
			cloned[k] = v
		}
		snap.objects[id] = cloned
	}
	for id, owner := range ctx.objectOwner {
		snap.objectOwner[id] = owner
	}
	for id, contract := range ctx.objectContract {
		snap.objectContract[id] = contract
	}
	copy(snap.events, ctx.events)
	return snap
}

// Commit implements types.Snapshotter. The snapshot is a detached copy, so
// committing just discards it.
func (ctx *blockchainContext) Commit(snapshot any) {}

// Restore implements types.Snapshotter.
func (ctx *blockchainContext) Restore(snapshot any) {
	snap, ok := snapshot.(*memorySnapshot)
	if !ok {
		return
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.balances = snap.balances
	ctx.objects = snap.objects
	ctx.objectOwner = snap.objectOwner
	ctx.objectContract = snap.objectContract
	ctx.events = snap.events
	ctx.nonce = snap.nonce
}

func (ctx *blockchainContext) setObjectField(id core.ObjectID, field string, value []byte) {
	obj, exists := ctx.objects[id]
	if !exists {
		obj = make(map[string][]byte)
	}
	obj[field] = value
	ctx.objects[id] = obj
}

func (ctx *blockchainContext) getObjectField(id core.ObjectID, field string) []byte {
	obj, exists := ctx.objects[id]
	if !exists {
		return nil
	}
	return obj[field]
}

// vmObject implements the object interface
type vmObject struct {
	ctx         *blockchainContext
	objOwner    types.Address
	objContract types.Address
	id          core.ObjectID
}

// ID gets the object ID
func (o *vmObject) ID() core.ObjectID {
	return o.id
}

// Owner gets the object owner
func (o *vmObject) Owner() types.Address {
	return o.objOwner
}

// Contract gets the object's contract
func (o *vmObject) Contract() types.Address {
	return o.objContract
}

// SetOwner sets the object owner
func (o *vmObject) SetOwner(contract, sender types.Address, addr types.Address) error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if contract != o.objContract {
		return fmt.Errorf("invalid contract")
	}
	if sender != o.objOwner && contract != o.objOwner {
		return fmt.Errorf("not owner")
	}
	o.objOwner = addr
	o.ctx.objectOwner[o.id] = addr
	return nil
}

// Get gets the field value
func (o *vmObject) Get(contract types.Address, field string) ([]byte, error) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if contract != o.objContract {
		return nil, fmt.Errorf("invalid contract")
	}
	fieldValue := o.ctx.getObjectField(o.id, field)
	if fieldValue == nil {
		return nil, core.ErrFieldNotFound
	}

	return fieldValue, nil
}

// Set sets the field value
func (o *vmObject) Set(contract types.Address, sender types.Address, field string, value []byte) error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	if contract != o.objContract {
		return fmt.Errorf("invalid contract")
	}
	if sender != o.objOwner && contract != o.objOwner {
		return fmt.Errorf("not owner")
	}
	o.ctx.setObjectField(o.id, field, value)
	return nil
}
