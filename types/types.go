// Package types contains the host-side interfaces and shared call structures
// used by the execution engine and the blockchain context implementations.
package types

import (
	"github.com/mrathod05/SuiWarriors/core"
)

// Aliases so host code and contract code agree on the wire types.
type (
	Address  = core.Address
	ObjectID = core.ObjectID
	Hash     = core.Hash
)

// BlockchainContext is the host-side state interface the engine executes
// against. Unlike core.Context it is not bound to a contract or sender;
// every call carries the contract address explicitly so the context can
// enforce per-contract isolation.
type BlockchainContext interface {
	// Block and transaction scoping
	SetBlockInfo(height uint64, time int64, hash Hash) error
	SetTransactionInfo(hash Hash, from Address, to Address, value uint64) error

	// Blockchain information
	BlockHeight() uint64
	BlockTime() int64
	ContractAddress() Address
	TransactionHash() Hash

	// Account operations
	Sender() Address
	Balance(addr Address) uint64
	Transfer(contract, from, to Address, amount uint64) error

	// Object storage
	CreateObject(contract Address) (VMObject, error)
	CreateObjectWithID(contract Address, id ObjectID) (VMObject, error)
	GetObject(contract Address, id ObjectID) (VMObject, error)
	GetObjectWithOwner(contract, owner Address) (VMObject, error)
	DeleteObject(contract Address, id ObjectID) error

	// Logs and events
	Log(contract Address, eventName string, keyValues ...any)
}

// VMObject is the host-side view of a state object. Ownership checks happen
// here: mutating calls carry the sender so the context can reject writes from
// anyone but the owner (or the owning contract).
type VMObject interface {
	ID() ObjectID
	Owner() Address
	Contract() Address
	SetOwner(contract, sender, addr Address) error

	Get(contract Address, field string) ([]byte, error)
	Set(contract, sender Address, field string, value []byte) error
}

// Snapshotter is an optional interface a BlockchainContext may implement to
// support all-or-nothing execution. The engine snapshots before a call, then
// either restores on failure or commits on success, so a reverted call leaves
// no partial effects. The snapshot value is opaque to the engine; it may be a
// state copy or an open database transaction.
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
	Commit(snapshot any)
}

// Event is a contract event as observed by the host.
type Event struct {
	Contract  Address `json:"contract"`
	Name      string  `json:"name"`
	KeyValues []any   `json:"key_values,omitempty"`
}

// CallParams describes a single contract invocation.
type CallParams struct {
	Sender   Address `json:"sender,omitempty"`
	Contract Address `json:"contract,omitempty"`
	Function string  `json:"function,omitempty"`
	Args     []byte  `json:"args,omitempty"`
}

// ExecutionResult is the outcome of a contract invocation.
type ExecutionResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
