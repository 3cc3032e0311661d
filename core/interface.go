// Package core defines the interfaces a smart contract uses to interact
// with the virtual machine. Contract packages should depend on this package
// only; the host-side implementations live in context and vm.
package core

import (
	"encoding/hex"
	"strings"
)

// Address identifies an account on the chain.
type Address [20]byte

// ObjectID is the unique identifier of a state object.
type ObjectID [32]byte

// Hash is a 32-byte digest.
type Hash [32]byte

var ZeroAddress = Address{}
var ZeroObjectID = ObjectID{}
var ZeroHash = Hash{}

func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

// AddressFromString parses a hex address, with or without a 0x prefix.
// Invalid input yields the zero address.
func AddressFromString(str string) Address {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil {
		return ZeroAddress
	}
	var addr Address
	copy(addr[:], b)
	return addr
}

func (id ObjectID) String() string {
	return hex.EncodeToString(id[:])
}

// IDFromString parses a hex object ID, with or without a 0x prefix.
// Invalid input yields the zero ID.
func IDFromString(str string) ObjectID {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil {
		return ZeroObjectID
	}
	var id ObjectID
	copy(id[:], b)
	return id
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// HashFromString parses a hex hash, with or without a 0x prefix.
// Invalid input yields the zero hash.
func HashFromString(str string) Hash {
	str = strings.TrimPrefix(str, "0x")
	b, err := hex.DecodeString(str)
	if err != nil {
		return ZeroHash
	}
	var h Hash
	copy(h[:], b)
	return h
}

// Context is the interface a contract uses to talk to the blockchain
// environment. Every exported contract function receives one, already bound
// to the current contract address and transaction sender.
type Context interface {
	// Blockchain information
	BlockHeight() uint64      // current block height
	BlockTime() int64         // current block timestamp
	ContractAddress() Address // address of the executing contract

	// Account operations
	Sender() Address                          // transaction sender or calling contract
	Balance(addr Address) uint64              // account balance
	Transfer(to Address, amount uint64) error // transfer from the contract

	// Object storage. Basic state operations panic instead of returning an
	// error; the engine converts the panic into a reverted call.
	CreateObject() Object                             // create a new object, panics on failure
	CreateObjectWithID(id ObjectID) Object            // create an object at a fixed ID, panics if occupied
	GetObject(id ObjectID) (Object, error)            // fetch an object by ID
	GetObjectWithOwner(owner Address) (Object, error) // fetch an object by owner
	DeleteObject(id ObjectID)                         // delete an object, panics on failure

	// Logs and events
	Log(eventName string, keyValues ...any)
}

// Object manages a single blockchain state object.
type Object interface {
	ID() ObjectID          // object ID
	Owner() Address        // current owner
	Contract() Address     // contract the object belongs to
	SetOwner(addr Address) // transfer ownership, panics on failure

	// Field operations. Values cross the host boundary as JSON.
	Get(field string, value any) error
	Set(field string, value any) error
}

// Request aborts the current call unless the condition holds. A bool aborts
// when false, an error aborts when non-nil. The engine turns the panic into
// a reverted execution with no persisted effects.
func Request(condition any) {
	switch v := condition.(type) {
	case bool:
		if !v {
			panic("request failed")
		}
	case error:
		if v != nil {
			panic(v)
		}
	}
}
